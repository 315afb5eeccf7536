package strategy

import (
	"go/ast"
	"go/types"
)

// shape is what the loader needs to know about a validated strategy file.
type shape struct {
	pkg         string
	hasCtor     bool // func NewStrategy() with no parameters
	playResult  string
	nameField   bool
	authorField bool
}

func inspectShape(filename string, f *ast.File) (*shape, error) {
	sh := &shape{pkg: f.Name.Name}
	var hasType, hasPlay bool

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name.Name != "Strategy" {
					continue
				}
				hasType = true
				if st, ok := ts.Type.(*ast.StructType); ok {
					sh.nameField, sh.authorField = stringFields(st)
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil {
				if d.Name.Name == "NewStrategy" && d.Type.Params.NumFields() == 0 && d.Type.Results.NumFields() == 1 {
					sh.hasCtor = true
				}
				continue
			}
			if d.Name.Name != "Play" || receiverName(d.Recv) != "Strategy" {
				continue
			}
			if d.Type.Results.NumFields() != 1 {
				return nil, &ViolationError{
					Kind: ErrMissingStrategyClass, File: filename,
					Detail: "Strategy.Play must return exactly one value",
				}
			}
			hasPlay = true
			sh.playResult = types.ExprString(d.Type.Results.List[0].Type)
		}
	}

	if !hasType {
		return nil, &ViolationError{Kind: ErrMissingStrategyClass, File: filename, Detail: "no type named Strategy"}
	}
	if !hasPlay {
		return nil, &ViolationError{Kind: ErrMissingStrategyClass, File: filename, Detail: "Strategy has no Play method"}
	}
	return sh, nil
}

func receiverName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func stringFields(st *ast.StructType) (name, author bool) {
	for _, field := range st.Fields.List {
		id, ok := field.Type.(*ast.Ident)
		if !ok || id.Name != "string" {
			continue
		}
		for _, n := range field.Names {
			switch n.Name {
			case "Name":
				name = true
			case "Author":
				author = true
			}
		}
	}
	return name, author
}
