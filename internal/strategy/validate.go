package strategy

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// TypesImportPath is the import path strategy files use for the domain types.
const TypesImportPath = "gamblebench/types"

var allowedImports = map[string]bool{
	"math":      true,
	"math/rand": true,
}

// Only these symbols may be referenced through TypesImportPath.
var allowedTypeSymbols = map[string]bool{
	"Gamble":  true,
	"History": true,
}

// Validate parses src and walks every node, rejecting output calls and imports outside the allow-list.
// Nothing in src is executed.
func Validate(filename string, src []byte) (*ast.File, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, &ViolationError{Kind: ErrInvalidSource, File: filename, Detail: err.Error()}
	}

	typesName := ""
	pkgNames := make(map[string]bool)
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, &ViolationError{Kind: ErrInvalidSource, File: filename, Detail: err.Error()}
		}
		pkgNames[importName(imp, path)] = true
		switch {
		case allowedImports[path]:
		case path == TypesImportPath:
			typesName = "types"
			if imp.Name != nil {
				typesName = imp.Name.Name
			}
			if typesName == "." {
				return nil, &ViolationError{
					Kind: ErrUnauthorizedImport, File: filename, Module: path,
					Detail: "dot imports are not allowed",
				}
			}
		default:
			return nil, &ViolationError{
				Kind: ErrUnauthorizedImport, File: filename, Module: path,
				Detail: "only math, math/rand and " + TypesImportPath + " are allowed",
			}
		}
	}

	var verr error
	ast.Inspect(f, func(n ast.Node) bool {
		if verr != nil {
			return false
		}
		switch x := n.(type) {
		case *ast.CallExpr:
			if name, ok := outputCall(x.Fun, pkgNames); ok {
				verr = &ViolationError{
					Kind: ErrForbiddenOperation, File: filename,
					Detail: fmt.Sprintf("call to %s; output is not allowed in strategy files", name),
				}
			}
		case *ast.SelectorExpr:
			id, ok := x.X.(*ast.Ident)
			if ok && typesName != "" && typesName != "_" && id.Name == typesName && !allowedTypeSymbols[x.Sel.Name] {
				verr = &ViolationError{
					Kind: ErrUnauthorizedImport, File: filename, Module: TypesImportPath,
					Detail: fmt.Sprintf("symbol %s is not allowed; only Gamble and History may be used", x.Sel.Name),
				}
			}
		}
		return true
	})
	if verr != nil {
		return nil, verr
	}
	return f, nil
}

// outputCall reports whether fun names a print builtin or a Print/Fprint style
// function of an imported package. Methods on local values are not output calls.
func outputCall(fun ast.Expr, pkgNames map[string]bool) (string, bool) {
	switch f := fun.(type) {
	case *ast.Ident:
		if f.Name == "print" || f.Name == "println" {
			return f.Name, true
		}
	case *ast.SelectorExpr:
		x, ok := f.X.(*ast.Ident)
		if !ok || !pkgNames[x.Name] {
			return "", false
		}
		name := f.Sel.Name
		if strings.HasPrefix(name, "Print") || strings.HasPrefix(name, "Fprint") {
			return x.Name + "." + name, true
		}
	}
	return "", false
}

func importName(imp *ast.ImportSpec, path string) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	return path[strings.LastIndex(path, "/")+1:]
}
