package strategy

import (
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"GambleBench/internal/model"
)

// Symbols is the complete symbol table visible to strategy code.
func Symbols() interp.Exports {
	exports := interp.Exports{
		TypesImportPath + "/types": {
			"Gamble":  reflect.ValueOf((*model.Gamble)(nil)),
			"History": reflect.ValueOf((*model.History)(nil)),
		},
	}
	for _, key := range []string{"math/math", "math/rand/rand"} {
		exports[key] = stdlib.Symbols[key]
	}
	return exports
}
