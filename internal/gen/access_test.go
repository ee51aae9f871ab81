package gen

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAccessible(t *testing.T) {
	const out = "example.com/app/convadapter"

	exported := named("example.com/app/cars", "cars", "Car")
	unexported := named("example.com/app/cars", "cars", "engine")
	local := named(out, "convadapter", "local")
	internalSibling := named("example.com/app/internal/store", "store", "Row")
	internalForeign := named("example.com/other/internal/store", "store", "Row")
	mainType := named("example.com/app/cmd/tool", "main", "Flag")

	unexportedField := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, types.NewPackage("example.com/app/cars", "cars"), "secret", types.Typ[types.Int], false),
	}, nil)

	tests := []struct {
		name string
		typ  types.Type
		ok   bool
	}{
		{"basic", types.Typ[types.String], true},
		{"exported named", exported, true},
		{"pointer to exported", types.NewPointer(exported), true},
		{"unexported foreign", unexported, false},
		{"slice of unexported", types.NewSlice(unexported), false},
		{"map value unexported", types.NewMap(types.Typ[types.String], unexported), false},
		{"unexported in output package", local, true},
		{"internal of same tree", internalSibling, true},
		{"internal of other tree", internalForeign, false},
		{"main package", mainType, false},
		{"struct literal with unexported field", unexportedField, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAccessible(tt.typ, out)
			if tt.ok {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, ErrInaccessible)
		})
	}
}

func TestInternalVisible(t *testing.T) {
	assert.True(t, internalVisible("example.com/a/internal", "example.com/a/b"))
	assert.True(t, internalVisible("example.com/a/internal/x", "example.com/a"))
	assert.False(t, internalVisible("example.com/a/internal/x", "example.com/ab"))
	assert.True(t, internalVisible("example.com/a/b", "example.com/z"))
	assert.True(t, internalVisible("internal/bytealg", "strings"))
	assert.False(t, internalVisible("internal/bytealg", "example.com/a"))
}
