package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPkgAlias(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"time", "time"},
		{"adapter-generator/store", "store"},
		{"golang.org/x/text/language", "language"},
		{"github.com/go-playground/validator/v10", "validator"},
		{"example.com/my-pkg", "my_pkg"},
		{"example.com/go.mod", "go_mod"},
		{"example.com/type", "pkg_type"},
		{"example.com/1st", "pkg_1st"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PkgAlias(tt.in))
		})
	}
}

func TestIsExportedIdent(t *testing.T) {
	assert.True(t, IsExportedIdent("ConversionServiceAdapter"))
	assert.False(t, IsExportedIdent("adapter"))
	assert.False(t, IsExportedIdent("Conversion-Adapter"))
	assert.False(t, IsExportedIdent(""))
}

func TestSliceArity(t *testing.T) {
	assert.True(t, IsEmpty([]int(nil)))
	assert.False(t, IsSingle([]int(nil)))
	assert.True(t, IsSingle([]string{"a"}))
	assert.False(t, IsEmpty([]string{"a"}))
	assert.False(t, IsSingle([]string{"a", "b"}))
}
