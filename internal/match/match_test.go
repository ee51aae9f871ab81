package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"output", "outptu", 2},
		{"Hello", "hello", 1},
		{"ö", "o", 1},
		{"größe", "grosse", 3},
		{"类型", "类别", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestNormalizeIdent(t *testing.T) {
	assert.Equal(t, "dispatchername", NormalizeIdent("dispatcherName"))
	assert.Equal(t, "dispatchername", NormalizeIdent("dispatcher_name"))
	assert.Equal(t, "dispatchername", NormalizeIdent("Dispatcher-Name"))
	assert.Empty(t, NormalizeIdent("_-"))
}

func TestSuggest(t *testing.T) {
	known := []string{"output", "artifact", "dispatcher", "external"}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"outpt", "output", true},
		{"Artifact", "artifact", true},
		{"dispatch", "dispatcher", true},
		{"externals", "external", true},
		{"capability", "", false},
		{"x", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.name, known)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	got, ok := Suggest("Grösse", []string{"größe", "gross"})
	assert.True(t, ok)
	assert.Equal(t, "größe", got)

	_, ok = Suggest("output", nil)
	assert.False(t, ok)
}
