// Package naming assigns a unique method identifier to every conversion of an
// adapter.
//
// The base identifier is "Map" + simple name of the source + "To" + simple name
// of the target. Conversions whose base identifiers collide are told apart by
// a numeric suffix, in binding order: MapOrderToOrderDto, MapOrderToOrderDto2.
package naming

import (
	"fmt"
	"go/types"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"adapter-generator/internal/registry"
)

// Binding pairs a conversion with the method that exposes it.
type Binding struct {
	Entry      registry.Entry
	Identifier string
}

// Assign names every entry. The result has the order of entries and its
// identifiers are pairwise distinct.
func Assign(entries []registry.Entry) []Binding {
	ns := make(namespace)
	bindings := make([]Binding, 0, len(entries))

	for _, e := range entries {
		bindings = append(bindings, Binding{
			Entry:      e,
			Identifier: ns.name(BaseName(e.Pair.Source, e.Pair.Target)),
		})
	}

	return bindings
}

// BaseName returns the identifier of a conversion before disambiguation.
func BaseName(source, target types.Type) string {
	return "Map" + SimpleName(source) + "To" + SimpleName(target)
}

// SimpleName renders t as an exported identifier fragment: the type name
// without its package, with composite types spelled out.
func SimpleName(t types.Type) string {
	switch t := t.(type) {
	case *types.Alias:
		return upper(t.Obj().Name())
	case *types.Named:
		name := upper(t.Obj().Name())
		for i := range t.TypeArgs().Len() {
			name += SimpleName(t.TypeArgs().At(i))
		}

		return name
	case *types.Basic:
		return upper(t.Name())
	case *types.Pointer:
		return SimpleName(t.Elem())
	case *types.Slice:
		return SimpleName(t.Elem()) + "Slice"
	case *types.Array:
		return SimpleName(t.Elem()) + "Array"
	case *types.Map:
		return "Map" + SimpleName(t.Key()) + SimpleName(t.Elem())
	case *types.Chan:
		return SimpleName(t.Elem()) + "Chan"
	case *types.Signature:
		return "Func"
	case *types.Interface:
		if t.Empty() {
			return "Any"
		}

		return "Interface"
	case *types.Struct:
		return "Struct"
	default:
		return "Value"
	}
}

// upper drops runes that cannot appear in identifiers and capitalizes every
// remaining chunk.
func upper(name string) string {
	chunks := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	// A Caser is stateful, so each call gets its own.
	title := cases.Title(language.English, cases.NoLower)
	for i := range chunks {
		chunks[i] = title.String(chunks[i])
	}

	return strings.Join(chunks, "")
}

// namespace tracks the identifiers already handed out.
type namespace map[string]struct{}

func (ns namespace) reserve(name string) bool {
	if _, ok := ns[name]; ok {
		return false
	}

	ns[name] = struct{}{}

	return true
}

func (ns namespace) name(base string) string {
	for name := range disambiguate(base) {
		if ns.reserve(name) {
			return name
		}
	}

	panic("unreachable")
}

// disambiguate yields base, then base2, base3, ...; a base ending in a digit
// gets an underscore first ("MapInt64ToInt32_2").
func disambiguate(base string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(base) {
			return
		}

		sep := ""
		if last, _ := utf8.DecodeLastRuneInString(base); unicode.IsDigit(last) {
			sep = "_"
		}

		for i := 2; ; i++ {
			if !yield(fmt.Sprintf("%s%s%d", base, sep, i)) {
				return
			}
		}
	}
}
