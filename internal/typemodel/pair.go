package typemodel

import (
	"go/types"

	"adapter-generator/internal/analyze"
)

// TypePair is the (source, target) key of one conversion. Both types are
// fully resolved and free of type parameters.
type TypePair struct {
	Source types.Type
	Target types.Type
}

// Key identifies the pair by the fully-qualified names of its types.
func (p TypePair) Key() string {
	return analyze.QualifiedString(p.Source) + " -> " + analyze.QualifiedString(p.Target)
}

// String returns the same representation as Key.
func (p TypePair) String() string {
	return p.Key()
}

// IsZero reports whether the pair is unset.
func (p TypePair) IsZero() bool {
	return p.Source == nil && p.Target == nil
}

// ContainsTypeParams reports whether t mentions a type parameter or an
// uninstantiated generic type anywhere in its structure.
func ContainsTypeParams(t types.Type) bool {
	switch t := t.(type) {
	case nil:
		return false
	case *types.TypeParam:
		return true
	case *types.Alias:
		return ContainsTypeParams(types.Unalias(t))
	case *types.Named:
		if t.TypeParams().Len() > 0 && t.TypeArgs().Len() == 0 {
			return true
		}

		for i := range t.TypeArgs().Len() {
			if ContainsTypeParams(t.TypeArgs().At(i)) {
				return true
			}
		}

		return false
	case *types.Pointer:
		return ContainsTypeParams(t.Elem())
	case *types.Slice:
		return ContainsTypeParams(t.Elem())
	case *types.Array:
		return ContainsTypeParams(t.Elem())
	case *types.Chan:
		return ContainsTypeParams(t.Elem())
	case *types.Map:
		return ContainsTypeParams(t.Key()) || ContainsTypeParams(t.Elem())
	case *types.Tuple:
		for i := range t.Len() {
			if ContainsTypeParams(t.At(i).Type()) {
				return true
			}
		}

		return false
	case *types.Signature:
		return ContainsTypeParams(t.Params()) || ContainsTypeParams(t.Results())
	case *types.Struct:
		for i := range t.NumFields() {
			if ContainsTypeParams(t.Field(i).Type()) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

func pairHasTypeParams(p TypePair) bool {
	return ContainsTypeParams(p.Source) || ContainsTypeParams(p.Target)
}
