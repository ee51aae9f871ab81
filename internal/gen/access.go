package gen

import (
	"errors"
	"fmt"
	"go/types"
	"strings"
)

// ErrInaccessible means a type cannot be named from the generated package.
var ErrInaccessible = errors.New("type is not accessible from the output package")

// CheckAccessible reports whether t can be spelled in a file of package from:
// unexported names, main packages and internal packages of other trees are
// out of reach.
func CheckAccessible(t types.Type, from string) error {
	switch t := t.(type) {
	case *types.Alias:
		return CheckAccessible(types.Unalias(t), from)
	case *types.Named:
		obj := t.Obj()
		if pkg := obj.Pkg(); pkg != nil && pkg.Path() != from {
			if !obj.Exported() {
				return fmt.Errorf("%w: %s is unexported", ErrInaccessible, types.TypeString(t, nil))
			}

			if pkg.Name() == "main" {
				return fmt.Errorf("%w: %s is declared in a main package", ErrInaccessible, types.TypeString(t, nil))
			}

			if !internalVisible(pkg.Path(), from) {
				return fmt.Errorf("%w: %s is declared in an internal package", ErrInaccessible, types.TypeString(t, nil))
			}
		}

		for i := range t.TypeArgs().Len() {
			if err := CheckAccessible(t.TypeArgs().At(i), from); err != nil {
				return err
			}
		}

		return nil
	case *types.Pointer:
		return CheckAccessible(t.Elem(), from)
	case *types.Slice:
		return CheckAccessible(t.Elem(), from)
	case *types.Array:
		return CheckAccessible(t.Elem(), from)
	case *types.Chan:
		return CheckAccessible(t.Elem(), from)
	case *types.Map:
		if err := CheckAccessible(t.Key(), from); err != nil {
			return err
		}

		return CheckAccessible(t.Elem(), from)
	case *types.Struct:
		for i := range t.NumFields() {
			f := t.Field(i)
			if !f.Exported() && f.Pkg() != nil && f.Pkg().Path() != from {
				return fmt.Errorf("%w: struct field %s is unexported", ErrInaccessible, f.Name())
			}

			if err := CheckAccessible(f.Type(), from); err != nil {
				return err
			}
		}

		return nil
	case *types.Signature:
		for _, tuple := range []*types.Tuple{t.Params(), t.Results()} {
			for i := range tuple.Len() {
				if err := CheckAccessible(tuple.At(i).Type(), from); err != nil {
					return err
				}
			}
		}

		return nil
	default:
		return nil
	}
}

// internalVisible applies the internal package rule: pkg may be imported by
// from only if from lives under the parent of pkg's internal element.
func internalVisible(pkg, from string) bool {
	var parent string

	switch {
	case pkg == "internal" || strings.HasPrefix(pkg, "internal/"):
		return !strings.Contains(from, ".")
	case strings.HasSuffix(pkg, "/internal"):
		parent = strings.TrimSuffix(pkg, "/internal")
	case strings.Contains(pkg, "/internal/"):
		parent = pkg[:strings.LastIndex(pkg, "/internal/")]
	default:
		return true
	}

	return from == parent || strings.HasPrefix(from, parent+"/")
}
