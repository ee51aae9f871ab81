package analyze

import (
	"fmt"
	"go/types"
	"sort"
	"strings"
)

// LookupType resolves a type expression written in configuration:
//   - "string" (predeclared)
//   - "time.Duration" (import path + name)
//   - "adapter-generator/store.Car" (full)
//   - "store.Car" (short, unique path suffix)
//   - "*store.Car", "[]store.Car" (pointer and slice of the above)
//
// Only packages reachable from the root packages can be referenced. Generic
// types are rejected since their type arguments cannot be written here.
func (u *Unit) LookupType(expr string) (types.Type, error) {
	expr = strings.TrimSpace(expr)

	switch {
	case expr == "":
		return nil, fmt.Errorf("%w: empty type expression", ErrUnknownType)
	case strings.HasPrefix(expr, "*"):
		elem, err := u.LookupType(expr[1:])
		if err != nil {
			return nil, err
		}

		return types.NewPointer(elem), nil
	case strings.HasPrefix(expr, "[]"):
		elem, err := u.LookupType(expr[2:])
		if err != nil {
			return nil, err
		}

		return types.NewSlice(elem), nil
	}

	pkgPath, name, qualified := splitQualified(expr)
	if !qualified {
		tn, ok := types.Universe.Lookup(expr).(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, expr)
		}

		return tn.Type(), nil
	}

	pkg, err := u.findPackage(pkgPath)
	if err != nil {
		return nil, err
	}

	tn, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no type %q", ErrUnknownType, pkg.Path(), name)
	}

	if named, ok := tn.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%w: %q is generic and cannot be used without type arguments", ErrUnknownType, expr)
	}

	return tn.Type(), nil
}

// findPackage looks a package up by exact import path first, then by a unique
// path suffix (for short forms like "store" vs "adapter-generator/store").
func (u *Unit) findPackage(pkgPath string) (*types.Package, error) {
	if pkg, ok := u.all[pkgPath]; ok && pkg.Types != nil {
		return pkg.Types, nil
	}

	var matches []string

	for p, pkg := range u.all {
		if pkg.Types != nil && strings.HasSuffix(p, "/"+pkgPath) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: package %q is not imported by the loaded packages", ErrUnknownType, pkgPath)
	case 1:
		return u.all[matches[0]].Types, nil
	default:
		sort.Strings(matches)

		return nil, fmt.Errorf("%w: package %q is ambiguous (%s)", ErrUnknownType, pkgPath, strings.Join(matches, ", "))
	}
}
