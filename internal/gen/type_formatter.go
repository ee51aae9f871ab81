package gen

import (
	"cmp"
	"fmt"
	"go/types"
	"path"
	"slices"

	"adapter-generator/internal/common"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// NeedsAlias reports whether the import must name its alias explicitly.
func (i importSpec) NeedsAlias() bool {
	return i.Alias != path.Base(i.Path)
}

// importSet assigns file-level names to the packages a file refers to.
type importSet struct {
	self    string
	aliases map[string]string // path -> alias
	taken   map[string]struct{}
}

// newImportSet creates an import set for a file in package self. Reserved
// identifiers are never used as aliases.
func newImportSet(self string, reserved ...string) *importSet {
	s := &importSet{
		self:    self,
		aliases: make(map[string]string),
		taken:   make(map[string]struct{}),
	}

	for _, name := range reserved {
		s.taken[name] = struct{}{}
	}

	return s
}

// assign names every package in pkgs. Packages are processed in import path
// order so aliases do not depend on the order conversions were found in.
func (s *importSet) assign(pkgs []*types.Package) {
	pkgs = slices.Clone(pkgs)
	slices.SortFunc(pkgs, func(a, b *types.Package) int {
		return cmp.Compare(a.Path(), b.Path())
	})

	for _, pkg := range pkgs {
		if pkg.Path() == s.self {
			continue
		}

		if _, ok := s.aliases[pkg.Path()]; ok {
			continue
		}

		name := pkg.Name()
		if name == "" {
			name = common.PkgAlias(pkg.Path())
		}

		alias := name
		for i := 2; ; i++ {
			if _, clash := s.taken[alias]; !clash {
				break
			}

			alias = fmt.Sprintf("%s%d", name, i)
		}

		s.taken[alias] = struct{}{}
		s.aliases[pkg.Path()] = alias
	}
}

// qualifier renders package qualifiers with the assigned aliases.
func (s *importSet) qualifier(pkg *types.Package) string {
	if pkg == nil || pkg.Path() == s.self {
		return ""
	}

	if alias, ok := s.aliases[pkg.Path()]; ok {
		return alias
	}

	return pkg.Name()
}

// typeString renders t as it must be spelled in the generated file.
func (s *importSet) typeString(t types.Type) string {
	return types.TypeString(t, s.qualifier)
}

// specs returns the imports sorted by path.
func (s *importSet) specs() []importSpec {
	specs := make([]importSpec, 0, len(s.aliases))
	for p, alias := range s.aliases {
		specs = append(specs, importSpec{Alias: alias, Path: p})
	}

	slices.SortFunc(specs, func(a, b importSpec) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return specs
}

// packagesOf collects every package a type expression refers to.
func packagesOf(t types.Type, into map[string]*types.Package) {
	switch t := t.(type) {
	case *types.Alias:
		packagesOf(types.Unalias(t), into)
	case *types.Named:
		if pkg := t.Obj().Pkg(); pkg != nil {
			into[pkg.Path()] = pkg
		}

		for i := range t.TypeArgs().Len() {
			packagesOf(t.TypeArgs().At(i), into)
		}
	case *types.Pointer:
		packagesOf(t.Elem(), into)
	case *types.Slice:
		packagesOf(t.Elem(), into)
	case *types.Array:
		packagesOf(t.Elem(), into)
	case *types.Chan:
		packagesOf(t.Elem(), into)
	case *types.Map:
		packagesOf(t.Key(), into)
		packagesOf(t.Elem(), into)
	case *types.Signature:
		for i := range t.Params().Len() {
			packagesOf(t.Params().At(i).Type(), into)
		}

		for i := range t.Results().Len() {
			packagesOf(t.Results().At(i).Type(), into)
		}
	case *types.Struct:
		for i := range t.NumFields() {
			packagesOf(t.Field(i).Type(), into)
		}
	case *types.Interface:
		for i := range t.NumMethods() {
			packagesOf(t.Method(i).Type(), into)
		}
	}
}
