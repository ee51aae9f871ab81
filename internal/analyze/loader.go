package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"adapter-generator/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedModule

// DefaultCapability is the generic interface a type has to satisfy to be a
// converter.
const DefaultCapability = "adapter-generator/convert.Converter"

var (
	// ErrPackageErrors is returned when a loaded package does not compile.
	ErrPackageErrors = errors.New("package errors")
	// ErrNoPackages is returned when the patterns match nothing.
	ErrNoPackages = errors.New("no packages matched")
	// ErrInvalidCapability is returned when the capability cannot be used.
	ErrInvalidCapability = errors.New("invalid converter capability")
	// ErrUnknownType is returned by LookupType for unresolvable expressions.
	ErrUnknownType = errors.New("unknown type")
	// ErrPlacement is returned when an output package cannot be located.
	ErrPlacement = errors.New("cannot place output package")
)

// Config controls how packages are loaded.
type Config struct {
	// Dir is the working directory of the build system (empty: current directory).
	Dir string
	// Env is the environment of the build system (nil: inherit).
	Env []string
	// BuildFlags are passed to the build system (e.g., "-tags=integration").
	BuildFlags []string
	// Capability is the qualified name of the generic converter interface.
	Capability string
}

// Loader loads Go packages and builds the compilation unit.
type Loader struct {
	cfg Config
}

// NewLoader creates a new Loader.
func NewLoader(cfg Config) *Loader {
	if cfg.Capability == "" {
		cfg.Capability = DefaultCapability
	}

	return &Loader{cfg: cfg}
}

// Load loads the packages matched by patterns and indexes their declarations.
// Patterns are standard Go package patterns (e.g., "./...", "adapter-generator/store").
func (l *Loader) Load(ctx context.Context, patterns ...string) (*Unit, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	fset := token.NewFileSet()

	pkgs, err := l.load(ctx, fset, patterns...)
	if err != nil {
		return nil, err
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, strings.Join(patterns, " "))
	}

	unit := newUnit(fset, pkgs)

	capPath, capName, ok := splitQualified(l.cfg.Capability)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a qualified type name", ErrInvalidCapability, l.cfg.Capability)
	}

	// The capability is usually imported by the scanned packages. Load it on
	// its own otherwise; identity does not matter since it is only instantiated.
	if _, found := unit.all[capPath]; !found {
		extra, err := l.load(ctx, fset, capPath)
		if err != nil {
			return nil, fmt.Errorf("loading capability package: %w", err)
		}

		unit.addDeps(extra)
	}

	if err := unit.setCapability(capPath, capName); err != nil {
		return nil, err
	}

	unit.index()

	return unit, nil
}

func (l *Loader) load(ctx context.Context, fset *token.FileSet, patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       LoadMode,
		Dir:        l.cfg.Dir,
		Env:        l.cfg.Env,
		BuildFlags: l.cfg.BuildFlags,
		Fset:       fset,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrPackageErrors, errors.Join(errs...))
	}

	return pkgs, nil
}

// Unit is the loaded compilation unit. It is read-only once Load returns and
// safe for concurrent reads.
type Unit struct {
	Fset *token.FileSet

	roots      []*packages.Package
	all        map[string]*packages.Package
	module     *Module
	capability *types.Named
	candidates []Candidate
	directives []Directive
	instances  map[*types.TypeName][]types.Type
}

func newUnit(fset *token.FileSet, roots []*packages.Package) *Unit {
	sorted := make([]*packages.Package, len(roots))
	copy(sorted, roots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PkgPath < sorted[j].PkgPath })

	u := &Unit{
		Fset:      fset,
		roots:     sorted,
		all:       make(map[string]*packages.Package),
		instances: make(map[*types.TypeName][]types.Type),
	}
	u.addDeps(sorted)

	for _, pkg := range sorted {
		if pkg.Module != nil {
			u.module = &Module{Path: pkg.Module.Path, Dir: pkg.Module.Dir}
			break
		}
	}

	return u
}

func (u *Unit) addDeps(pkgs []*packages.Package) {
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if _, ok := u.all[p.PkgPath]; !ok {
			u.all[p.PkgPath] = p
		}
	})
}

func (u *Unit) setCapability(pkgPath, name string) error {
	pkg, ok := u.all[pkgPath]
	if !ok || pkg.Types == nil {
		return fmt.Errorf("%w: package %q not found", ErrInvalidCapability, pkgPath)
	}

	obj, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return fmt.Errorf("%w: %s.%s is not a type", ErrInvalidCapability, pkgPath, name)
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		return fmt.Errorf("%w: %s.%s is not a named type", ErrInvalidCapability, pkgPath, name)
	}

	iface, ok := named.Underlying().(*types.Interface)
	if !ok || named.TypeParams().Len() != 2 || iface.NumMethods() != 1 {
		return fmt.Errorf("%w: %s.%s must be an interface with two type parameters and one method",
			ErrInvalidCapability, pkgPath, name)
	}

	u.capability = named

	return nil
}

// index collects candidates, directives and generic instantiations of the
// root packages.
func (u *Unit) index() {
	seen := make(map[*types.TypeName]*typeutil.Map)

	for _, pkg := range u.roots {
		if pkg.Types == nil {
			continue
		}

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			// Only process type names (not variables, constants, functions)
			typeName, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || typeName.IsAlias() {
				continue
			}

			u.candidates = append(u.candidates, Candidate{
				ID:  TypeID{PkgPath: pkg.PkgPath, Name: name},
				Obj: typeName,
				Pos: u.Fset.Position(typeName.Pos()),
			})
		}

		u.directives = append(u.directives, u.collectDirectives(pkg)...)

		if pkg.TypesInfo == nil {
			continue
		}

		for _, inst := range pkg.TypesInfo.Instances {
			named, ok := inst.Type.(*types.Named)
			if !ok || named.Origin() == named {
				continue
			}

			origin := named.Origin().Obj()

			set := seen[origin]
			if set == nil {
				set = new(typeutil.Map)
				seen[origin] = set
			}

			if set.At(named) == nil {
				set.Set(named, true)
				u.instances[origin] = append(u.instances[origin], named)
			}
		}
	}

	sort.Slice(u.candidates, func(i, j int) bool {
		return u.candidates[i].ID.String() < u.candidates[j].ID.String()
	})

	for origin, list := range u.instances {
		sort.Slice(list, func(i, j int) bool {
			return QualifiedString(list[i]) < QualifiedString(list[j])
		})
		u.instances[origin] = list
	}
}

func (u *Unit) collectDirectives(pkg *packages.Package) []Directive {
	files := make([]*ast.File, len(pkg.Syntax))
	copy(files, pkg.Syntax)
	sort.Slice(files, func(i, j int) bool {
		return u.Fset.Position(files[i].Package).Filename < u.Fset.Position(files[j].Package).Filename
	})

	var out []Directive

	for _, file := range files {
		for _, group := range file.Comments {
			for _, c := range group.List {
				rest, ok := strings.CutPrefix(c.Text, DirectivePrefix)
				if !ok {
					continue
				}

				fields := strings.Fields(rest)
				if len(fields) == 0 {
					fields = []string{""}
				}

				out = append(out, Directive{
					PkgPath: pkg.PkgPath,
					PkgName: pkg.Name,
					Key:     fields[0],
					Args:    fields[1:],
					Pos:     u.Fset.Position(c.Slash),
				})
			}
		}
	}

	return out
}

// Candidates returns every non-alias package-level type declaration of the
// root packages, ordered by fully-qualified name.
func (u *Unit) Candidates() []Candidate {
	return u.candidates
}

// Directives returns every configuration comment of the root packages,
// ordered by package path, file name and position.
func (u *Unit) Directives() []Directive {
	return u.directives
}

// Capability returns the generic converter interface.
func (u *Unit) Capability() *types.Named {
	return u.capability
}

// Instances returns the distinct instantiations of the generic type origin
// recorded anywhere in the root packages, ordered by qualified type string.
func (u *Unit) Instances(origin *types.TypeName) []types.Type {
	return u.instances[origin]
}

// Module returns the main module, or nil when packages are not module-aware.
func (u *Unit) Module() *Module {
	return u.module
}

// Packages returns the import paths of the root packages in sorted order.
func (u *Unit) Packages() []string {
	out := make([]string, 0, len(u.roots))
	for _, pkg := range u.roots {
		out = append(out, pkg.PkgPath)
	}

	return out
}

// Placement resolves where a generated package lives. outputPackage is either
// an import path of the main module or a path relative to the module root.
func (u *Unit) Placement(outputPackage string) (Placement, error) {
	p := path.Clean(strings.TrimPrefix(outputPackage, "./"))
	if p == "" || p == "." || strings.HasPrefix(p, "../") || p == ".." {
		return Placement{}, fmt.Errorf("%w: %q", ErrPlacement, outputPackage)
	}

	if pl, ok := u.loadedPlacement(p); ok {
		return pl, nil
	}

	if u.module == nil {
		return Placement{}, fmt.Errorf("%w: %q is not loaded and no main module is known", ErrPlacement, outputPackage)
	}

	if p != u.module.Path && !strings.HasPrefix(p, u.module.Path+"/") {
		p = path.Join(u.module.Path, p)
		if pl, ok := u.loadedPlacement(p); ok {
			return pl, nil
		}
	}

	rel := strings.TrimPrefix(strings.TrimPrefix(p, u.module.Path), "/")

	return Placement{
		PkgPath: p,
		PkgName: common.PkgAlias(p),
		Dir:     filepath.Join(u.module.Dir, filepath.FromSlash(rel)),
	}, nil
}

func (u *Unit) loadedPlacement(pkgPath string) (Placement, bool) {
	pkg, ok := u.all[pkgPath]
	if !ok || len(pkg.GoFiles) == 0 {
		return Placement{}, false
	}

	if u.module != nil && pkg.Module != nil && pkg.Module.Path != u.module.Path {
		return Placement{}, false
	}

	return Placement{
		PkgPath: pkg.PkgPath,
		PkgName: pkg.Name,
		Dir:     filepath.Dir(pkg.GoFiles[0]),
	}, true
}

// QualifiedString renders t with full import paths, e.g.
// "*adapter-generator/store.Car".
func QualifiedString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Path() })
}

func splitQualified(s string) (pkgPath, name string, ok bool) {
	lastDot := strings.LastIndex(s, ".")
	if lastDot <= strings.LastIndex(s, "/") || lastDot == len(s)-1 || lastDot == 0 {
		return "", "", false
	}

	return s[:lastDot], s[lastDot+1:], true
}
