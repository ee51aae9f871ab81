// Package typemodel decides whether a declared type is a converter and
// extracts the concrete (source, target) pair it converts.
//
// A converter is a named, non-interface type whose method set (of T or *T)
// satisfies the capability interface instantiated with two concrete types.
// Generic converters are resolved through the instantiations recorded in the
// compilation unit: exactly one distinct pair resolves, none is
// ErrUnresolvedGenerics, several is ErrMultipleConverterInstantiations.
package typemodel

import (
	"errors"
	"fmt"
	"go/types"
	"strings"

	"adapter-generator/internal/analyze"
	"adapter-generator/internal/common"
)

var (
	// ErrNotAConverter means the type does not implement the capability.
	ErrNotAConverter = errors.New("not a converter")
	// ErrUnresolvedGenerics means the capability is implemented with type
	// parameters that no instantiation in the unit makes concrete.
	ErrUnresolvedGenerics = errors.New("unresolved generic type arguments")
	// ErrMultipleConverterInstantiations means a generic converter is
	// instantiated with more than one distinct pair.
	ErrMultipleConverterInstantiations = errors.New("multiple converter instantiations")
	// ErrUnsupportedCapability means the capability's method does not take the
	// source type as a parameter and return the target type as a result.
	ErrUnsupportedCapability = errors.New("unsupported capability shape")
)

// InstanceSource reports the instantiations of a generic type found in the
// compilation unit.
type InstanceSource interface {
	Instances(origin *types.TypeName) []types.Type
}

// Error is a resolution failure for one candidate.
type Error struct {
	// Type is the fully-qualified name of the candidate.
	Type string
	// Err is one of the package's sentinel errors.
	Err error
	// Instances lists the instantiations involved, if any.
	Instances []string
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrMultipleConverterInstantiations):
		return fmt.Sprintf("%s implements the converter capability with several type argument sets: %s",
			e.Type, strings.Join(e.Instances, ", "))
	case errors.Is(e.Err, ErrUnresolvedGenerics):
		return fmt.Sprintf("%s implements the converter capability with unresolved type parameters "+
			"and is never instantiated with concrete types", e.Type)
	default:
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// shape records where the capability's type parameters appear in the
// signature of its single method.
type shape struct {
	method    string
	methodPkg *types.Package
	params    int
	results   int
	srcIdx    int
	tgtIdx    int
}

// Resolver extracts conversion pairs from declared types. It is stateless
// after construction and safe for concurrent use.
type Resolver struct {
	capability *types.Named
	shape      shape
	instances  InstanceSource
}

// NewResolver creates a Resolver for the given generic capability interface.
func NewResolver(capability *types.Named, instances InstanceSource) (*Resolver, error) {
	sh, err := capabilityShape(capability)
	if err != nil {
		return nil, err
	}

	return &Resolver{capability: capability, shape: sh, instances: instances}, nil
}

func capabilityShape(capability *types.Named) (shape, error) {
	iface, ok := capability.Underlying().(*types.Interface)
	if !ok || capability.TypeParams().Len() != 2 || iface.NumMethods() != 1 {
		return shape{}, fmt.Errorf("%w: %s", ErrUnsupportedCapability, capability)
	}

	m := iface.Method(0)
	sig := m.Type().(*types.Signature)
	src, tgt := capability.TypeParams().At(0), capability.TypeParams().At(1)

	sh := shape{
		method:    m.Name(),
		methodPkg: m.Pkg(),
		params:    sig.Params().Len(),
		results:   sig.Results().Len(),
		srcIdx:    -1,
		tgtIdx:    -1,
	}

	for i := range sig.Params().Len() {
		if types.Identical(sig.Params().At(i).Type(), src) {
			sh.srcIdx = i
		}
	}

	for i := range sig.Results().Len() {
		if types.Identical(sig.Results().At(i).Type(), tgt) {
			sh.tgtIdx = i
		}
	}

	if sh.srcIdx < 0 || sh.tgtIdx < 0 || sig.Variadic() {
		return shape{}, fmt.Errorf("%w: %s.%s must take the source type as a parameter and return the target type",
			ErrUnsupportedCapability, capability.Obj().Name(), m.Name())
	}

	return sh, nil
}

// Resolve inspects obj. It returns the pair, or an error wrapping
// ErrNotAConverter, ErrUnresolvedGenerics or ErrMultipleConverterInstantiations.
func (r *Resolver) Resolve(obj *types.TypeName) (TypePair, error) {
	name := qualifiedName(obj)

	if obj.IsAlias() {
		return TypePair{}, &Error{Type: name, Err: ErrNotAConverter}
	}

	named, ok := obj.Type().(*types.Named)
	if !ok || types.IsInterface(named) {
		return TypePair{}, &Error{Type: name, Err: ErrNotAConverter}
	}

	pair, ok := r.pairOf(named)
	if !ok {
		return TypePair{}, &Error{Type: name, Err: ErrNotAConverter}
	}

	if !pairHasTypeParams(pair) {
		return pair, nil
	}

	return r.resolveInstances(obj, name)
}

// resolveInstances resolves a generic converter through its instantiations.
func (r *Resolver) resolveInstances(obj *types.TypeName, name string) (TypePair, error) {
	var (
		pairs []TypePair
		insts []string
		seen  = make(map[string]struct{})
	)

	if r.instances != nil {
		for _, inst := range r.instances.Instances(obj) {
			named, ok := inst.(*types.Named)
			if !ok || ContainsTypeParams(named) {
				continue
			}

			pair, ok := r.pairOf(named)
			if !ok || pairHasTypeParams(pair) {
				continue
			}

			if _, dup := seen[pair.Key()]; dup {
				continue
			}

			seen[pair.Key()] = struct{}{}
			pairs = append(pairs, pair)
			insts = append(insts, analyze.QualifiedString(named))
		}
	}

	switch {
	case common.IsEmpty(pairs):
		return TypePair{}, &Error{Type: name, Err: ErrUnresolvedGenerics}
	case common.IsSingle(pairs):
		return pairs[0], nil
	default:
		return TypePair{}, &Error{Type: name, Err: ErrMultipleConverterInstantiations, Instances: insts}
	}
}

// pairOf extracts the candidate pair from the capability method of t and, for
// concrete pairs, confirms it with types.Implements.
func (r *Resolver) pairOf(t *types.Named) (TypePair, bool) {
	ptr := types.NewPointer(t)

	sel := types.NewMethodSet(ptr).Lookup(r.shape.methodPkg, r.shape.method)
	if sel == nil {
		return TypePair{}, false
	}

	fn, ok := sel.Obj().(*types.Func)
	if !ok {
		return TypePair{}, false
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Params().Len() != r.shape.params || sig.Results().Len() != r.shape.results || sig.Variadic() {
		return TypePair{}, false
	}

	pair := TypePair{
		Source: types.Unalias(sig.Params().At(r.shape.srcIdx).Type()),
		Target: types.Unalias(sig.Results().At(r.shape.tgtIdx).Type()),
	}

	if pairHasTypeParams(pair) || ContainsTypeParams(t) {
		// Implements is unspecified for uninstantiated generic types; the
		// instantiations are checked individually instead.
		return pair, true
	}

	inst, err := types.Instantiate(nil, r.capability, []types.Type{pair.Source, pair.Target}, true)
	if err != nil {
		return TypePair{}, false
	}

	iface, ok := inst.Underlying().(*types.Interface)
	if !ok {
		return TypePair{}, false
	}

	if !types.Implements(t, iface) && !types.Implements(ptr, iface) {
		return TypePair{}, false
	}

	return pair, true
}

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}

	return obj.Pkg().Path() + "." + obj.Name()
}
