// Package registry collects the conversions an adapter exposes and rejects
// duplicates. Entries keep the order in which they were registered.
package registry

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"adapter-generator/internal/typemodel"
)

// ErrDuplicateConversion is wrapped by DuplicateConversionError.
var ErrDuplicateConversion = errors.New("duplicate conversion")

// Origin tells where a conversion was declared.
//
//go:generate go tool stringer -type=Origin -linecomment -output=origin_string.go
type Origin int

const (
	// OriginConverter is a converter type found in the compilation unit.
	OriginConverter Origin = iota // converter
	// OriginExternal is an external conversion declared in configuration.
	OriginExternal // external
)

// Ref points back at the declaration of an entry, for diagnostics.
type Ref struct {
	// Name is the converter's fully-qualified type name, or the declaration
	// that listed an external conversion.
	Name string
	Pos  token.Position
}

func (r Ref) String() string {
	if r.Pos.IsValid() {
		return fmt.Sprintf("%s (%s)", r.Name, r.Pos)
	}

	return r.Name
}

// Entry is one conversion of the adapter.
type Entry struct {
	Pair   typemodel.TypePair
	Origin Origin
	Ref    Ref
}

func (e Entry) String() string {
	return fmt.Sprintf("%s [%s %s]", e.Pair, e.Origin, e.Ref)
}

// DuplicateConversionError names both declarations of the same pair.
type DuplicateConversionError struct {
	Pair     typemodel.TypePair
	Existing Entry
	Incoming Entry
}

func (e *DuplicateConversionError) Error() string {
	return fmt.Sprintf("%v: %s is declared by %s %s and by %s %s",
		ErrDuplicateConversion, e.Pair,
		e.Existing.Origin, e.Existing.Ref,
		e.Incoming.Origin, e.Incoming.Ref)
}

func (e *DuplicateConversionError) Unwrap() error { return ErrDuplicateConversion }

// Registry maps type pairs to entries. It is not safe for concurrent use; the
// pipeline fills it sequentially in canonical order.
type Registry struct {
	m *linkedhashmap.Map // TypePair.Key() -> Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{m: linkedhashmap.New()}
}

// Register adds e. It fails with *DuplicateConversionError when an entry for
// the same pair exists; the registry is left unchanged in that case.
func (r *Registry) Register(e Entry) error {
	if e.Pair.IsZero() {
		return fmt.Errorf("registry: empty pair for %s", e.Ref)
	}

	key := e.Pair.Key()
	if v, found := r.m.Get(key); found {
		return &DuplicateConversionError{Pair: e.Pair, Existing: v.(Entry), Incoming: e}
	}

	r.m.Put(key, e)

	return nil
}

// Lookup returns the entry registered for pair.
func (r *Registry) Lookup(pair typemodel.TypePair) (Entry, bool) {
	v, found := r.m.Get(pair.Key())
	if !found {
		return Entry{}, false
	}

	return v.(Entry), true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return r.m.Size()
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, r.m.Size())

	it := r.m.Iterator()
	for it.Next() {
		entries = append(entries, it.Value().(Entry))
	}

	return entries
}
