package convert

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNoDispatcher is returned when no dispatcher is registered.
	ErrNoDispatcher = errors.New("no dispatcher registered")
	// ErrAmbiguousDispatcher is returned when no name is given and more than
	// one dispatcher is registered.
	ErrAmbiguousDispatcher = errors.New("more than one dispatcher registered, a name is required")
	// ErrUnknownDispatcher is returned when the requested name is not registered.
	ErrUnknownDispatcher = errors.New("unknown dispatcher")
)

// DispatcherRegistry holds named dispatcher instances so generated adapters
// can select one by name. It is safe for concurrent use.
type DispatcherRegistry struct {
	mu          sync.RWMutex
	dispatchers map[string]Dispatcher
}

// NewDispatcherRegistry creates an empty registry.
func NewDispatcherRegistry() *DispatcherRegistry {
	return &DispatcherRegistry{dispatchers: make(map[string]Dispatcher)}
}

// Register stores d under name, replacing any previous instance.
func (r *DispatcherRegistry) Register(name string, d Dispatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dispatchers[name] = d
}

// Names returns the registered names in sorted order.
func (r *DispatcherRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.dispatchers))
	for name := range r.dispatchers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Resolve returns the dispatcher registered under name. An empty name selects
// the unique registered dispatcher.
func (r *DispatcherRegistry) Resolve(name string) (Dispatcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name != "" {
		d, ok := r.dispatchers[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDispatcher, name)
		}

		return d, nil
	}

	switch len(r.dispatchers) {
	case 0:
		return nil, ErrNoDispatcher
	case 1:
		for _, d := range r.dispatchers {
			return d, nil
		}
	}

	return nil, ErrAmbiguousDispatcher
}
