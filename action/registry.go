package action

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Registry is a fixed set of actions addressed by name.
type Registry struct {
	actions map[string]Executor
}

// NewRegistry indexes actions by name. All problems are reported at once.
func NewRegistry(actions ...Executor) (*Registry, error) {
	var result *multierror.Error
	r := &Registry{actions: make(map[string]Executor, len(actions))}

	for i, a := range actions {
		if isNil(a) {
			result = multierror.Append(result, fmt.Errorf("action %d is nil", i))
			continue
		}
		name := a.Name()
		if _, ok := r.actions[name]; ok {
			result = multierror.Append(result, fmt.Errorf("%w: %s", ErrDuplicateAction, name))
			continue
		}
		r.actions[name] = a
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (Executor, error) {
	a, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, name)
	}
	return a, nil
}

// MustGet is like Get but panics when name is unknown.
func (r *Registry) MustGet(name string) Executor {
	a, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return a
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.actions)
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(e Executor) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
