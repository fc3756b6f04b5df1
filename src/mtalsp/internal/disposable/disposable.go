// Package disposable tracks resources such as subscriptions and watchers so they can be released together.
package disposable

import (
	"sync"

	"github.com/uber/mta-lsp/src/mtalsp/internal/errors"
	"go.uber.org/multierr"
)

// Disposable is a resource that can be released.
type Disposable interface {
	Dispose() error
}

// Func adapts a function to the Disposable interface.
type Func func() error

// Dispose calls f.
func (f Func) Dispose() error {
	if f == nil {
		return nil
	}
	return f()
}

// Once wraps d so that only the first call to Dispose reaches it.
func Once(d Disposable) Disposable {
	var once sync.Once
	return Func(func() (err error) {
		once.Do(func() {
			err = d.Dispose()
		})
		return err
	})
}

// Registry is an externally owned collection of disposables that are released together.
type Registry struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers d. When the registry has already been disposed, d is disposed immediately and
// the returned error wraps errors.RegistryDisposedError.
func (r *Registry) Add(d Disposable) error {
	if d == nil {
		return nil
	}

	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return multierr.Append(errors.RegistryDisposedError, d.Dispose())
	}
	r.items = append(r.items, d)
	r.mu.Unlock()
	return nil
}

// Len returns the number of registered disposables.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Dispose releases every registered disposable in reverse registration order.
// All disposables are released even if some fail; the failures are combined.
func (r *Registry) Dispose() error {
	r.mu.Lock()
	items := r.items
	r.items = nil
	r.disposed = true
	r.mu.Unlock()

	var err error
	for i := len(items) - 1; i >= 0; i-- {
		err = multierr.Append(err, items[i].Dispose())
	}
	return err
}
