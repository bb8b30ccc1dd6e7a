// Package providers hosts the global Responder registry used to pick a
// Responder implementation by name at process startup.
package providers

import (
	"fmt"
	"sync"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// ResponderFactory builds a voice.Responder from a raw config map (env
// vars or CLI flags, already split by key).
type ResponderFactory func(settings map[string]string) (voice.Responder, error)

// Registry holds named Responder factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ResponderFactory
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// GetRegistry returns the process-wide Responder registry.
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = &Registry{factories: make(map[string]ResponderFactory)}
	})
	return globalRegistry
}

// Register adds a named factory. Re-registering a name overwrites it.
func (r *Registry) Register(name string, factory ResponderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// New builds a Responder by name.
func (r *Registry) New(name string, settings map[string]string) (voice.Responder, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, voice.NewError("Registry.New", voice.ErrCodeInvalidConfig, fmt.Sprintf("responder %q not registered", name))
	}
	return factory(settings)
}

// Names lists every registered Responder name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	return out
}
