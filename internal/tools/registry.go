// Package tools defines the capability registry exposed to the decision
// oracle.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

// ExecutorFunc runs one capability invocation and returns the tool-result
// content fed back to the oracle.
type ExecutorFunc func(ctx context.Context, args json.RawMessage) (string, error)

type registered struct {
	descriptor domain.CapabilityDescriptor
	exec       ExecutorFunc
}

// Registry stores capability descriptors and executors keyed by name. It is
// populated at process start and immutable afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registered
	order   []string
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registered)}
}

// Register adds a capability.
func (r *Registry) Register(desc domain.CapabilityDescriptor, exec ExecutorFunc) error {
	if desc.Name == "" {
		return fmt.Errorf("capability name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[desc.Name]; exists {
		return fmt.Errorf("capability already registered: %s", desc.Name)
	}
	r.entries[desc.Name] = registered{descriptor: desc, exec: exec}
	r.order = append(r.order, desc.Name)
	return nil
}

// MustRegister adds a capability or panics.
func (r *Registry) MustRegister(desc domain.CapabilityDescriptor, exec ExecutorFunc) {
	if err := r.Register(desc, exec); err != nil {
		panic(err)
	}
}

// Descriptors returns every capability descriptor in registration order.
func (r *Registry) Descriptors() []domain.CapabilityDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CapabilityDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].descriptor)
	}
	return out
}

// Execute runs the executor for the capability name.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no capability registered for %s", name)
	}
	return entry.exec(ctx, args)
}
