package attack

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// Transform degrades an image and returns a new one
type Transform func(img *image.NRGBA) (*image.NRGBA, error)

// Attack is a named degradation applied to an embedded image
type Attack struct {
	ID          string
	DisplayName string
	Apply       Transform
}

// Registry is an ordered container of attacks. Order of registration is the
// order in which a suite runs them.
type Registry struct {
	attacks []Attack
	index   map[string]int
	mu      sync.RWMutex
}

// NewRegistry creates an empty attack registry
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register appends an attack. IDs must be unique.
func (r *Registry) Register(a Attack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" || a.Apply == nil {
		return errors.New("attack needs an id and a transform")
	}
	if _, exists := r.index[a.ID]; exists {
		return fmt.Errorf("attack %q already registered", a.ID)
	}
	r.index[a.ID] = len(r.attacks)
	r.attacks = append(r.attacks, a)
	return nil
}

// Get finds an attack by id
func (r *Registry) Get(id string) (Attack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return Attack{}, false
	}
	return r.attacks[i], true
}

// All returns the registered attacks in registration order
func (r *Registry) All() []Attack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Attack, len(r.attacks))
	copy(out, r.attacks)
	return out
}

// IDs returns the registered attack ids in registration order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.attacks))
	for i, a := range r.attacks {
		ids[i] = a.ID
	}
	return ids
}
