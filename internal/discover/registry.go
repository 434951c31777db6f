package discover

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/pathfinder/internal/assessment"
	"github.com/jonathan/pathfinder/internal/store"
)

// Registry hands out one Coordinator per user, building and restoring it on
// first touch.
type Registry struct {
	mu           sync.Mutex
	gateway      *store.Gateway
	provider     assessment.Provider
	coordinators map[uuid.UUID]*Coordinator
}

// NewRegistry creates an empty registry.
func NewRegistry(gateway *store.Gateway, provider assessment.Provider) *Registry {
	return &Registry{
		gateway:      gateway,
		provider:     provider,
		coordinators: make(map[uuid.UUID]*Coordinator),
	}
}

// Get returns the user's coordinator, restoring it from persistence the
// first time.
func (r *Registry) Get(ctx context.Context, userID uuid.UUID) (*Coordinator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.coordinators[userID]; ok {
		return c, nil
	}
	c, err := NewCoordinator(ctx, userID, r.gateway, r.provider)
	if err != nil {
		return nil, err
	}
	r.coordinators[userID] = c
	return c, nil
}
