// Package syncagent stamps the storage schema version for a user at
// session start. The write is fire and forget: the coordinator never
// blocks on it, and a failure only means the marker is retried on the
// next session.
package syncagent

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/pathfinder/internal/store"
)

// Outcome reports what the agent did for one user.
type Outcome struct {
	UserID   uuid.UUID
	Stamped  bool
	Previous int
}

// Agent writes schema-version markers through the versioned gateway.
type Agent struct {
	gateway *store.Gateway
}

// New creates an agent backed by the given gateway.
func New(gateway *store.Gateway) *Agent {
	return &Agent{gateway: gateway}
}

// Init reads the user's stored schema-version marker and stamps the
// current version if it is missing or stale.
func (a *Agent) Init(ctx context.Context, userID uuid.UUID) (Outcome, error) {
	out := Outcome{UserID: userID}

	result, err := a.gateway.Load(ctx, userID, store.KeySchemaVersion, store.SchemaVersion)
	if err != nil {
		return out, err
	}

	if result.Found && !result.NeedsMigration {
		var marker int
		if err := json.Unmarshal(result.Data, &marker); err == nil && marker == store.SchemaVersion {
			out.Previous = marker
			return out, nil
		}
	}
	if result.Found {
		out.Previous = result.ActualVersion
	}

	if err := a.gateway.Save(ctx, userID, store.KeySchemaVersion, store.SchemaVersion, store.SchemaVersion); err != nil {
		return out, err
	}
	out.Stamped = true
	return out, nil
}

// InitAsync runs Init in the background and logs the outcome.
func (a *Agent) InitAsync(ctx context.Context, userID uuid.UUID) {
	go func() {
		out, err := a.Init(ctx, userID)
		if err != nil {
			log.Printf("[syncagent] schema stamp failed for user %s: %v", userID, err)
			return
		}
		if out.Stamped {
			log.Printf("[syncagent] stamped schema version %d for user %s (was %d)", store.SchemaVersion, userID, out.Previous)
		}
	}()
}
