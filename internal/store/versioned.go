// Package store provides versioned, per-user record persistence. Every
// record is wrapped with a schema version and save timestamp so stale or
// legacy data is detected on load; migration policy is left to callers.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the version written on every save.
const SchemaVersion = 2

// Logical record keys, one per persisted concern.
const (
	KeyInterestsAnswers       = "interests-answers"
	KeyInterestsProfile       = "interests-profile"
	KeyPersonalityProgress    = "personality-progress"
	KeyCognitiveStyleProgress = "cognitive-style-progress"
	KeyFeatureFlags           = "feature-flags"
	KeySchemaVersion          = "schema-version"
)

// Record is the wire form of a wrapped record.
type Record struct {
	SchemaVersion int             `json:"schema_version"`
	SavedAt       time.Time       `json:"saved_at"`
	Data          json.RawMessage `json:"data"`
}

// LoadResult is the outcome of unwrapping a stored payload.
type LoadResult struct {
	Data           json.RawMessage
	Found          bool
	NeedsMigration bool
	ActualVersion  int // 0 means legacy data with no wrapper
}

// Wrap serializes value inside a versioned Record.
func Wrap(value any, version int) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record data: %w", err)
	}
	payload, err := json.Marshal(Record{
		SchemaVersion: version,
		SavedAt:       time.Now().UTC(),
		Data:          data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return payload, nil
}

// Unwrap parses a stored payload. A payload carrying both schema_version and
// data fields is a wrapped record; anything else is treated as legacy data
// with ActualVersion 0 and the raw payload passed through unchanged.
func Unwrap(payload []byte, expectedVersion int) LoadResult {
	var probe struct {
		SchemaVersion *int             `json:"schema_version"`
		Data          *json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil || probe.SchemaVersion == nil || probe.Data == nil {
		return LoadResult{
			Data:           json.RawMessage(payload),
			Found:          true,
			NeedsMigration: true,
			ActualVersion:  0,
		}
	}

	return LoadResult{
		Data:           *probe.Data,
		Found:          true,
		NeedsMigration: *probe.SchemaVersion < expectedVersion,
		ActualVersion:  *probe.SchemaVersion,
	}
}

// Gateway saves and loads versioned records through a Backend.
type Gateway struct {
	backend Backend
}

// NewGateway creates a Gateway over the given backend.
func NewGateway(backend Backend) *Gateway {
	return &Gateway{backend: backend}
}

// Save wraps value with the given schema version and stores it under
// (userID, key). Storage failures surface as errors, never as silent drops.
func (g *Gateway) Save(ctx context.Context, userID uuid.UUID, key string, value any, version int) error {
	payload, err := Wrap(value, version)
	if err != nil {
		return err
	}
	if err := g.backend.Put(ctx, userID, key, payload); err != nil {
		return fmt.Errorf("failed to save record %s: %w", key, err)
	}
	return nil
}

// Load retrieves and unwraps the record under (userID, key). A missing
// record yields Found=false with no error; the gateway never migrates.
func (g *Gateway) Load(ctx context.Context, userID uuid.UUID, key string, expectedVersion int) (LoadResult, error) {
	payload, found, err := g.backend.Get(ctx, userID, key)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to load record %s: %w", key, err)
	}
	if !found {
		return LoadResult{}, nil
	}
	return Unwrap(payload, expectedVersion), nil
}
