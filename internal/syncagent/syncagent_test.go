package syncagent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pathfinder/internal/store"
)

func TestInitStampsMissingMarker(t *testing.T) {
	gateway := store.NewGateway(store.NewMemory())
	agent := New(gateway)
	userID := uuid.New()

	out, err := agent.Init(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, out.Stamped)
	assert.Equal(t, 0, out.Previous)

	result, err := gateway.Load(context.Background(), userID, store.KeySchemaVersion, store.SchemaVersion)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.False(t, result.NeedsMigration)

	var marker int
	require.NoError(t, json.Unmarshal(result.Data, &marker))
	assert.Equal(t, store.SchemaVersion, marker)
}

func TestInitLeavesCurrentMarkerAlone(t *testing.T) {
	gateway := store.NewGateway(store.NewMemory())
	agent := New(gateway)
	userID := uuid.New()

	_, err := agent.Init(context.Background(), userID)
	require.NoError(t, err)

	out, err := agent.Init(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, out.Stamped)
	assert.Equal(t, store.SchemaVersion, out.Previous)
}

func TestInitRestampsStaleMarker(t *testing.T) {
	gateway := store.NewGateway(store.NewMemory())
	agent := New(gateway)
	userID := uuid.New()

	require.NoError(t, gateway.Save(context.Background(), userID, store.KeySchemaVersion, 1, 1))

	out, err := agent.Init(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, out.Stamped)
	assert.Equal(t, 1, out.Previous)
}

func TestInitRestampsLegacyMarker(t *testing.T) {
	backend := store.NewMemory()
	gateway := store.NewGateway(backend)
	agent := New(gateway)
	userID := uuid.New()

	require.NoError(t, backend.Put(context.Background(), userID, store.KeySchemaVersion, []byte(`"1"`)))

	out, err := agent.Init(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, out.Stamped)
	assert.Equal(t, 0, out.Previous)
}
