package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Answers string `json:"answers"`
	Index   int    `json:"index"`
}

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	value := sample{Answers: "12?45", Index: 2}

	payload, err := Wrap(value, 3)
	require.NoError(t, err)

	result := Unwrap(payload, 3)
	assert.True(t, result.Found)
	assert.False(t, result.NeedsMigration)
	assert.Equal(t, 3, result.ActualVersion)

	var got sample
	require.NoError(t, json.Unmarshal(result.Data, &got))
	assert.Equal(t, value, got)
}

func TestUnwrap_OlderVersionNeedsMigration(t *testing.T) {
	payload, err := Wrap(sample{Answers: "111"}, 1)
	require.NoError(t, err)

	result := Unwrap(payload, SchemaVersion)
	assert.True(t, result.NeedsMigration)
	assert.Equal(t, 1, result.ActualVersion)
}

func TestUnwrap_NewerVersionDoesNotNeedMigration(t *testing.T) {
	payload, err := Wrap(sample{}, 5)
	require.NoError(t, err)

	result := Unwrap(payload, 2)
	assert.False(t, result.NeedsMigration)
	assert.Equal(t, 5, result.ActualVersion)
}

func TestUnwrap_LegacyPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"bare string", `"123456"`},
		{"bare object", `{"answers":"12345","index":4}`},
		{"object with only schema_version", `{"schema_version":2}`},
		{"object with only data", `{"data":{"answers":"1"}}`},
		{"array", `[1,2,3]`},
		{"not json", `not-json-at-all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Unwrap([]byte(tt.payload), SchemaVersion)
			assert.True(t, result.Found)
			assert.True(t, result.NeedsMigration)
			assert.Equal(t, 0, result.ActualVersion)
			assert.Equal(t, json.RawMessage(tt.payload), result.Data)
		})
	}
}

func TestGateway_SaveLoad(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemory())
	userID := uuid.New()

	value := sample{Answers: "54321", Index: 5}
	require.NoError(t, g.Save(ctx, userID, KeyInterestsAnswers, value, SchemaVersion))

	result, err := g.Load(ctx, userID, KeyInterestsAnswers, SchemaVersion)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.NeedsMigration)
	assert.Equal(t, SchemaVersion, result.ActualVersion)

	var got sample
	require.NoError(t, json.Unmarshal(result.Data, &got))
	assert.Equal(t, value, got)
}

func TestGateway_LoadMissingKey(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemory())

	result, err := g.Load(ctx, uuid.New(), KeyPersonalityProgress, SchemaVersion)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestGateway_KeysAreIndependentPerUser(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemory())
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, g.Save(ctx, alice, KeyFeatureFlags, map[string]bool{"show_discover": true}, SchemaVersion))

	result, err := g.Load(ctx, bob, KeyFeatureFlags, SchemaVersion)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestWrap_UnserializableValue(t *testing.T) {
	_, err := Wrap(func() {}, SchemaVersion)
	require.Error(t, err)
}
