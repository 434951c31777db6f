package discover

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/pathfinder/internal/route"
	"github.com/jonathan/pathfinder/internal/store"
)

// FeatureFlags gates the top-level tabs and carries the user's default tab.
// Peer features read these; only this package writes them.
type FeatureFlags struct {
	ShowDiscover bool      `json:"show_discover"`
	ShowPrepare  bool      `json:"show_prepare"`
	ShowProspect bool      `json:"show_prospect"`
	ShowProsper  bool      `json:"show_prosper"`
	ShowMatches  bool      `json:"show_matches"`
	DefaultTab   route.Tab `json:"default_tab"`
}

// DefaultFeatureFlags returns the flags used when none are persisted.
func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		ShowDiscover: true,
		ShowPrepare:  true,
		ShowProspect: true,
		ShowProsper:  true,
		ShowMatches:  true,
		DefaultTab:   route.Discover,
	}
}

// loadFlags restores the persisted flags, falling back to defaults on
// missing, legacy, or corrupt records.
func loadFlags(ctx context.Context, gateway *store.Gateway, userID uuid.UUID) FeatureFlags {
	result, err := gateway.Load(ctx, userID, store.KeyFeatureFlags, store.SchemaVersion)
	if err != nil {
		log.Printf("[discover] feature flag load failed, using defaults: %v", err)
		return DefaultFeatureFlags()
	}
	if !result.Found || result.NeedsMigration {
		return DefaultFeatureFlags()
	}

	flags := DefaultFeatureFlags()
	if err := json.Unmarshal(result.Data, &flags); err != nil {
		log.Printf("[discover] corrupt feature flag record, using defaults: %v", err)
		return DefaultFeatureFlags()
	}
	if _, ok := route.ParseTab(string(flags.DefaultTab)); !ok && flags.DefaultTab != route.Matches {
		flags.DefaultTab = route.Discover
	}
	return flags
}
