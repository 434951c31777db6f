// Package theme derives the visual theme tokens from a ranked interest
// profile. Derivation is a pure function: identical input always yields
// byte-identical tokens.
package theme

import (
	"fmt"

	"github.com/jonathan/pathfinder/internal/archetype"
)

// Colors is the fixed palette portion of a theme.
type Colors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	TextOnPrimary string `json:"text_on_primary"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Border        string `json:"border"`
	TextPrimary   string `json:"text_primary"`
	TextSecondary string `json:"text_secondary"`
}

// Gradients holds the derived gradient tokens.
type Gradients struct {
	Primary string `json:"primary"`
}

// Shadows holds the three shadow tiers.
type Shadows struct {
	Sm string `json:"sm"`
	Md string `json:"md"`
	Lg string `json:"lg"`
}

// Theme is the full token set consumed by presentation layers. It is
// replaced wholesale on every score change and never partially mutated.
type Theme struct {
	Colors    Colors    `json:"colors"`
	Gradients Gradients `json:"gradients"`
	Shadows   Shadows   `json:"shadows"`
}

const (
	neutralPrimary   = "#FFFFFF"
	neutralSecondary = "#F3F4F6"

	background    = "#FAFAFA"
	surface       = "#FFFFFF"
	border        = "#E5E7EB"
	textPrimary   = "#1F2937"
	textSecondary = "#6B7280"
)

// categoryColors maps every interest category to its brand color. Coverage
// is checked at init so a lookup can never miss at runtime.
var categoryColors = map[archetype.Category]string{
	archetype.Realistic:     "#38A169",
	archetype.Investigative: "#3182CE",
	archetype.Artistic:      "#805AD5",
	archetype.Social:        "#F6AD55",
	archetype.Enterprising:  "#E53E3E",
	archetype.Conventional:  "#319795",
}

func init() {
	for _, c := range archetype.Categories {
		if _, ok := categoryColors[c]; !ok {
			panic(fmt.Sprintf("theme: no color defined for category %q", c))
		}
	}
}

// Derive builds the theme for a ranked score list. A nil or empty ranking
// yields the neutral default palette. Categories without a defined color
// (possible only for malformed input) fall back to the neutral primary.
func Derive(ranked []archetype.Score) Theme {
	primary := neutralPrimary
	secondary := neutralSecondary

	if len(ranked) > 0 {
		primary = colorFor(ranked[0].Category)
		secondary = primary
		if len(ranked) > 1 {
			secondary = colorFor(ranked[1].Category)
		}
	}

	return Theme{
		Colors: Colors{
			Primary:       primary,
			Secondary:     secondary,
			Accent:        secondary,
			TextOnPrimary: ContrastText(primary),
			Background:    background,
			Surface:       surface,
			Border:        border,
			TextPrimary:   textPrimary,
			TextSecondary: textSecondary,
		},
		Gradients: Gradients{
			Primary: fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", primary, secondary),
		},
		Shadows: deriveShadows(primary, secondary),
	}
}

// Neutral returns the default theme used before any profile exists.
func Neutral() Theme {
	return Derive(nil)
}

func colorFor(c archetype.Category) string {
	if hex, ok := categoryColors[c]; ok {
		return hex
	}
	return neutralPrimary
}

// ContrastText picks black or white text for the given background color
// using the ITU-R BT.601 luma weights on 0-255 channels. A luma of exactly
// 128 resolves to black.
func ContrastText(hex string) string {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return "#000000"
	}
	luma := (299*int(r) + 587*int(g) + 114*int(b)) / 1000
	if luma >= 128 {
		return "#000000"
	}
	return "#FFFFFF"
}

// deriveShadows composes the three shadow tiers from the primary and
// secondary RGB triples at fixed opacity and blur per tier.
func deriveShadows(primary, secondary string) Shadows {
	pr, pg, pb, err := parseHex(primary)
	if err != nil {
		pr, pg, pb = 0, 0, 0
	}
	sr, sg, sb, err := parseHex(secondary)
	if err != nil {
		sr, sg, sb = 0, 0, 0
	}

	return Shadows{
		Sm: fmt.Sprintf("0 1px 2px rgba(%d, %d, %d, 0.12)", pr, pg, pb),
		Md: fmt.Sprintf("0 4px 10px rgba(%d, %d, %d, 0.16)", pr, pg, pb),
		Lg: fmt.Sprintf("0 10px 24px rgba(%d, %d, %d, 0.20), 0 2px 6px rgba(%d, %d, %d, 0.12)",
			pr, pg, pb, sr, sg, sb),
	}
}

func parseHex(hex string) (r, g, b uint8, err error) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %q", hex)
	}
	var ri, gi, bi int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return uint8(ri), uint8(gi), uint8(bi), nil
}
