package archetype

import (
	"sort"
	"strings"
)

type hybridEntry struct {
	Title       string
	Description string
}

// hybridKey builds the lookup key for a category pair: the two keys sorted
// alphabetically and joined with "+".
func hybridKey(a, b Category) string {
	keys := []string{string(a), string(b)}
	sort.Strings(keys)
	return strings.Join(keys, "+")
}

// hybrids covers all fifteen unordered category pairs. Lookups that still
// miss (malformed keys) fall back to a single-category archetype.
var hybrids = map[string]hybridEntry{
	"artistic+conventional":      {"The Structured Creative", "You bring imagination to orderly systems, turning loose ideas into polished, repeatable work."},
	"artistic+enterprising":      {"The Creative Promoter", "You generate original ideas and have the drive to sell them, thriving where vision meets persuasion."},
	"artistic+investigative":     {"The Imaginative Analyst", "You combine curiosity with creativity, exploring problems from angles others miss."},
	"artistic+realistic":         {"The Hands-On Creator", "You like making tangible things, blending craft skills with an artistic eye."},
	"artistic+social":            {"The Expressive Mentor", "You connect with people through creative expression, teaching and inspiring in equal measure."},
	"conventional+enterprising":  {"The Operations Strategist", "You keep ambitious plans on the rails, pairing business drive with disciplined execution."},
	"conventional+investigative": {"The Methodical Researcher", "You dig into questions systematically, documenting and organizing what you learn."},
	"conventional+realistic":     {"The Reliable Builder", "You deliver practical work with precision, valuing process as much as product."},
	"conventional+social":        {"The Community Organizer", "You bring structure to groups, coordinating people and details so things actually happen."},
	"enterprising+investigative": {"The Visionary Strategist", "You spot opportunities through analysis, backing bold moves with evidence."},
	"enterprising+realistic":     {"The Pragmatic Leader", "You lead from the front with practical know-how, preferring results over rhetoric."},
	"enterprising+social":        {"The People Champion", "You motivate and advocate, equally at home rallying a team or winning over a room."},
	"investigative+realistic":    {"The Practical Scientist", "You test ideas against the real world, happiest when theory becomes a working thing."},
	"investigative+social":       {"The Insightful Guide", "You understand both problems and people, using that insight to help others grow."},
	"realistic+social":           {"The Grounded Helper", "You support others in concrete ways, showing care through action rather than words."},
}

// fallbacks names the single-category archetypes used when a pair lookup
// misses.
var fallbacks = map[Category]hybridEntry{
	Realistic:     {"The Builder", "You prefer practical, hands-on work with tools, machines, and tangible results."},
	Investigative: {"The Thinker", "You are driven by questions, analysis, and the satisfaction of figuring things out."},
	Artistic:      {"The Creator", "You express yourself through original work and chafe at rigid structure."},
	Social:        {"The Helper", "You are energized by teaching, supporting, and working closely with people."},
	Enterprising:  {"The Persuader", "You like to lead, influence, and take calculated risks to reach a goal."},
	Conventional:  {"The Organizer", "You excel at order, accuracy, and keeping complex systems running smoothly."},
}
