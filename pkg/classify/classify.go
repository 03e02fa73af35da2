// Package classify maps free-text video titles to session types and
// decides whether a video belongs in the recap feeds at all.
package classify

import (
	"strings"

	"github.com/pitwall/pitwall/pkg/model"
)

// Config holds the keyword lists the classifier matches against.
// The lists are an allow/deny surface that needs occasional tuning as
// the upstream channel changes its title phrasing, so they are plain
// configuration data rather than hardcoded tables.
type Config struct {
	// Include must match (title or description) for a video to be kept.
	Include []string `toml:"include"`
	// Exclude rejects a video outright on a title match.
	Exclude []string `toml:"exclude"`
	// Context tokens tie a video to the sport ("grand prix", "f1", ...).
	Context []string `toml:"context"`
}

// DefaultConfig returns the production keyword lists.
func DefaultConfig() Config {
	return Config{
		Include: []string{
			"highlights",
			"recap",
			"session",
			"full race",
		},
		Exclude: []string{
			"f2",
			"formula 2",
			"f3",
			"formula 3",
			"f1 academy",
			"porsche supercup",
			"indycar",
			"nascar",
			"motogp",
			"wec",
			"reaction",
			"interview",
			"press conference",
			"paddock pass",
			"podcast",
			"top 10",
			"top 5",
			"funniest",
			"best of",
			"watchalong",
		},
		Context: []string{
			"grand prix",
			"gp",
			"formula 1",
			"f1",
		},
	}
}

// Classifier derives session types from titles and applies the
// include/exclude recap filter. Safe for concurrent use.
type Classifier struct {
	cfg Config
}

// New returns a classifier for the given keyword config. A zero-value
// config gets the production defaults.
func New(cfg Config) *Classifier {
	if len(cfg.Include) == 0 && len(cfg.Exclude) == 0 && len(cfg.Context) == 0 {
		cfg = DefaultConfig()
	}
	return &Classifier{cfg: cfg}
}

// Classify maps a title to a session type. Matching is case-insensitive
// substring, first match wins, so the more specific patterns are tested
// before the general ones (sprint qualifying before sprint, etc).
// A title matching nothing is SessionOther.
func (c *Classifier) Classify(title string) model.SessionType {
	t := strings.ToLower(title)

	switch {
	case containsAny(t, "fp1", "practice 1", "free practice 1"):
		return model.SessionFP1
	case containsAny(t, "fp2", "practice 2", "free practice 2"):
		return model.SessionFP2
	case containsAny(t, "fp3", "practice 3", "free practice 3"):
		return model.SessionFP3
	case strings.Contains(t, "sprint") && (containsAny(t, "qualifying", "quali") || strings.Contains(t, "shootout")):
		return model.SessionSprintQualifying
	case strings.Contains(t, "sprint"):
		return model.SessionSprint
	case strings.Contains(t, "race") && containsAny(t, "qualifying", "quali"):
		return model.SessionRaceQualifying
	case containsAny(t, "qualifying", "quali"):
		return model.SessionQualifying
	case containsAny(t, "race", "grand prix") && !strings.Contains(t, "practice"):
		return model.SessionRace
	default:
		return model.SessionOther
	}
}

// IsRecap reports whether the video is an in-scope session recap.
// The exclude phase checks the title only: descriptions routinely
// name-drop support series and would reject legitimate recaps.
// The include phase requires a recognizable session type, at least one
// include keyword and at least one context token in title or description.
func (c *Classifier) IsRecap(v *model.VideoItem) bool {
	title := strings.ToLower(v.Title)

	for _, kw := range c.cfg.Exclude {
		if strings.Contains(title, kw) {
			return false
		}
	}

	if c.Classify(v.Title) == model.SessionOther {
		return false
	}

	text := title + " " + strings.ToLower(v.Description)

	if !containsAny(text, c.cfg.Include...) {
		return false
	}

	return containsAny(text, c.cfg.Context...)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
