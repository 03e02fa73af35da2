package group

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extraction patterns, in priority order. The specific year-carrying
// forms are tried before the abbreviated ones so "2025 Spanish Grand
// Prix" never falls through to the loose GP match.
var extractPatterns = []struct {
	re      *regexp.Regexp
	yearIdx int
	locIdx  int
}{
	// "2025 Spanish Grand Prix"
	{regexp.MustCompile(`(?i)\b(20\d{2})\s+(.+?)\s+grand\s+prix`), 1, 2},
	// "Spanish Grand Prix 2025"
	{regexp.MustCompile(`(?i)\b(.+?)\s+grand\s+prix\b.*?\b(20\d{2})\b`), 2, 1},
	// "2025 Spanish GP"
	{regexp.MustCompile(`(?i)\b(20\d{2})\s+(.+?)\s+gp\b`), 1, 2},
	// "Spanish GP 2025"
	{regexp.MustCompile(`(?i)\b(.+?)\s+gp\b.*?\b(20\d{2})\b`), 2, 1},
}

// Loose fallback: any text followed by Grand Prix/GP, year defaulted to
// the grouper's configured season.
var looseGPRe = regexp.MustCompile(`(?i)\b([a-z'’. -]+?)\s+(?:grand\s+prix|gp)\b`)

// Words that routinely precede a Grand Prix location in a title but are
// never part of the location itself.
var locationNoise = map[string]struct{}{
	"race": {}, "qualifying": {}, "quali": {}, "sprint": {}, "shootout": {},
	"practice": {}, "fp1": {}, "fp2": {}, "fp3": {}, "session": {},
	"highlights": {}, "recap": {}, "extended": {}, "full": {}, "the": {},
	"at": {}, "from": {}, "of": {}, "in": {}, "live": {}, "formula": {},
	"f1": {}, "1": {},
}

// ExtractName derives the canonical weekend name ("{year} {location}
// Grand Prix") from a video title. Titles with no recognizable Grand
// Prix pattern map to UnknownWeekend, never to an error.
func (g *Grouper) ExtractName(title string) string {
	for _, p := range extractPatterns {
		m := p.re.FindStringSubmatch(title)
		if m == nil {
			continue
		}

		year, err := strconv.Atoi(m[p.yearIdx])
		if err != nil {
			continue
		}

		if loc := cleanLocation(m[p.locIdx]); loc != "" {
			return fmt.Sprintf("%d %s Grand Prix", year, loc)
		}
	}

	if g.year > 0 {
		if m := looseGPRe.FindStringSubmatch(title); m != nil {
			if loc := cleanLocation(m[1]); loc != "" {
				return fmt.Sprintf("%d %s Grand Prix", g.year, loc)
			}
		}
	}

	return UnknownWeekend
}

// cleanLocation strips separators and session words from a raw capture,
// keeping only the trailing location words, title-cased.
func cleanLocation(raw string) string {
	// Titles embed the GP name in the last separated segment
	// ("FP1 Highlights | 2025 Spanish Grand Prix").
	for _, sep := range []string{"|", "–", "—", ":", " - "} {
		if idx := strings.LastIndex(raw, sep); idx >= 0 {
			raw = raw[idx+len(sep):]
		}
	}

	var kept []string
	for _, word := range strings.Fields(raw) {
		normalized := strings.ToLower(strings.Trim(word, ".,!?"))
		if _, noise := locationNoise[normalized]; noise {
			// Noise words reset the candidate: the location is the
			// contiguous run of words directly before "Grand Prix".
			kept = kept[:0]
			continue
		}
		kept = append(kept, titleWord(normalized))
	}

	return strings.Join(kept, " ")
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

// ResolveCanonical snaps a fuzzy candidate name to the closest entry in
// the known weekend-name list, testing case/whitespace-normalized
// substring containment both directions. Candidates matching nothing
// are returned unchanged.
func ResolveCanonical(candidate string, known []string) string {
	norm := normalizeName(candidate)
	if norm == "" {
		return candidate
	}

	for _, name := range known {
		kn := normalizeName(name)
		if kn == norm || strings.Contains(kn, norm) || strings.Contains(norm, kn) {
			return name
		}
	}

	return candidate
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
