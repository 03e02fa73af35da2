// Package calendar loads the season calendar consumed by the
// calendar-window grouping strategy.
package calendar

import (
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Entry is one Grand Prix weekend on the season calendar. StartDate is
// the first on-track day; the grouper derives the matching window from it.
type Entry struct {
	Name      string    `toml:"name"`
	StartDate time.Time `toml:"start_date"`
	Sessions  []string  `toml:"sessions"`
}

// Calendar is an ordered list of weekends for one season. Order in the
// file is calendar order and is preserved all the way to the artifact.
type Calendar struct {
	Weekends []Entry `toml:"weekend"`
}

// Names returns the canonical weekend names in calendar order.
func (c *Calendar) Names() []string {
	names := make([]string, len(c.Weekends))
	for i, w := range c.Weekends {
		names[i] = w.Name
	}
	return names
}

// Load reads a TOML calendar file.
func Load(path string) (*Calendar, error) {
	cal := Calendar{}
	if _, err := toml.DecodeFile(path, &cal); err != nil {
		return nil, errors.Wrapf(err, "failed to load calendar file: %s", path)
	}

	if err := cal.validate(); err != nil {
		return nil, err
	}

	return &cal, nil
}

func (c *Calendar) validate() error {
	var result *multierror.Error

	if len(c.Weekends) == 0 {
		result = multierror.Append(result, errors.New("calendar must contain at least one weekend"))
	}

	seen := make(map[string]struct{}, len(c.Weekends))
	for _, w := range c.Weekends {
		if w.Name == "" {
			result = multierror.Append(result, errors.New("weekend name is required"))
			continue
		}

		// The name is the merge key across runs and must carry the season year.
		if !yearRe.MatchString(w.Name) {
			result = multierror.Append(result, errors.Errorf("weekend name %q must embed the season year", w.Name))
		}

		if w.StartDate.IsZero() {
			result = multierror.Append(result, errors.Errorf("start_date is required for %q", w.Name))
		}

		if _, ok := seen[w.Name]; ok {
			result = multierror.Append(result, errors.Errorf("duplicate weekend name %q", w.Name))
		}
		seen[w.Name] = struct{}{}
	}

	return result.ErrorOrNil()
}
