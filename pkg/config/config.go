// Package config loads the TOML configuration driving the fetch runs.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/pitwall/pitwall/pkg/classify"
)

// EnvYouTubeKey overrides the configured API key so CI doesn't have to
// keep credentials in the config file.
const EnvYouTubeKey = "PITWALL_YOUTUBE_KEY"

type YouTube struct {
	// Key is the YouTube Data API key.
	// See https://developers.google.com/youtube/registering_an_application
	Key string `toml:"key"`
	// Playlist is the uploads playlist to pull videos from.
	Playlist string `toml:"playlist"`
	// PageSize is the number of items per playlist page (upstream cap: 50).
	PageSize int `toml:"page_size"`
	// MaxPages bounds pagination per run.
	// NOTE: each page costs quota; raising this drains the daily budget faster.
	MaxPages int `toml:"max_pages"`
}

type Grouping struct {
	// Year is the season used when a title names a Grand Prix but no year.
	Year int `toml:"year"`
	// Calendar is an optional season calendar file. When set, grouping
	// uses calendar windows instead of title name extraction.
	Calendar string `toml:"calendar"`
	// WindowDaysBefore/After define the calendar matching window around
	// each weekend's start date.
	WindowDaysBefore int `toml:"window_days_before"`
	WindowDaysAfter  int `toml:"window_days_after"`
}

// Window returns the calendar matching window as durations.
func (g Grouping) Window() (before, after time.Duration) {
	return time.Duration(g.WindowDaysBefore) * 24 * time.Hour,
		time.Duration(g.WindowDaysAfter) * 24 * time.Hour
}

type Feed struct {
	// Path of the current-feed artifact.
	Path string `toml:"path"`
	// KeepLast is how many of the most recent weekends the feed shows.
	KeepLast int `toml:"keep_last"`
}

type Archive struct {
	// Path of the season archive artifact.
	Path string `toml:"path"`
	// Overrides is an optional manual override archive file.
	Overrides string `toml:"overrides"`
}

type Standings struct {
	// Path of the standings artifact.
	Path string `toml:"path"`
	// URL is the Ergast-compatible API base.
	URL string `toml:"url"`
	// Season to query; defaults to the grouping year.
	Season int `toml:"season"`
}

type Config struct {
	YouTube   YouTube         `toml:"youtube"`
	Filter    classify.Config `toml:"filter"`
	Grouping  Grouping        `toml:"grouping"`
	Feed      Feed            `toml:"feed"`
	Archive   Archive         `toml:"archive"`
	Standings Standings       `toml:"standings"`
}

// LoadConfig loads TOML configuration from a file path.
func LoadConfig(path string) (*Config, error) {
	config := Config{}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to load config file: %s", path)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if key := os.Getenv(EnvYouTubeKey); key != "" {
		c.YouTube.Key = key
	}

	if c.YouTube.PageSize == 0 {
		c.YouTube.PageSize = 50
	}

	if c.YouTube.MaxPages == 0 {
		c.YouTube.MaxPages = 4
	}

	if c.Grouping.Year == 0 {
		c.Grouping.Year = time.Now().UTC().Year()
	}

	if c.Grouping.WindowDaysBefore == 0 {
		c.Grouping.WindowDaysBefore = 1
	}

	if c.Grouping.WindowDaysAfter == 0 {
		c.Grouping.WindowDaysAfter = 3
	}

	if c.Feed.Path == "" {
		c.Feed.Path = "data/videos.json"
	}

	if c.Feed.KeepLast == 0 {
		c.Feed.KeepLast = 3
	}

	if c.Archive.Path == "" {
		c.Archive.Path = "data/archive.json"
	}

	if c.Standings.Path == "" {
		c.Standings.Path = "data/standings.json"
	}

	if c.Standings.Season == 0 {
		c.Standings.Season = c.Grouping.Year
	}
}

func (c *Config) validate() error {
	var result *multierror.Error

	if c.YouTube.Key == "" {
		result = multierror.Append(result, errors.Errorf("youtube API key is required (config or %s)", EnvYouTubeKey))
	}

	if c.YouTube.Playlist == "" {
		result = multierror.Append(result, errors.New("youtube playlist is required"))
	}

	if c.YouTube.PageSize < 0 || c.YouTube.PageSize > 50 {
		result = multierror.Append(result, errors.Errorf("page_size must be between 1 and 50, got %d", c.YouTube.PageSize))
	}

	if c.Feed.KeepLast < 1 {
		result = multierror.Append(result, errors.Errorf("keep_last must be positive, got %d", c.Feed.KeepLast))
	}

	return result.ErrorOrNil()
}
