package model

import (
	"time"
)

// SessionType is the category of on-track activity a video depicts.
// It is always derived from the video title and never persisted,
// so a title change on the upstream side can't leave a stale tag behind.
type SessionType string

const (
	SessionFP1              = SessionType("fp1")
	SessionFP2              = SessionType("fp2")
	SessionFP3              = SessionType("fp3")
	SessionQualifying       = SessionType("qualifying")
	SessionSprint           = SessionType("sprint")
	SessionSprintQualifying = SessionType("sprint-qualifying")
	SessionRace             = SessionType("race")
	SessionRaceQualifying   = SessionType("race-qualifying")
	SessionOther            = SessionType("other")
)

// VideoItem is one published video. Items are immutable once fetched:
// the pipeline filters and groups them but never rewrites their fields.
type VideoItem struct {
	// ID is the upstream video identifier, the dedup key
	ID          string    `json:"videoId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    int64     `json:"duration,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// Weekend is a single Grand Prix event and its session videos.
// Name embeds the four digit season year (e.g. "2025 Spanish Grand Prix")
// and is the merge key across fetch runs.
type Weekend struct {
	Name       string       `json:"name"`
	LatestDate time.Time    `json:"latestDate"`
	Videos     []*VideoItem `json:"videos"`
}

// Touch recomputes LatestDate from the current video set. Call it after
// every mutation of Videos; the field is a derived view, not state.
func (w *Weekend) Touch() {
	w.LatestDate = time.Time{}
	for _, v := range w.Videos {
		if v.PublishedAt.After(w.LatestDate) {
			w.LatestDate = v.PublishedAt
		}
	}
}

// Archive is the persisted JSON root for both the current feed and the
// full season archive. TotalVideos is always recomputed by Finalize,
// never trusted from a previous run.
type Archive struct {
	LastUpdated       time.Time  `json:"lastUpdated"`
	TotalVideos       int        `json:"totalVideos"`
	GrandPrixWeekends []*Weekend `json:"grandPrixWeekends"`
	Year              int        `json:"year,omitempty"`
}

// Finalize stamps the artifact and recomputes the derived totals.
func (a *Archive) Finalize(now time.Time) {
	a.LastUpdated = now.UTC()
	a.TotalVideos = 0
	for _, w := range a.GrandPrixWeekends {
		a.TotalVideos += len(w.Videos)
	}
}

// StandingRow is one ranked driver or constructor entry.
type StandingRow struct {
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	Team        string  `json:"team,omitempty"`
	Nationality string  `json:"nationality,omitempty"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
}

// Standings is the persisted standings artifact. Round is nil before
// the season has started.
type Standings struct {
	Season        int           `json:"season"`
	Round         *int          `json:"round"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	SeasonStarted bool          `json:"seasonStarted"`
	Source        string        `json:"source"`
	Drivers       []StandingRow `json:"drivers"`
	Constructors  []StandingRow `json:"constructors"`
}
