// Package group assigns recap videos to Grand Prix weekends, orders
// them by session, and merges fetch results with persisted archives.
package group

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pitwall/pitwall/pkg/calendar"
	"github.com/pitwall/pitwall/pkg/classify"
	"github.com/pitwall/pitwall/pkg/model"
)

const (
	// DefaultWindowBefore is how far before a weekend's first on-track
	// day a video may be published and still belong to that weekend.
	DefaultWindowBefore = 24 * time.Hour
	// DefaultWindowAfter covers recaps published after the race.
	DefaultWindowAfter = 72 * time.Hour
)

// UnknownWeekend is the bucket for videos whose title yields no Grand
// Prix name. They stay visible for manual triage instead of vanishing.
const UnknownWeekend = "Unknown Grand Prix"

// Config tunes a Grouper.
type Config struct {
	// Year is the season used when a title names a Grand Prix but no year.
	Year int
	// WindowBefore/WindowAfter define the calendar matching window
	// around each weekend's start date.
	WindowBefore time.Duration
	WindowAfter  time.Duration
}

// Grouper implements both grouping strategies. The calendar-window
// strategy is used whenever a season calendar is available; the
// name-extraction strategy is the fallback when there is none.
type Grouper struct {
	classifier *classify.Classifier
	year       int
	before     time.Duration
	after      time.Duration
}

func New(classifier *classify.Classifier, cfg Config) *Grouper {
	if cfg.WindowBefore == 0 {
		cfg.WindowBefore = DefaultWindowBefore
	}
	if cfg.WindowAfter == 0 {
		cfg.WindowAfter = DefaultWindowAfter
	}

	return &Grouper{
		classifier: classifier,
		year:       cfg.Year,
		before:     cfg.WindowBefore,
		after:      cfg.WindowAfter,
	}
}

// ByName groups videos by the Grand Prix name extracted from their
// titles. Candidates are snapped to the closest entry of known (the
// calendar names) when one matches; unresolvable titles end up in the
// UnknownWeekend bucket. The result is ordered by latest video date,
// newest weekend first.
func (g *Grouper) ByName(videos []*model.VideoItem, known []string) []*model.Weekend {
	var (
		buckets = make(map[string]*model.Weekend)
		order   []string
	)

	for _, v := range videos {
		name := g.ExtractName(v.Title)
		if name != UnknownWeekend && len(known) > 0 {
			name = ResolveCanonical(name, known)
		}

		w, ok := buckets[name]
		if !ok {
			w = &model.Weekend{Name: name}
			buckets[name] = w
			order = append(order, name)
		}

		w.Videos = append(w.Videos, v)
	}

	weekends := make([]*model.Weekend, 0, len(order))
	for _, name := range order {
		w := buckets[name]
		g.SortVideos(w)
		w.Touch()
		weekends = append(weekends, w)
	}

	sortByLatestDesc(weekends)
	return weekends
}

// ByCalendar groups videos into one bucket per calendar entry, matching
// each video to the single weekend whose window contains its publish
// time. Every calendar weekend appears in the output, in calendar
// order, even with zero videos, so gaps in coverage stay visible.
// Videos outside every window are dropped from grouping (logged, not
// fatal).
func (g *Grouper) ByCalendar(videos []*model.VideoItem, cal *calendar.Calendar) []*model.Weekend {
	weekends := make([]*model.Weekend, len(cal.Weekends))
	for i, entry := range cal.Weekends {
		weekends[i] = &model.Weekend{Name: entry.Name}
	}

	for _, v := range videos {
		idx := g.matchWindow(v.PublishedAt, cal)
		if idx < 0 {
			log.WithFields(log.Fields{
				"video_id":     v.ID,
				"published_at": v.PublishedAt,
			}).Debugf("no calendar window for %q, dropping from grouping", v.Title)
			continue
		}

		weekends[idx].Videos = append(weekends[idx].Videos, v)
	}

	for _, w := range weekends {
		g.SortVideos(w)
		w.Touch()
	}

	return weekends
}

func (g *Grouper) matchWindow(publishedAt time.Time, cal *calendar.Calendar) int {
	for i, entry := range cal.Weekends {
		var (
			start = entry.StartDate.Add(-g.before)
			end   = entry.StartDate.Add(g.after)
		)

		if !publishedAt.Before(start) && !publishedAt.After(end) {
			return i
		}
	}

	return -1
}
