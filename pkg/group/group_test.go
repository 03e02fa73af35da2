package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/pitwall/pkg/calendar"
	"github.com/pitwall/pitwall/pkg/classify"
	"github.com/pitwall/pitwall/pkg/model"
)

func newGrouper() *Grouper {
	return New(classify.New(classify.Config{}), Config{Year: 2025})
}

func vid(id, title string, publishedAt time.Time) *model.VideoItem {
	return &model.VideoItem{ID: id, Title: title, PublishedAt: publishedAt}
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestByName(t *testing.T) {
	g := newGrouper()

	videos := []*model.VideoItem{
		vid("a", "FP1 Highlights | 2025 Spanish Grand Prix", date("2025-05-30T12:00:00Z")),
		vid("b", "Race Highlights | 2025 Spanish Grand Prix", date("2025-06-01T16:00:00Z")),
		vid("c", "Race Highlights | 2025 Monaco Grand Prix", date("2025-05-25T16:00:00Z")),
		vid("d", "Team Celebration Video", date("2025-06-02T10:00:00Z")),
	}

	weekends := g.ByName(videos, nil)
	require.Len(t, weekends, 3)

	// Ordered by latest video date, newest first.
	assert.Equal(t, UnknownWeekend, weekends[0].Name)
	assert.Equal(t, "2025 Spanish Grand Prix", weekends[1].Name)
	assert.Equal(t, "2025 Monaco Grand Prix", weekends[2].Name)

	spanish := weekends[1]
	require.Len(t, spanish.Videos, 2)
	assert.Equal(t, "a", spanish.Videos[0].ID) // FP1 before race
	assert.Equal(t, "b", spanish.Videos[1].ID)
	assert.Equal(t, date("2025-06-01T16:00:00Z"), spanish.LatestDate)
}

func TestByNameSnapsToKnownNames(t *testing.T) {
	g := newGrouper()

	known := []string{"2025 Mexico City Grand Prix"}
	videos := []*model.VideoItem{
		vid("a", "Race Highlights | 2025 Mexico City Grand Prix", date("2025-10-26T16:00:00Z")),
		vid("b", "Mexico City GP 2025 | Qualifying Highlights", date("2025-10-25T16:00:00Z")),
	}

	weekends := g.ByName(videos, known)
	require.Len(t, weekends, 1)
	assert.Equal(t, "2025 Mexico City Grand Prix", weekends[0].Name)
	assert.Len(t, weekends[0].Videos, 2)
}

func TestByCalendar(t *testing.T) {
	g := newGrouper()

	cal := &calendar.Calendar{Weekends: []calendar.Entry{
		{Name: "2025 Bahrain Grand Prix", StartDate: date("2025-04-11T00:00:00Z")},
		{Name: "2025 Saudi Arabian Grand Prix", StartDate: date("2025-04-18T00:00:00Z")},
		{Name: "2025 Miami Grand Prix", StartDate: date("2025-05-02T00:00:00Z")},
	}}

	videos := []*model.VideoItem{
		vid("a", "FP1 Highlights | 2025 Bahrain Grand Prix", date("2025-04-11T14:00:00Z")),
		vid("b", "Race Highlights | 2025 Bahrain Grand Prix", date("2025-04-13T18:00:00Z")),
		vid("c", "Race Highlights | 2025 Saudi Arabian Grand Prix", date("2025-04-20T18:00:00Z")),
		// Published between weekends: belongs to no window.
		vid("d", "Season So Far Highlights", date("2025-04-25T12:00:00Z")),
	}

	weekends := g.ByCalendar(videos, cal)

	// Every calendar entry appears exactly once, in calendar order,
	// including the weekend with no matched videos.
	require.Len(t, weekends, 3)
	assert.Equal(t, "2025 Bahrain Grand Prix", weekends[0].Name)
	assert.Equal(t, "2025 Saudi Arabian Grand Prix", weekends[1].Name)
	assert.Equal(t, "2025 Miami Grand Prix", weekends[2].Name)

	assert.Len(t, weekends[0].Videos, 2)
	assert.Len(t, weekends[1].Videos, 1)
	assert.Empty(t, weekends[2].Videos)

	assert.Equal(t, date("2025-04-13T18:00:00Z"), weekends[0].LatestDate)
	assert.True(t, weekends[2].LatestDate.IsZero())
}

func TestByCalendarWindowBounds(t *testing.T) {
	g := newGrouper()

	cal := &calendar.Calendar{Weekends: []calendar.Entry{
		{Name: "2025 Bahrain Grand Prix", StartDate: date("2025-04-11T00:00:00Z")},
	}}

	tests := []struct {
		name        string
		publishedAt time.Time
		matched     bool
	}{
		{"day before start", date("2025-04-10T00:00:00Z"), true},
		{"just before window", date("2025-04-09T23:59:59Z"), false},
		{"three days after start", date("2025-04-14T00:00:00Z"), true},
		{"past the window", date("2025-04-14T00:00:01Z"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weekends := g.ByCalendar([]*model.VideoItem{vid("a", "Race Highlights", tt.publishedAt)}, cal)
			require.Len(t, weekends, 1)
			if tt.matched {
				assert.Len(t, weekends[0].Videos, 1)
			} else {
				assert.Empty(t, weekends[0].Videos)
			}
		})
	}
}
