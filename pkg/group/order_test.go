package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pitwall/pitwall/pkg/model"
)

func titlesOf(w *model.Weekend) []string {
	titles := make([]string, len(w.Videos))
	for i, v := range w.Videos {
		titles[i] = v.Title
	}
	return titles
}

func TestSortVideosConventionalWeekend(t *testing.T) {
	g := newGrouper()

	base := date("2025-06-01T00:00:00Z")
	w := &model.Weekend{Name: "2025 Spanish Grand Prix", Videos: []*model.VideoItem{
		vid("r", "Race Highlights | 2025 Spanish Grand Prix", base.Add(72*time.Hour)),
		vid("q", "Qualifying Highlights | 2025 Spanish Grand Prix", base.Add(48*time.Hour)),
		vid("p1", "FP1 Highlights | 2025 Spanish Grand Prix", base),
		vid("p3", "FP3 Highlights | 2025 Spanish Grand Prix", base.Add(36*time.Hour)),
		vid("p2", "FP2 Highlights | 2025 Spanish Grand Prix", base.Add(12*time.Hour)),
	}}

	g.SortVideos(w)

	assert.Equal(t, []string{
		"FP1 Highlights | 2025 Spanish Grand Prix",
		"FP2 Highlights | 2025 Spanish Grand Prix",
		"FP3 Highlights | 2025 Spanish Grand Prix",
		"Qualifying Highlights | 2025 Spanish Grand Prix",
		"Race Highlights | 2025 Spanish Grand Prix",
	}, titlesOf(w))
}

func TestSortVideosSprintWeekend(t *testing.T) {
	g := newGrouper()

	base := date("2025-05-02T00:00:00Z")
	w := &model.Weekend{Name: "2025 Miami Grand Prix", Videos: []*model.VideoItem{
		vid("r", "Race Highlights | 2025 Miami Grand Prix", base.Add(72*time.Hour)),
		vid("p2", "FP2 Highlights | 2025 Miami Grand Prix", base.Add(40*time.Hour)),
		vid("sq", "Sprint Qualifying Highlights | 2025 Miami Grand Prix", base.Add(30*time.Hour)),
		vid("s", "Sprint Highlights | 2025 Miami Grand Prix", base.Add(24*time.Hour)),
		vid("p1", "FP1 Highlights | 2025 Miami Grand Prix", base),
	}}

	g.SortVideos(w)

	// A weekend containing a sprint re-ranks FP2 and race qualifying
	// after the sprint sessions.
	assert.Equal(t, []string{
		"FP1 Highlights | 2025 Miami Grand Prix",
		"Sprint Highlights | 2025 Miami Grand Prix",
		"Sprint Qualifying Highlights | 2025 Miami Grand Prix",
		"FP2 Highlights | 2025 Miami Grand Prix",
		"Race Highlights | 2025 Miami Grand Prix",
	}, titlesOf(w))
}

func TestSortVideosTieBreak(t *testing.T) {
	g := newGrouper()

	w := &model.Weekend{Name: "2025 Spanish Grand Prix", Videos: []*model.VideoItem{
		vid("late", "Qualifying Highlights Part 2", date("2025-05-31T18:00:00Z")),
		vid("early", "Qualifying Highlights Part 1", date("2025-05-31T16:00:00Z")),
	}}

	g.SortVideos(w)

	// Same session type: ascending publish time.
	assert.Equal(t, "early", w.Videos[0].ID)
	assert.Equal(t, "late", w.Videos[1].ID)
}
