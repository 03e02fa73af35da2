package group

import (
	"sort"

	"github.com/pitwall/pitwall/pkg/model"
)

// Session running order for a conventional weekend.
var baseOrder = map[model.SessionType]int{
	model.SessionFP1:              0,
	model.SessionFP2:              1,
	model.SessionFP3:              2,
	model.SessionQualifying:       3,
	model.SessionRaceQualifying:   4,
	model.SessionSprintQualifying: 5,
	model.SessionSprint:           6,
	model.SessionRace:             7,
	model.SessionOther:            8,
}

// Sprint weekends run FP1 first, then the sprint sessions; FP2 and race
// qualifying move after them to match the physical running order.
var sprintOrder = map[model.SessionType]int{
	model.SessionFP1:              0,
	model.SessionFP3:              1,
	model.SessionQualifying:       2,
	model.SessionSprint:           3,
	model.SessionSprintQualifying: 4,
	model.SessionFP2:              5,
	model.SessionRaceQualifying:   6,
	model.SessionRace:             7,
	model.SessionOther:            8,
}

// SortVideos orders a weekend's videos by session sequence. The session
// type is re-derived from each title on every pass. Videos of the same
// session type sort by ascending publish time.
func (g *Grouper) SortVideos(w *model.Weekend) {
	table := baseOrder
	for _, v := range w.Videos {
		if g.classifier.Classify(v.Title) == model.SessionSprint {
			table = sprintOrder
			break
		}
	}

	sort.SliceStable(w.Videos, func(i, j int) bool {
		var (
			oi = table[g.classifier.Classify(w.Videos[i].Title)]
			oj = table[g.classifier.Classify(w.Videos[j].Title)]
		)

		if oi != oj {
			return oi < oj
		}

		return w.Videos[i].PublishedAt.Before(w.Videos[j].PublishedAt)
	})
}

func sortByLatestDesc(weekends []*model.Weekend) {
	sort.SliceStable(weekends, func(i, j int) bool {
		return weekends[i].LatestDate.After(weekends[j].LatestDate)
	})
}
