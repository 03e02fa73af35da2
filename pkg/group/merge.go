package group

import (
	"github.com/pitwall/pitwall/pkg/model"
)

// Dedupe removes videos whose ID was already seen, keeping the first
// occurrence. Paginated fetches can return the same video twice when
// the upstream playlist shifts between pages.
func Dedupe(videos []*model.VideoItem) []*model.VideoItem {
	var (
		seen = make(map[string]struct{}, len(videos))
		out  = make([]*model.VideoItem, 0, len(videos))
	)

	for _, v := range videos {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}

	return out
}

// MergeArchives merges freshly fetched weekends into a previously
// persisted archive. Weekends are keyed by name; per key the video
// lists are unioned by video ID with the existing videos first, the
// latest date and session ordering are recomputed, and the result is
// ordered newest weekend first. Archive weekends are never deleted,
// only accumulated.
func (g *Grouper) MergeArchives(existing, incoming []*model.Weekend) []*model.Weekend {
	var (
		byName = make(map[string]*model.Weekend)
		order  []string
	)

	add := func(w *model.Weekend) {
		merged, ok := byName[w.Name]
		if !ok {
			merged = &model.Weekend{Name: w.Name}
			byName[w.Name] = merged
			order = append(order, w.Name)
		}
		merged.Videos = append(merged.Videos, w.Videos...)
	}

	for _, w := range existing {
		add(w)
	}
	for _, w := range incoming {
		add(w)
	}

	out := make([]*model.Weekend, 0, len(order))
	for _, name := range order {
		w := byName[name]
		w.Videos = Dedupe(w.Videos)
		g.SortVideos(w)
		w.Touch()
		out = append(out, w)
	}

	sortByLatestDesc(out)
	return out
}

// MergePreservedGroups reconciles a fetch result with preserved weekend
// data (manual overrides, or the persisted archive during missing-only
// runs). When preferPreserved is set and the preserved weekend has at
// least one video, it replaces the fetched weekend wholesale rather
// than merging: incremental fetches must not silently drop curated
// data. Otherwise fetched data wins where present and preserved data
// fills the gaps. Output keeps the fetched order, with preserved-only
// weekends appended.
func (g *Grouper) MergePreservedGroups(fetched, preserved []*model.Weekend, preferPreserved bool) []*model.Weekend {
	preservedByName := make(map[string]*model.Weekend, len(preserved))
	for _, w := range preserved {
		preservedByName[w.Name] = w
	}

	out := make([]*model.Weekend, 0, len(fetched)+len(preserved))
	taken := make(map[string]struct{}, len(fetched))

	for _, w := range fetched {
		taken[w.Name] = struct{}{}

		p, ok := preservedByName[w.Name]
		switch {
		case ok && preferPreserved && len(p.Videos) > 0:
			out = append(out, g.rebuild(p))
		case len(w.Videos) > 0:
			out = append(out, g.rebuild(w))
		case ok && len(p.Videos) > 0:
			out = append(out, g.rebuild(p))
		default:
			out = append(out, g.rebuild(w))
		}
	}

	for _, p := range preserved {
		if _, ok := taken[p.Name]; ok {
			continue
		}
		out = append(out, g.rebuild(p))
	}

	return out
}

// rebuild copies a weekend and recomputes its derived state so merge
// results never alias their inputs.
func (g *Grouper) rebuild(w *model.Weekend) *model.Weekend {
	out := &model.Weekend{
		Name:   w.Name,
		Videos: append([]*model.VideoItem(nil), w.Videos...),
	}

	out.Videos = Dedupe(out.Videos)
	g.SortVideos(out)
	out.Touch()
	return out
}
