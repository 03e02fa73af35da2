// Package overrides loads the manual override archive: weekends an
// operator curates by hand when the automated pipeline misses videos.
package overrides

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/source"
)

// Entry is one curated weekend. Videos may be full objects or bare
// video IDs; bare IDs are enriched against the video source before use.
type Entry struct {
	Name   string     `json:"name"`
	Videos []VideoRef `json:"videos"`
}

// VideoRef is either a bare video ID string or a full video object.
type VideoRef struct {
	ID   string
	Item *model.VideoItem
}

func (r *VideoRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}

	var item model.VideoItem
	if err := json.Unmarshal(data, &item); err != nil {
		return errors.New("override video must be an id string or a video object")
	}

	r.ID = item.ID
	r.Item = &item
	return nil
}

// Load reads the overrides file. The file is optional: a missing path
// yields no entries and no error.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read overrides file: %s", path)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "failed to parse overrides file: %s", path)
	}

	return entries, nil
}

// Resolve turns override entries into weekends, enriching bare video
// IDs through a batched by-id lookup. IDs the source doesn't know are
// logged and skipped, they don't fail the run.
func Resolve(ctx context.Context, entries []Entry, src source.VideoSource) ([]*model.Weekend, error) {
	var pending []string
	for _, entry := range entries {
		for _, ref := range entry.Videos {
			if ref.Item == nil && ref.ID != "" {
				pending = append(pending, ref.ID)
			}
		}
	}

	fetched := make(map[string]*model.VideoItem, len(pending))
	if len(pending) > 0 {
		videos, err := src.VideosByID(ctx, pending)
		if err != nil {
			return nil, errors.Wrap(err, "failed to enrich override videos")
		}

		for _, v := range videos {
			fetched[v.ID] = v
		}
	}

	weekends := make([]*model.Weekend, 0, len(entries))
	for _, entry := range entries {
		w := &model.Weekend{Name: entry.Name}

		for _, ref := range entry.Videos {
			switch {
			case ref.Item != nil:
				w.Videos = append(w.Videos, ref.Item)
			case fetched[ref.ID] != nil:
				w.Videos = append(w.Videos, fetched[ref.ID])
			default:
				log.WithFields(log.Fields{
					"weekend":  entry.Name,
					"video_id": ref.ID,
				}).Warn("override video not found upstream, skipping")
			}
		}

		w.Touch()
		weekends = append(weekends, w)
	}

	return weekends, nil
}
