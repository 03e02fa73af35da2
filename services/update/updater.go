// Package update orchestrates the fetch runs: pull video metadata,
// filter and group it, merge with persisted artifacts, and write the
// results.
package update

import (
	"context"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pitwall/pitwall/pkg/artifact"
	"github.com/pitwall/pitwall/pkg/calendar"
	"github.com/pitwall/pitwall/pkg/classify"
	"github.com/pitwall/pitwall/pkg/config"
	"github.com/pitwall/pitwall/pkg/group"
	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/overrides"
	"github.com/pitwall/pitwall/pkg/source"
)

type Manager struct {
	cfg        *config.Config
	videos     source.VideoSource
	standings  source.StandingsSource
	classifier *classify.Classifier
	grouper    *group.Grouper
}

func NewManager(cfg *config.Config, videos source.VideoSource, standings source.StandingsSource) *Manager {
	classifier := classify.New(cfg.Filter)
	before, after := cfg.Grouping.Window()

	return &Manager{
		cfg:        cfg,
		videos:     videos,
		standings:  standings,
		classifier: classifier,
		grouper: group.New(classifier, group.Config{
			Year:         cfg.Grouping.Year,
			WindowBefore: before,
			WindowAfter:  after,
		}),
	}
}

// UpdateAll runs every configured update. Failures are collected so one
// broken artifact doesn't block the others from refreshing.
func (m *Manager) UpdateAll(ctx context.Context) error {
	var result *multierror.Error

	if err := m.UpdateFeed(ctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "feed update failed"))
	}

	if err := m.UpdateArchive(ctx, false); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "archive update failed"))
	}

	if err := m.UpdateStandings(ctx); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "standings update failed"))
	}

	return result.ErrorOrNil()
}

// UpdateFeed writes the current-feed artifact: the most recent weekends
// only, for the landing page. An empty fetch result leaves the
// previously published artifact untouched: an empty output is
// indistinguishable from a total outage and must never zero out a live
// site's data.
func (m *Manager) UpdateFeed(ctx context.Context) error {
	log.Infof("-> updating feed %s", m.cfg.Feed.Path)
	started := time.Now()

	weekends, err := m.fetchAndGroup(ctx)
	if err != nil {
		return err
	}

	if countVideos(weekends) == 0 {
		log.Warn("fetch produced no recap videos, keeping previous feed artifact")
		return nil
	}

	feed := &model.Archive{GrandPrixWeekends: windowLatest(weekends, m.cfg.Feed.KeepLast)}
	feed.Finalize(time.Now())

	if err := artifact.Write(m.cfg.Feed.Path, feed); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"weekends": len(feed.GrandPrixWeekends),
		"videos":   feed.TotalVideos,
	}).Infof("successfully updated feed in %s", time.Since(started))
	return nil
}

// UpdateArchive merges the fetch result into the season archive. In
// missing-only mode the persisted weekends that already hold videos are
// authoritative and the fetch only fills gaps; a routine run merges
// additively. Manual overrides always replace pipeline output for the
// weekends they name.
func (m *Manager) UpdateArchive(ctx context.Context, missingOnly bool) error {
	log.WithField("missing_only", missingOnly).Infof("-> updating archive %s", m.cfg.Archive.Path)
	started := time.Now()

	existing := artifact.ReadArchive(m.cfg.Archive.Path)

	weekends, err := m.fetchAndGroup(ctx)
	if err != nil {
		return err
	}

	if countVideos(weekends) == 0 {
		log.Warn("fetch produced no recap videos, keeping previous archive")
		return nil
	}

	if missingOnly {
		weekends = m.grouper.MergePreservedGroups(weekends, existing.GrandPrixWeekends, true)
	} else {
		weekends = m.grouper.MergeArchives(existing.GrandPrixWeekends, weekends)
	}

	if m.cfg.Archive.Overrides != "" {
		entries, err := overrides.Load(m.cfg.Archive.Overrides)
		if err != nil {
			return err
		}

		if len(entries) > 0 {
			curated, err := overrides.Resolve(ctx, entries, m.videos)
			if err != nil {
				return err
			}

			weekends = m.grouper.MergePreservedGroups(weekends, curated, true)
		}
	}

	archive := &model.Archive{
		GrandPrixWeekends: weekends,
		Year:              m.cfg.Grouping.Year,
	}
	archive.Finalize(time.Now())

	if err := artifact.Write(m.cfg.Archive.Path, archive); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"weekends": len(archive.GrandPrixWeekends),
		"videos":   archive.TotalVideos,
	}).Infof("successfully updated archive in %s", time.Since(started))
	return nil
}

// UpdateStandings writes the championship standings artifact.
func (m *Manager) UpdateStandings(ctx context.Context) error {
	log.Infof("-> updating standings %s", m.cfg.Standings.Path)
	started := time.Now()

	standings, err := m.standings.Standings(ctx, m.cfg.Standings.Season)
	if err != nil {
		return err
	}

	if err := artifact.Write(m.cfg.Standings.Path, standings); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"season_started": standings.SeasonStarted,
		"drivers":        len(standings.Drivers),
	}).Infof("successfully updated standings in %s", time.Since(started))
	return nil
}

// fetchAndGroup pulls recent videos, filters them down to recaps, and
// groups them by weekend: calendar windows when a calendar file is
// configured, title extraction otherwise.
func (m *Manager) fetchAndGroup(ctx context.Context) ([]*model.Weekend, error) {
	videos, err := m.videos.Recent(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch videos")
	}

	videos = group.Dedupe(videos)

	recaps := make([]*model.VideoItem, 0, len(videos))
	for _, v := range videos {
		if !m.classifier.IsRecap(v) {
			log.Debugf("skipping non-recap video %q", v.Title)
			continue
		}
		recaps = append(recaps, v)
	}

	log.WithFields(log.Fields{
		"fetched": len(videos),
		"recaps":  len(recaps),
	}).Info("filtered fetch result")

	if m.cfg.Grouping.Calendar != "" {
		cal, err := calendar.Load(m.cfg.Grouping.Calendar)
		if err != nil {
			return nil, err
		}

		return m.grouper.ByCalendar(recaps, cal), nil
	}

	return m.grouper.ByName(recaps, nil), nil
}

func countVideos(weekends []*model.Weekend) int {
	total := 0
	for _, w := range weekends {
		total += len(w.Videos)
	}
	return total
}

// windowLatest keeps the k weekends with the newest video activity,
// newest first.
func windowLatest(weekends []*model.Weekend, k int) []*model.Weekend {
	out := append([]*model.Weekend(nil), weekends...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LatestDate.After(out[j].LatestDate)
	})

	if len(out) > k {
		out = out[:k]
	}

	return out
}
