// Package source holds the clients for the external data sources: the
// YouTube Data API for video metadata and an Ergast-compatible REST API
// for championship standings.
package source

import (
	"context"

	"github.com/pitwall/pitwall/pkg/model"
)

// VideoSource returns published video metadata. The updater depends on
// this interface so tests can substitute a fake.
type VideoSource interface {
	// Recent returns the most recently published videos, newest pages
	// first, up to the source's configured page cap.
	Recent(ctx context.Context) ([]*model.VideoItem, error)
	// VideosByID returns full metadata for the given video IDs,
	// batching upstream calls as needed. Unknown IDs are skipped.
	VideosByID(ctx context.Context, ids []string) ([]*model.VideoItem, error)
}

// StandingsSource returns championship standings for a season.
type StandingsSource interface {
	Standings(ctx context.Context, season int) (*model.Standings, error)
}
