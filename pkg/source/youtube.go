package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BrianHicks/finch/duration"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/pitwall/pitwall/pkg/model"
)

const (
	// maxYoutubeResults is the upstream page/batch limit, not ours.
	maxYoutubeResults = 50

	defaultMaxPages = 4
	defaultPageSize = maxYoutubeResults
)

// YouTubeConfig configures the video source. Playlist is the uploads
// playlist of the channel to pull from. MaxPages bounds pagination so a
// runaway loop can't drain the API quota.
type YouTubeConfig struct {
	Key      string
	Playlist string
	PageSize int
	MaxPages int
}

// YouTube fetches video metadata from the YouTube Data API v3.
type YouTube struct {
	client  *youtube.Service
	cfg     YouTubeConfig
	limiter *rate.Limiter
}

func NewYouTube(ctx context.Context, cfg YouTubeConfig) (*YouTube, error) {
	if cfg.Key == "" {
		return nil, errors.New("youtube API key is required")
	}

	if cfg.Playlist == "" {
		return nil, errors.New("youtube playlist is required")
	}

	if cfg.PageSize <= 0 || cfg.PageSize > maxYoutubeResults {
		cfg.PageSize = defaultPageSize
	}

	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}

	client, err := youtube.NewService(ctx, option.WithAPIKey(cfg.Key))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create youtube client")
	}

	return &YouTube{
		client: client,
		cfg:    cfg,
		// Quota-limited upstream, no reason to burst.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}, nil
}

// Recent pulls the newest pages of the configured playlist and returns
// full metadata for each video, newest first. Pagination stops at the
// configured page cap or when the upstream runs out of pages.
func (yt *YouTube) Recent(ctx context.Context) ([]*model.VideoItem, error) {
	var (
		out   []*model.VideoItem
		token string
	)

	for page := 0; page < yt.cfg.MaxPages; page++ {
		ids, next, err := yt.listPlaylistPage(ctx, token)
		if err != nil {
			return nil, err
		}

		if len(ids) == 0 {
			break
		}

		videos, err := yt.VideosByID(ctx, ids)
		if err != nil {
			return nil, err
		}

		out = append(out, videos...)

		if next == "" {
			break
		}
		token = next
	}

	log.Debugf("fetched %d video(s) from playlist %s", len(out), yt.cfg.Playlist)
	return out, nil
}

// Cost: 3 units per page (call: 1, snippet: 2).
func (yt *YouTube) listPlaylistPage(ctx context.Context, pageToken string) ([]string, string, error) {
	var resp *youtube.PlaylistItemListResponse

	err := withRetry(ctx, log.WithField("playlist", yt.cfg.Playlist), func() error {
		if err := yt.limiter.Wait(ctx); err != nil {
			return err
		}

		req := yt.client.PlaylistItems.List([]string{"id", "snippet"}).
			MaxResults(int64(yt.cfg.PageSize)).
			PlaylistId(yt.cfg.Playlist).
			Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		var err error
		resp, err = req.Do()
		return mapAPIError(err)
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to query playlist items")
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil {
			continue
		}
		ids = append(ids, item.Snippet.ResourceId.VideoId)
	}

	return ids, resp.NextPageToken, nil
}

// VideosByID fetches full metadata in batches of at most 50 IDs, the
// upstream limit per Videos.List call.
func (yt *YouTube) VideosByID(ctx context.Context, ids []string) ([]*model.VideoItem, error) {
	var out []*model.VideoItem

	for start := 0; start < len(ids); start += maxYoutubeResults {
		end := start + maxYoutubeResults
		if end > len(ids) {
			end = len(ids)
		}

		batch, err := yt.listVideos(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}

		out = append(out, batch...)
	}

	return out, nil
}

// Cost: 5 units per batch (call: 1, snippet: 2, contentDetails: 2).
func (yt *YouTube) listVideos(ctx context.Context, ids []string) ([]*model.VideoItem, error) {
	var resp *youtube.VideoListResponse

	err := withRetry(ctx, log.WithField("batch_size", len(ids)), func() error {
		if err := yt.limiter.Wait(ctx); err != nil {
			return err
		}

		var err error
		resp, err = yt.client.Videos.List([]string{"id", "snippet", "contentDetails"}).
			Id(strings.Join(ids, ",")).
			Context(ctx).
			Do()
		return mapAPIError(err)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to query video metadata")
	}

	items := make([]*model.VideoItem, 0, len(resp.Items))
	for _, video := range resp.Items {
		item, err := parseVideo(video)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func parseVideo(video *youtube.Video) (*model.VideoItem, error) {
	snippet := video.Snippet
	if snippet == nil {
		return nil, errors.Errorf("video %s has no snippet", video.Id)
	}

	publishedAt, err := time.Parse(time.RFC3339, snippet.PublishedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse publish date for %s", video.Id)
	}

	item := &model.VideoItem{
		ID:          video.Id,
		Title:       snippet.Title,
		Description: snippet.Description,
		PublishedAt: publishedAt,
		Thumbnail:   selectThumbnail(snippet.Thumbnails, video.Id),
		URL:         fmt.Sprintf("https://youtube.com/watch?v=%s", video.Id),
	}

	// Sometimes YouTube returns empty content details, duration stays zero.
	if video.ContentDetails != nil && video.ContentDetails.Duration != "" {
		d, err := duration.FromString(video.ContentDetails.Duration)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse duration %s", video.ContentDetails.Duration)
		}
		item.Duration = int64(d.ToDuration().Seconds())
	}

	return item, nil
}

func selectThumbnail(details *youtube.ThumbnailDetails, videoID string) string {
	if details == nil {
		return fmt.Sprintf("https://img.youtube.com/vi/%s/default.jpg", videoID)
	}

	if details.Maxres != nil {
		return details.Maxres.Url
	}
	if details.High != nil {
		return details.High.Url
	}
	if details.Medium != nil {
		return details.Medium.Url
	}
	if details.Default != nil {
		return details.Default.Url
	}

	return fmt.Sprintf("https://img.youtube.com/vi/%s/default.jpg", videoID)
}
