package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/youtube/v3"
)

func TestParseVideo(t *testing.T) {
	v := &youtube.Video{
		Id: "abc123",
		Snippet: &youtube.VideoSnippet{
			Title:       "Race Highlights | 2025 Monaco Grand Prix",
			Description: "All the best moments.",
			PublishedAt: "2025-05-25T16:00:00Z",
			Thumbnails: &youtube.ThumbnailDetails{
				High:    &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/abc123/hqdefault.jpg"},
				Default: &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/abc123/default.jpg"},
			},
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT8M21S"},
	}

	item, err := parseVideo(v)
	require.NoError(t, err)

	assert.Equal(t, "abc123", item.ID)
	assert.Equal(t, "Race Highlights | 2025 Monaco Grand Prix", item.Title)
	assert.Equal(t, time.Date(2025, 5, 25, 16, 0, 0, 0, time.UTC), item.PublishedAt)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/hqdefault.jpg", item.Thumbnail)
	assert.Equal(t, int64(501), item.Duration)
	assert.Equal(t, "https://youtube.com/watch?v=abc123", item.URL)
}

func TestParseVideoMissingContentDetails(t *testing.T) {
	v := &youtube.Video{
		Id: "abc123",
		Snippet: &youtube.VideoSnippet{
			Title:       "Qualifying Highlights",
			PublishedAt: "2025-05-24T16:00:00Z",
		},
	}

	item, err := parseVideo(v)
	require.NoError(t, err)
	assert.Zero(t, item.Duration)
}

func TestParseVideoNoSnippet(t *testing.T) {
	_, err := parseVideo(&youtube.Video{Id: "abc123"})
	assert.Error(t, err)
}

func TestParseVideoBadPublishDate(t *testing.T) {
	_, err := parseVideo(&youtube.Video{
		Id:      "abc123",
		Snippet: &youtube.VideoSnippet{PublishedAt: "yesterday"},
	})
	assert.Error(t, err)
}

func TestSelectThumbnail(t *testing.T) {
	maxres := &youtube.Thumbnail{Url: "maxres"}
	high := &youtube.Thumbnail{Url: "high"}
	medium := &youtube.Thumbnail{Url: "medium"}
	def := &youtube.Thumbnail{Url: "default"}

	tests := []struct {
		name    string
		details *youtube.ThumbnailDetails
		want    string
	}{
		{"prefers maxres", &youtube.ThumbnailDetails{Maxres: maxres, High: high, Default: def}, "maxres"},
		{"falls back to high", &youtube.ThumbnailDetails{High: high, Medium: medium}, "high"},
		{"falls back to medium", &youtube.ThumbnailDetails{Medium: medium, Default: def}, "medium"},
		{"falls back to default", &youtube.ThumbnailDetails{Default: def}, "default"},
		{"empty details", &youtube.ThumbnailDetails{}, "https://img.youtube.com/vi/abc123/default.jpg"},
		{"nil details", nil, "https://img.youtube.com/vi/abc123/default.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectThumbnail(tt.details, "abc123"))
		})
	}
}
