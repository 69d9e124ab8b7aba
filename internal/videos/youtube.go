package videos

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Searcher finds a video id for a search query. It returns "" when nothing matches.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// YouTubeSearcher queries the YouTube Data API.
type YouTubeSearcher struct {
	service *youtube.Service
}

// NewYouTubeSearcher creates a searcher authenticated with an API key.
func NewYouTubeSearcher(ctx context.Context, apiKey string) (*YouTubeSearcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTubeSearcher{service: svc}, nil
}

// Search returns the id of the most relevant embeddable video for query.
func (s *YouTubeSearcher) Search(ctx context.Context, query string) (string, error) {
	resp, err := s.service.Search.List([]string{"id"}).
		Q(query).
		Type("video").
		VideoEmbeddable("true").
		SafeSearch("strict").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search YouTube: %w", err)
	}
	for _, item := range resp.Items {
		if item.Id != nil && ValidID(item.Id.VideoId) {
			return item.Id.VideoId, nil
		}
	}
	return "", nil
}
