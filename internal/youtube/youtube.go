package youtube

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"yt-insights-go/internal/types"
	"yt-insights-go/internal/yterrors"
)

const DefaultBaseURL = "https://www.youtube.com"

// Searcher returns raw search hits, possibly with repeated video ids.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.SearchHit, error)
}

// MetadataFetcher returns title, description, publish date and views for a video.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (types.VideoRecord, error)
}

// Dedupe keeps the first hit of every video id, in order.
func Dedupe(hits []types.SearchHit) []types.SearchHit {
	seen := make(map[string]struct{}, len(hits))
	unique := make([]types.SearchHit, 0, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.VideoID]; ok {
			continue
		}
		seen[h.VideoID] = struct{}{}
		unique = append(unique, h)
	}
	return unique
}

// Collect asks the searcher for up to n hits and returns them deduplicated.
// n == 0 returns an empty result without searching.
func Collect(ctx context.Context, s Searcher, query string, n int) ([]types.SearchHit, error) {
	if n < 0 {
		return nil, yterrors.ErrInvalidCount
	}
	if n == 0 {
		return []types.SearchHit{}, nil
	}
	hits, err := s.Search(ctx, query, n)
	if err != nil {
		return []types.SearchHit{}, fmt.Errorf("search %q: %w", query, err)
	}
	return Dedupe(hits), nil
}

// FetchOrEmpty returns the metadata for a video, or a record carrying only the
// id when the provider fails. The failure is logged.
func FetchOrEmpty(ctx context.Context, f MetadataFetcher, videoID string, log logrus.FieldLogger) types.VideoRecord {
	rec, err := f.Fetch(ctx, videoID)
	if err != nil {
		log.WithFields(logrus.Fields{
			"video_id": videoID,
			"error":    err.Error(),
		}).Error("error fetching details for video")
		return types.VideoRecord{ID: videoID}
	}
	rec.ID = videoID
	return rec
}

// NewService builds a Data API v3 client keyed by apiKey. endpoint overrides
// the API root and is empty outside tests.
func NewService(ctx context.Context, apiKey string, timeout time.Duration, endpoint string) (*ytapi.Service, error) {
	client := &http.Client{
		Timeout:   timeout,
		Transport: &transport.APIKey{Key: apiKey, Transport: http.DefaultTransport},
	}
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating youtube service: %w", err)
	}
	return svc, nil
}
