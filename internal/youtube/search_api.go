package youtube

import (
	"context"
	"fmt"

	ytapi "google.golang.org/api/youtube/v3"

	"yt-insights-go/internal/types"
)

const maxAPIPageSize = 50

// APISearcher searches through the Data API v3 search.list endpoint.
type APISearcher struct {
	svc *ytapi.Service
}

func NewAPISearcher(svc *ytapi.Service) *APISearcher {
	return &APISearcher{svc: svc}
}

func (s *APISearcher) Search(ctx context.Context, query string, limit int) ([]types.SearchHit, error) {
	var hits []types.SearchHit
	pageToken := ""
	for len(hits) < limit {
		call := s.svc.Search.List([]string{"id", "snippet"}).
			Q(query).
			Type("video").
			MaxResults(int64(min(maxAPIPageSize, limit-len(hits)))).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return hits, fmt.Errorf("youtube data API search: %w", err)
		}
		for _, item := range resp.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			hit := types.SearchHit{VideoID: item.Id.VideoId}
			if item.Snippet != nil {
				hit.Title = item.Snippet.Title
			}
			hits = append(hits, hit)
		}
		if resp.NextPageToken == "" || len(resp.Items) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
