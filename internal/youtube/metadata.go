package youtube

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	ytapi "google.golang.org/api/youtube/v3"

	"yt-insights-go/internal/types"
	"yt-insights-go/internal/yterrors"
)

// APIMetadata reads snippet and statistics through videos.list.
type APIMetadata struct {
	svc *ytapi.Service
}

func NewAPIMetadata(svc *ytapi.Service) *APIMetadata {
	return &APIMetadata{svc: svc}
}

func (m *APIMetadata) Fetch(ctx context.Context, videoID string) (types.VideoRecord, error) {
	resp, err := m.svc.Videos.List([]string{"snippet", "statistics"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return types.VideoRecord{}, fmt.Errorf("API error for video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return types.VideoRecord{}, fmt.Errorf("videos.list %s: %w", videoID, yterrors.ErrVideoNotFound)
	}

	item := resp.Items[0]
	rec := types.VideoRecord{ID: videoID}
	if item.Snippet != nil {
		rec.Title = item.Snippet.Title
		rec.Description = item.Snippet.Description
		rec.PublishedAt = item.Snippet.PublishedAt
	}
	// viewCount is omitted when the owner hides it and decodes to 0
	if item.Statistics != nil && item.Statistics.ViewCount > 0 {
		rec.Views = strconv.FormatUint(item.Statistics.ViewCount, 10)
	}
	return rec, nil
}

// PageMetadata scrapes the watch page meta tags; used when no API key is
// configured. YouTube truncates the meta description.
type PageMetadata struct {
	BaseURL string

	client *http.Client
}

func NewPageMetadata(client *http.Client) *PageMetadata {
	return &PageMetadata{BaseURL: DefaultBaseURL, client: client}
}

func (m *PageMetadata) Fetch(ctx context.Context, videoID string) (types.VideoRecord, error) {
	page, err := FetchPage(ctx, m.client, m.BaseURL+"/watch?v="+url.QueryEscape(videoID))
	if err != nil {
		return types.VideoRecord{}, fmt.Errorf("watch page %s: %w", videoID, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return types.VideoRecord{}, fmt.Errorf("parse watch page %s: %w", videoID, err)
	}

	content := func(selectors ...string) string {
		for _, sel := range selectors {
			if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	rec := types.VideoRecord{
		ID:          videoID,
		Title:       content(`meta[name="title"]`, `meta[property="og:title"]`),
		Description: content(`meta[name="description"]`, `meta[property="og:description"]`),
		PublishedAt: content(`meta[itemprop="datePublished"]`, `meta[itemprop="uploadDate"]`),
		Views:       content(`meta[itemprop="interactionCount"]`),
	}
	if rec.Title == "" && rec.Description == "" && rec.PublishedAt == "" && rec.Views == "" {
		return types.VideoRecord{}, fmt.Errorf("watch page %s: %w", videoID, yterrors.ErrVideoNotFound)
	}
	return rec, nil
}
