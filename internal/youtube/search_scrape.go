package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"

	"yt-insights-go/internal/types"
	"yt-insights-go/internal/yterrors"
)

const ytWebVersion = "2.20250222.10.00"

var (
	innertubeKeyRE     = regexp.MustCompile(`"INNERTUBE_API_KEY":"([^"]+)"`)
	innertubeVersionRE = regexp.MustCompile(`"INNERTUBE_CLIENT_VERSION":"([^"]+)"`)
)

// ScrapeSearcher reads the public results page and follows its continuation
// tokens through the Innertube search endpoint. No API key needed.
type ScrapeSearcher struct {
	BaseURL string

	client *http.Client
	log    logrus.FieldLogger
}

func NewScrapeSearcher(client *http.Client, log logrus.FieldLogger) *ScrapeSearcher {
	return &ScrapeSearcher{
		BaseURL: DefaultBaseURL,
		client:  client,
		log:     log.WithField("module", "youtube.search"),
	}
}

func (s *ScrapeSearcher) Search(ctx context.Context, query string, limit int) ([]types.SearchHit, error) {
	if limit <= 0 {
		return nil, nil
	}

	searchURL := s.BaseURL + "/results?search_query=" + url.QueryEscape(query) + "&sp=" + ytSearchFilter
	page, err := FetchPage(ctx, s.client, searchURL)
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}
	data := ExtractAfter(page, initialDataMark)
	if data == nil {
		return nil, yterrors.ErrNoInitialData
	}

	hits, token, err := parseSearchResults(data)
	if err != nil {
		return nil, err
	}

	apiKey, version := submatch(innertubeKeyRE, page), submatch(innertubeVersionRE, page)
	if version == "" {
		version = ytWebVersion
	}
	for len(hits) < limit && token != "" {
		more, next, err := s.continuation(ctx, token, apiKey, version)
		if err != nil {
			// keep what the first pages produced
			s.log.WithField("error", err.Error()).Warn("search continuation failed")
			break
		}
		if len(more) == 0 {
			break
		}
		hits = append(hits, more...)
		token = next
	}

	if len(hits) > limit {
		hits = hits[:limit]
	}
	s.log.WithFields(logrus.Fields{"query": query, "hits": len(hits)}).Debug("search finished")
	return hits, nil
}

func (s *ScrapeSearcher) continuation(ctx context.Context, token, apiKey, version string) ([]types.SearchHit, string, error) {
	payload, err := json.Marshal(map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    "WEB",
				"clientVersion": version,
				"hl":            "en",
				"gl":            "US",
			},
		},
		"continuation": token,
	})
	if err != nil {
		return nil, "", err
	}

	endpoint := s.BaseURL + "/youtubei/v1/search?prettyPrint=false"
	if apiKey != "" {
		endpoint += "&key=" + url.QueryEscape(apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Youtube-Client-Name", "1")
	req.Header.Set("X-Youtube-Client-Version", version)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("innertube search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, "", fmt.Errorf("innertube search HTTP %d: %s", resp.StatusCode, snippet)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, "", err
	}
	return parseSearchResults(body)
}

// parseSearchResults walks a search response for videoRenderer entries and
// the last continuation token. Object keys are visited in sorted order so the
// result order only depends on the document.
func parseSearchResults(data []byte) ([]types.SearchHit, string, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("decode search results: %w", err)
	}

	var hits []types.SearchHit
	var token string
	var walk func(v any)
	walk = func(v any) {
		switch node := v.(type) {
		case []any:
			for _, item := range node {
				walk(item)
			}
		case map[string]any:
			if vr, ok := node["videoRenderer"].(map[string]any); ok {
				if id, _ := vr["videoId"].(string); id != "" {
					hits = append(hits, types.SearchHit{VideoID: id, Title: runsText(vr["title"])})
					return
				}
			}
			if cc, ok := node["continuationCommand"].(map[string]any); ok {
				if t, _ := cc["token"].(string); t != "" {
					token = t
				}
			}
			keys := make([]string, 0, len(node))
			for k := range node {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(node[k])
			}
		}
	}
	walk(doc)
	return hits, token, nil
}

// runsText reads {"runs":[{"text":...}]} or {"simpleText":...}.
func runsText(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := obj["simpleText"].(string); ok {
		return s
	}
	runs, _ := obj["runs"].([]any)
	var out string
	for _, r := range runs {
		if m, ok := r.(map[string]any); ok {
			if s, ok := m["text"].(string); ok {
				out += s
			}
		}
	}
	return out
}

func submatch(re *regexp.Regexp, b []byte) string {
	if m := re.FindSubmatch(b); len(m) >= 2 {
		return string(m[1])
	}
	return ""
}
