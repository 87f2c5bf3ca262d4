package transcription

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"yt-insights-go/internal/youtube"
	"yt-insights-go/internal/yterrors"
)

const playerResponseMarker = "ytInitialPlayerResponse = "

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// timedText covers both the legacy <transcript><text> format and srv3
// <timedtext><body><p>.
type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
	Paragraphs []struct {
		Inner string `xml:",innerxml"`
	} `xml:"body>p"`
}

// Fetcher reads caption tracks from the watch page.
type Fetcher struct {
	BaseURL string
	Langs   []string

	client *http.Client
	log    logrus.FieldLogger
}

func New(client *http.Client, langs []string, log logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		BaseURL: youtube.DefaultBaseURL,
		Langs:   langs,
		client:  client,
		log:     log.WithField("module", "transcription"),
	}
}

// Fetch returns the transcript as one line of text. A video without captions
// yields yterrors.ErrNoTranscript.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := youtube.FetchPage(ctx, f.client, f.BaseURL+"/watch?v="+url.QueryEscape(videoID))
	if err != nil {
		return "", fmt.Errorf("watch page: %w", err)
	}

	data := youtube.ExtractAfter(page, playerResponseMarker)
	if data == nil {
		return "", errors.New("ytInitialPlayerResponse not found in watch page")
	}
	var player playerResponse
	if err := json.Unmarshal(data, &player); err != nil {
		return "", fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}

	if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		return "", fmt.Errorf("video not playable (%s): %s", ps.Status, ps.Reason)
	}
	if player.Captions == nil {
		return "", yterrors.ErrNoTranscript
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", yterrors.ErrNoTranscript
	}

	track, ok := pickBestTrack(tracks, f.Langs)
	if !ok {
		return "", errors.New("all caption tracks require PoToken")
	}
	f.log.WithFields(logrus.Fields{
		"video_id": videoID,
		"language": track.LanguageCode,
		"kind":     track.Kind,
	}).Debug("fetching caption track")
	return f.fetchTimedText(ctx, track.BaseURL)
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack prefers a manual track in a preferred language, then an
// auto-generated one, then any English track, then the first usable track.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

func (f *Fetcher) fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	body, err := youtube.FetchPage(ctx, f.client, baseURL)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	return parseTimedText(body)
}

func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	segments := make([]string, 0, len(tt.Lines)+len(tt.Paragraphs))
	for _, line := range tt.Lines {
		segments = append(segments, line.Text)
	}
	for _, p := range tt.Paragraphs {
		segments = append(segments, p.Inner)
	}

	var sb strings.Builder
	for _, seg := range segments {
		text := cleanHTML(seg)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// cleanHTML drops markup, decodes entities and collapses whitespace.
func cleanHTML(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}
