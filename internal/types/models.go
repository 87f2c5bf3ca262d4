package types

import "strings"

const watchURLPrefix = "https://www.youtube.com/watch?v="

// WatchURL builds the canonical watch page URL for a video id.
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

// --------------------------------------------
// Raw search result; ids may repeat
// --------------------------------------------
type SearchHit struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
}

// --------------------------------------------
// Metadata for one video. Missing values are ""
// --------------------------------------------
type VideoRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	Views       string `json:"views"`
}

func (v VideoRecord) URL() string {
	return WatchURL(v.ID)
}

// --------------------------------------------
// Transcript mode output
// --------------------------------------------
var TranscriptHeader = []string{
	"Title", "Video ID", "URL", "Description", "Publish Date", "Views",
	"Edited Transcript", "Transcript Summary",
}

type TranscriptRow struct {
	Video            VideoRecord `json:"video"`
	EditedTranscript string      `json:"edited_transcript"`
	Summary          string      `json:"summary"`
}

// Cells returns the row in TranscriptHeader order.
func (r TranscriptRow) Cells() []any {
	return []any{
		r.Video.Title, r.Video.ID, r.Video.URL(), r.Video.Description,
		r.Video.PublishedAt, r.Video.Views, r.EditedTranscript, r.Summary,
	}
}

// --------------------------------------------
// Comments mode output
// --------------------------------------------
var CommentsHeader = []string{"Video ID", "Title", "URL", "Summary", "Comment"}

type CommentRow struct {
	Video    VideoRecord `json:"video"`
	Comments []string    `json:"comments"`
	Summary  string      `json:"summary"`
}

// Rows yields the summary row followed by one row per comment.
func (r CommentRow) Rows() [][]any {
	id, title, url := r.Video.ID, r.Video.Title, r.Video.URL()
	out := make([][]any, 0, 1+len(r.Comments))
	out = append(out, []any{id, title, url, r.Summary, ""})
	for _, c := range r.Comments {
		out = append(out, []any{id, title, url, "", strings.TrimSpace(c)})
	}
	return out
}
