package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	ytapi "google.golang.org/api/youtube/v3"

	"yt-insights-go/internal/yterrors"
)

const commentsPageSize = 100

// CommentFetcher lists top-level comments through commentThreads.list.
type CommentFetcher struct {
	svc *ytapi.Service
	// MaxComments caps the number of comments per video; 0 means all.
	MaxComments int
}

func NewCommentFetcher(svc *ytapi.Service, maxComments int) *CommentFetcher {
	return &CommentFetcher{svc: svc, MaxComments: maxComments}
}

func (f *CommentFetcher) Fetch(ctx context.Context, videoID string) ([]string, error) {
	var comments []string
	pageToken := ""
	for {
		call := f.svc.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			TextFormat("plainText").
			MaxResults(commentsPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return comments, classifyCommentsError(videoID, err)
		}
		for _, thread := range resp.Items {
			if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil || thread.Snippet.TopLevelComment.Snippet == nil {
				continue
			}
			comments = append(comments, thread.Snippet.TopLevelComment.Snippet.TextDisplay)
			if f.MaxComments > 0 && len(comments) >= f.MaxComments {
				return comments, nil
			}
		}
		if resp.NextPageToken == "" {
			return comments, nil
		}
		pageToken = resp.NextPageToken
	}
}

func classifyCommentsError(videoID string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			if item.Reason == "commentsDisabled" {
				return fmt.Errorf("video %s: %w", videoID, yterrors.ErrCommentsDisabled)
			}
		}
	}
	return fmt.Errorf("error downloading comments for video %s: %w", videoID, err)
}
