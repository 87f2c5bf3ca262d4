package processor

import (
	"context"

	"github.com/sirupsen/logrus"

	"yt-insights-go/internal/aggregator"
	"yt-insights-go/internal/types"
	"yt-insights-go/internal/youtube"
)

// CommentProcessor runs comments mode: metadata, comments and a two-stage
// comment summary for every unique search hit.
type CommentProcessor struct {
	Deps
	comments CommentFetcher
}

func NewCommentProcessor(deps Deps, comments CommentFetcher) *CommentProcessor {
	deps.Log = deps.Log.WithField("module", "processor")
	return &CommentProcessor{Deps: deps, comments: comments}
}

// Run processes up to n videos for query. Every video yields a row, with an
// empty comment list when none could be fetched. A cancelled ctx ends the
// run with the rows finished so far.
func (p *CommentProcessor) Run(ctx context.Context, query string, n int) ([]types.CommentRow, aggregator.Stats, error) {
	hits, err := p.collect(ctx, query, n)
	if err != nil {
		return nil, aggregator.Stats{}, err
	}

	acc := aggregator.New[types.CommentRow]()
	for i, hit := range hits {
		if interrupted(ctx, acc, p.Log, i, len(hits)) {
			break
		}
		log := p.Log.WithFields(logrus.Fields{"video_id": hit.VideoID, "index": i + 1})
		video := youtube.FetchOrEmpty(ctx, p.Metadata, hit.VideoID, p.Log)

		comments, err := p.comments.Fetch(ctx, hit.VideoID)
		if err != nil {
			logFetchError(log, err, "comments")
			comments = []string{}
		}
		log.WithField("comments", len(comments)).Debug("comments fetched")

		summary := p.Text.SummarizeComments(ctx, comments)
		if interrupted(ctx, acc, p.Log, i, len(hits)) {
			break
		}

		p.printf("URL: %s\nComments:\n", video.URL())
		for j, c := range comments {
			p.printf("Comment %d: %s\n\n", j+1, c)
		}
		p.printf("Summary: %s\n\n", summary.Text)

		acc.Add(types.CommentRow{
			Video:    video,
			Comments: comments,
			Summary:  summary.Text,
		}, summary.Degraded)
		p.Progress.Report(i+1, len(hits))
	}

	rows, stats := finish(acc, p.Log)
	return rows, stats, nil
}

// CommentCells converts rows for the spreadsheet writer.
func CommentCells(rows []types.CommentRow) [][]any {
	return aggregator.Flatten(rows, types.CommentRow.Rows)
}
