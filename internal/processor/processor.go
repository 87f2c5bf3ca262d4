package processor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"yt-insights-go/internal/aggregator"
	"yt-insights-go/internal/textproc"
	"yt-insights-go/internal/types"
	"yt-insights-go/internal/youtube"
	"yt-insights-go/internal/yterrors"
)

// TranscriptFetcher returns the plain transcript of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// CommentFetcher returns the top-level comments of a video in order.
type CommentFetcher interface {
	Fetch(ctx context.Context, videoID string) ([]string, error)
}

// Reporter is told after every video how far the run has got.
type Reporter interface {
	Report(current, total int)
}

// Deps are the collaborators shared by both run modes.
type Deps struct {
	Searcher youtube.Searcher
	Metadata youtube.MetadataFetcher
	Text     *textproc.Processor
	Progress Reporter
	Out      io.Writer
	Log      logrus.FieldLogger
}

// collect returns the unique hits for query. Search failures are logged and
// yield no videos; only an invalid count is returned to the caller.
func (d Deps) collect(ctx context.Context, query string, n int) ([]types.SearchHit, error) {
	hits, err := youtube.Collect(ctx, d.Searcher, query, n)
	if errors.Is(err, yterrors.ErrInvalidCount) {
		return nil, err
	}
	if err != nil {
		d.Log.WithField("error", err.Error()).Error("search failed")
		return []types.SearchHit{}, nil
	}
	d.Log.WithFields(logrus.Fields{
		"query": query,
		"limit": n,
		"found": len(hits),
	}).Info("search complete")
	return hits, nil
}

// interrupted reports whether ctx was cancelled and records it on acc.
func interrupted[R any](ctx context.Context, acc *aggregator.Accumulator[R], log logrus.FieldLogger, done, total int) bool {
	if ctx.Err() == nil {
		return false
	}
	acc.Interrupt()
	log.WithFields(logrus.Fields{
		"completed": done,
		"total":     total,
		"error":     ctx.Err().Error(),
	}).Warn("run interrupted")
	return true
}

// finish logs the row count of a run and returns its results.
func finish[R any](acc *aggregator.Accumulator[R], log logrus.FieldLogger) ([]R, aggregator.Stats) {
	log.WithField("rows", acc.Len()).Info("videos processed")
	return acc.Rows(), acc.Stats()
}

func (d Deps) printf(format string, args ...any) {
	if d.Out == nil {
		return
	}
	fmt.Fprintf(d.Out, format, args...)
}

// logFetchError separates a missing resource from a failed request.
func logFetchError(log logrus.FieldLogger, err error, what string) {
	switch {
	case errors.Is(err, yterrors.ErrNoTranscript), errors.Is(err, yterrors.ErrCommentsDisabled):
		log.WithField("reason", err.Error()).Infof("no %s available", what)
	default:
		log.WithField("error", err.Error()).Errorf("%s fetch failed", what)
	}
}
