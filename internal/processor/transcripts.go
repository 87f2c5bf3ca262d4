package processor

import (
	"context"

	"github.com/sirupsen/logrus"

	"yt-insights-go/internal/aggregator"
	"yt-insights-go/internal/types"
	"yt-insights-go/internal/youtube"
)

// TranscriptProcessor runs transcript mode: metadata, transcript, edit and
// summary for every unique search hit.
type TranscriptProcessor struct {
	Deps
	transcripts TranscriptFetcher
}

func NewTranscriptProcessor(deps Deps, transcripts TranscriptFetcher) *TranscriptProcessor {
	deps.Log = deps.Log.WithField("module", "processor")
	return &TranscriptProcessor{Deps: deps, transcripts: transcripts}
}

// Run processes up to n videos for query. Videos without a transcript are
// skipped unless includeNoTranscript is set. Rows come back in search order.
// A cancelled ctx ends the run; the video in flight is dropped and the rows
// finished before it are returned.
func (p *TranscriptProcessor) Run(ctx context.Context, query string, n int, includeNoTranscript bool) ([]types.TranscriptRow, aggregator.Stats, error) {
	hits, err := p.collect(ctx, query, n)
	if err != nil {
		return nil, aggregator.Stats{}, err
	}

	acc := aggregator.New[types.TranscriptRow]()
	for i, hit := range hits {
		if interrupted(ctx, acc, p.Log, i, len(hits)) {
			break
		}
		log := p.Log.WithFields(logrus.Fields{"video_id": hit.VideoID, "index": i + 1})
		video := youtube.FetchOrEmpty(ctx, p.Metadata, hit.VideoID, p.Log)

		transcript, err := p.transcripts.Fetch(ctx, hit.VideoID)
		if err != nil {
			logFetchError(log, err, "transcript")
			transcript = ""
		}

		if transcript == "" && !includeNoTranscript {
			if interrupted(ctx, acc, p.Log, i, len(hits)) {
				break
			}
			log.Info("skipping video without transcript")
			acc.Skip()
			continue
		}

		edited := p.Text.Edit(ctx, transcript)
		summary := p.Text.Summarize(ctx, transcript)
		if interrupted(ctx, acc, p.Log, i, len(hits)) {
			break
		}

		p.printf("\nURL: %s\nTitle: %s\nPublish Date: %s\nViews: %s\nDescription: %s\nTranscript: %s\nTranscript Summary: %s\n",
			video.URL(), video.Title, video.PublishedAt, video.Views, video.Description, edited.Text, summary.Text)

		acc.Add(types.TranscriptRow{
			Video:            video,
			EditedTranscript: edited.Text,
			Summary:          summary.Text,
		}, edited.Degraded || summary.Degraded)
		p.Progress.Report(i+1, len(hits))
	}

	rows, stats := finish(acc, p.Log)
	return rows, stats, nil
}

// TranscriptCells converts rows for the spreadsheet writer.
func TranscriptCells(rows []types.TranscriptRow) [][]any {
	return aggregator.Flatten(rows, func(r types.TranscriptRow) [][]any {
		return [][]any{r.Cells()}
	})
}
