package processor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yt-insights-go/internal/aggregator"
	"yt-insights-go/internal/fixtures"
	"yt-insights-go/internal/textproc"
	"yt-insights-go/internal/types"
	"yt-insights-go/internal/yterrors"
)

type recorder struct {
	calls [][2]int
}

func (r *recorder) Report(current, total int) {
	r.calls = append(r.calls, [2]int{current, total})
}

func prefixed(prefix string) any {
	return mock.MatchedBy(func(p string) bool { return strings.HasPrefix(p, prefix) })
}

type harness struct {
	searcher    *fixtures.MockSearcher
	metadata    *fixtures.MockMetadata
	transcripts *fixtures.MockTranscripts
	comments    *fixtures.MockComments
	model       *fixtures.MockModel
	progress    *recorder
	out         *bytes.Buffer
	hook        *test.Hook
	deps        Deps
}

func newHarness() *harness {
	log, hook := test.NewNullLogger()
	h := &harness{
		searcher:    &fixtures.MockSearcher{},
		metadata:    &fixtures.MockMetadata{},
		transcripts: &fixtures.MockTranscripts{},
		comments:    &fixtures.MockComments{},
		model:       &fixtures.MockModel{},
		progress:    &recorder{},
		out:         &bytes.Buffer{},
		hook:        hook,
	}
	h.deps = Deps{
		Searcher: h.searcher,
		Metadata: h.metadata,
		Text:     textproc.NewProcessor(h.model, 0, log),
		Progress: h.progress,
		Out:      h.out,
		Log:      log,
	}
	return h
}

func (h *harness) video(id, title string) {
	h.metadata.On("Fetch", mock.Anything, id).Return(types.VideoRecord{ID: id, Title: title, Views: "10"}, nil)
}

func (h *harness) errorLogs() []string {
	var msgs []string
	for _, e := range h.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func TestTranscriptRunSkipsVideosWithoutTranscript(t *testing.T) {
	h := newHarness()
	h.searcher.On("Search", mock.Anything, "test", 2).
		Return([]types.SearchHit{{VideoID: "a"}, {VideoID: "b"}}, nil)
	h.video("a", "Alpha")
	h.video("b", "Beta")
	h.transcripts.On("Fetch", mock.Anything, "a").Return("hello world", nil)
	h.transcripts.On("Fetch", mock.Anything, "b").Return("", yterrors.ErrNoTranscript)
	h.model.On("Invoke", mock.Anything, prefixed("edit the following")).Return("Hello world.", nil)
	h.model.On("Invoke", mock.Anything, prefixed("please give me a summary")).Return(" Greeting. ", nil)

	p := NewTranscriptProcessor(h.deps, h.transcripts)
	rows, stats, err := p.Run(context.Background(), "test", 2, false)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Video.ID)
	assert.Equal(t, "Hello world.", rows[0].EditedTranscript)
	assert.Equal(t, "Greeting.", rows[0].Summary)
	assert.Equal(t, aggregator.Stats{Processed: 1, Skipped: 1}, stats)
	assert.Equal(t, [][2]int{{1, 2}}, h.progress.calls)
	assert.Empty(t, h.errorLogs())

	assert.Contains(t, h.out.String(), "URL: https://www.youtube.com/watch?v=a")
	assert.Contains(t, h.out.String(), "Transcript Summary: Greeting.")
	assert.NotContains(t, h.out.String(), "watch?v=b")
	h.model.AssertNumberOfCalls(t, "Invoke", 2)
}

func TestTranscriptRunIncludesVideosWithoutTranscript(t *testing.T) {
	h := newHarness()
	h.searcher.On("Search", mock.Anything, "q", 3).
		Return([]types.SearchHit{{VideoID: "a"}, {VideoID: "b"}, {VideoID: "a"}, {VideoID: "c"}}, nil)
	h.video("a", "Alpha")
	h.video("b", "Beta")
	h.video("c", "Gamma")
	h.transcripts.On("Fetch", mock.Anything, "a").Return("one", nil)
	h.transcripts.On("Fetch", mock.Anything, "b").Return("", errors.New("connection reset"))
	h.transcripts.On("Fetch", mock.Anything, "c").Return("three", nil)
	h.model.On("Invoke", mock.Anything, mock.Anything).Return("ok", nil)

	p := NewTranscriptProcessor(h.deps, h.transcripts)
	rows, stats, err := p.Run(context.Background(), "q", 3, true)
	require.NoError(t, err)

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Video.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, textproc.SentinelTranscript, rows[1].EditedTranscript)
	assert.Equal(t, textproc.SentinelSummary, rows[1].Summary)
	assert.Equal(t, aggregator.Stats{Processed: 3, Degraded: 1}, stats)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, h.progress.calls)
	assert.Equal(t, []string{"transcript fetch failed"}, h.errorLogs())
	h.model.AssertNumberOfCalls(t, "Invoke", 4)
	h.transcripts.AssertNumberOfCalls(t, "Fetch", 3)
}

func TestTranscriptRunMetadataFailure(t *testing.T) {
	h := newHarness()
	h.searcher.On("Search", mock.Anything, "q", 1).Return([]types.SearchHit{{VideoID: "x"}}, nil)
	h.metadata.On("Fetch", mock.Anything, "x").Return(types.VideoRecord{}, yterrors.ErrVideoNotFound)
	h.transcripts.On("Fetch", mock.Anything, "x").Return("text", nil)
	h.model.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("model down"))

	p := NewTranscriptProcessor(h.deps, h.transcripts)
	rows, stats, err := p.Run(context.Background(), "q", 1, false)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, types.VideoRecord{ID: "x"}, rows[0].Video)
	assert.Equal(t, []any{"", "x", "https://www.youtube.com/watch?v=x", "", "", "",
		textproc.SentinelTranscript, textproc.SentinelSummary}, TranscriptCells(rows)[0])
	assert.Equal(t, 1, stats.Degraded)
}

func TestTranscriptRunSearchFailure(t *testing.T) {
	h := newHarness()
	h.searcher.On("Search", mock.Anything, "q", 5).Return(nil, errors.New("blocked"))

	p := NewTranscriptProcessor(h.deps, h.transcripts)
	rows, stats, err := p.Run(context.Background(), "q", 5, true)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, aggregator.Stats{}, stats)
	assert.Equal(t, []string{"search failed"}, h.errorLogs())
	assert.Empty(t, h.progress.calls)
}

func TestTranscriptRunInvalidCount(t *testing.T) {
	h := newHarness()
	p := NewTranscriptProcessor(h.deps, h.transcripts)

	_, _, err := p.Run(context.Background(), "q", -1, true)
	assert.ErrorIs(t, err, yterrors.ErrInvalidCount)
	h.searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestTranscriptRunZeroCount(t *testing.T) {
	h := newHarness()
	p := NewTranscriptProcessor(h.deps, h.transcripts)

	rows, _, err := p.Run(context.Background(), "q", 0, true)
	require.NoError(t, err)
	assert.Empty(t, rows)
	h.searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentRun(t *testing.T) {
	h := newHarness()
	h.searcher.On("Search", mock.Anything, "cats", 20).
		Return([]types.SearchHit{{VideoID: "a"}, {VideoID: "b"}}, nil)
	h.video("a", "Alpha")
	h.video("b", "Beta")
	h.comments.On("Fetch", mock.Anything, "a").Return([]string{"great", " nice "}, nil)
	h.comments.On("Fetch", mock.Anything, "b").Return(nil, yterrors.ErrCommentsDisabled)
	h.model.On("Invoke", mock.Anything, "Please summarize the following YouTube comments in 3-4 sentences:\ngreat\n nice ").
		Return("People liked it.", nil)
	h.model.On("Invoke", mock.Anything, "Please provide a concise summary of the following text in 2-3 sentences:\nPeople liked it.").
		Return(map[string]any{"text": "Liked."}, nil)

	p := NewCommentProcessor(h.deps, h.comments)
	rows, stats, err := p.Run(context.Background(), "cats", 20)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Liked.", rows[0].Summary)
	assert.Empty(t, rows[1].Comments)
	assert.Equal(t, textproc.SentinelSummary, rows[1].Summary)
	assert.Equal(t, aggregator.Stats{Processed: 2, Degraded: 1}, stats)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, h.progress.calls)
	assert.Empty(t, h.errorLogs())

	cells := CommentCells(rows)
	require.Len(t, cells, 4)
	assert.Equal(t, []any{"a", "Alpha", "https://www.youtube.com/watch?v=a", "Liked.", ""}, cells[0])
	assert.Equal(t, []any{"a", "Alpha", "https://www.youtube.com/watch?v=a", "", "nice"}, cells[2])
	assert.Equal(t, []any{"b", "Beta", "https://www.youtube.com/watch?v=b", textproc.SentinelSummary, ""}, cells[3])

	out := h.out.String()
	assert.Contains(t, out, "Comment 1: great\n")
	assert.Contains(t, out, "Summary: Liked.\n")
	h.model.AssertNumberOfCalls(t, "Invoke", 2)
}

func (h *harness) warnLogs() []string {
	var msgs []string
	for _, e := range h.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func TestTranscriptRunSkippedVideoReportsNoProgress(t *testing.T) {
	h := newHarness()
	h.searcher.On("Search", mock.Anything, "test", 2).
		Return([]types.SearchHit{{VideoID: "a"}, {VideoID: "b"}}, nil)
	h.video("a", "Alpha")
	h.video("b", "Beta")
	h.transcripts.On("Fetch", mock.Anything, "a").Return("", yterrors.ErrNoTranscript)
	h.transcripts.On("Fetch", mock.Anything, "b").Return("words", nil)
	h.model.On("Invoke", mock.Anything, mock.Anything).Return("ok", nil)

	p := NewTranscriptProcessor(h.deps, h.transcripts)
	rows, _, err := p.Run(context.Background(), "test", 2, false)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].Video.ID)
	assert.Equal(t, [][2]int{{2, 2}}, h.progress.calls)
}

func TestTranscriptRunStopsWhenCancelled(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.searcher.On("Search", mock.Anything, "q", 3).
		Return([]types.SearchHit{{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"}}, nil)
	h.video("a", "Alpha")
	h.video("b", "Beta")
	h.transcripts.On("Fetch", mock.Anything, "a").Return("first", nil)
	h.transcripts.On("Fetch", mock.Anything, "b").
		Run(func(mock.Arguments) { cancel() }).
		Return("", context.Canceled)
	h.model.On("Invoke", mock.Anything, mock.Anything).Return("ok", nil)

	p := NewTranscriptProcessor(h.deps, h.transcripts)
	rows, stats, err := p.Run(ctx, "q", 3, true)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Video.ID)
	assert.Equal(t, aggregator.Stats{Processed: 1, Interrupted: true}, stats)
	assert.Equal(t, [][2]int{{1, 3}}, h.progress.calls)
	assert.Equal(t, []string{"run interrupted"}, h.warnLogs())
	assert.NotContains(t, h.out.String(), "watch?v=b")
	h.model.AssertNumberOfCalls(t, "Invoke", 2)
	h.metadata.AssertNotCalled(t, "Fetch", mock.Anything, "c")
}

func TestCommentRunStopsWhenCancelled(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.searcher.On("Search", mock.Anything, "cats", 3).
		Return([]types.SearchHit{{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"}}, nil)
	h.metadata.On("Fetch", mock.Anything, "a").
		Run(func(mock.Arguments) { cancel() }).
		Return(types.VideoRecord{}, context.Canceled)
	h.comments.On("Fetch", mock.Anything, "a").Return(nil, context.Canceled)

	p := NewCommentProcessor(h.deps, h.comments)
	rows, stats, err := p.Run(ctx, "cats", 3)
	require.NoError(t, err)

	assert.Empty(t, rows)
	assert.Empty(t, CommentCells(rows))
	assert.Equal(t, aggregator.Stats{Interrupted: true}, stats)
	assert.Empty(t, h.progress.calls)
	assert.Equal(t, []string{"run interrupted"}, h.warnLogs())
	h.metadata.AssertNotCalled(t, "Fetch", mock.Anything, "b")
	h.comments.AssertNotCalled(t, "Fetch", mock.Anything, "c")
	h.model.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}
