package textproc

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"yt-insights-go/internal/llm"
)

const DefaultChunkSize = 2000

// Processor turns fetched text into edited text and summaries. Model failures
// never propagate: they are logged and become degraded results.
type Processor struct {
	model     llm.Model
	chunkSize int
	log       logrus.FieldLogger
}

func NewProcessor(model llm.Model, chunkSize int, log logrus.FieldLogger) *Processor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Processor{
		model:     model,
		chunkSize: chunkSize,
		log:       log.WithField("module", "textproc"),
	}
}

// Edit fixes punctuation and capitalization of a raw transcript.
func (p *Processor) Edit(ctx context.Context, transcript string) Result {
	if transcript == "" {
		return Degraded(SentinelTranscript, "empty transcript")
	}
	prompt := fmt.Sprintf("edit the following video transcript with proper punctuation and capitalization:\n\"%s\"", transcript)
	return p.call(ctx, prompt, SentinelTranscript, "edit")
}

// Summarize returns a short natural-language summary of text.
func (p *Processor) Summarize(ctx context.Context, text string) Result {
	if text == "" {
		return Degraded(SentinelSummary, "empty text")
	}
	prompt := fmt.Sprintf("please give me a summary of the following text:\n\"%s\"", text)
	return p.call(ctx, prompt, SentinelSummary, "summarize")
}

// SummarizeComments summarizes each fixed-size chunk of the joined comments
// and then summarizes the concatenated chunk summaries.
func (p *Processor) SummarizeComments(ctx context.Context, comments []string) Result {
	if len(comments) == 0 {
		return Degraded(SentinelSummary, "no comments")
	}

	chunks := Chunk(strings.Join(comments, "\n"), p.chunkSize)
	summaries := make([]string, 0, len(chunks))
	var reasons []string
	for i, chunk := range chunks {
		res := p.call(ctx, "Please summarize the following YouTube comments in 3-4 sentences:\n"+chunk,
			SentinelSummary, fmt.Sprintf("chunk %d/%d", i+1, len(chunks)))
		if res.Degraded {
			reasons = append(reasons, res.Reason)
		}
		summaries = append(summaries, res.Text)
	}

	final := p.call(ctx, "Please provide a concise summary of the following text in 2-3 sentences:\n"+strings.Join(summaries, " "),
		SentinelSummary, "final summary")
	if final.Degraded {
		reasons = append(reasons, final.Reason)
	}
	if len(reasons) > 0 {
		final.Degraded = true
		final.Reason = strings.Join(reasons, "; ")
	}
	return final
}

func (p *Processor) call(ctx context.Context, prompt, sentinel, stage string) Result {
	log := p.log.WithField("stage", stage)

	resp, err := p.model.Invoke(ctx, prompt)
	if err != nil {
		log.WithField("error", err.Error()).Error("llm call failed")
		return Degraded(sentinel, fmt.Sprintf("%s: %v", stage, err))
	}
	text, ok := llm.Text(resp)
	if !ok {
		log.WithField("response_type", fmt.Sprintf("%T", resp)).Warn("unexpected llm response shape")
		return Degraded(sentinel, stage+": unexpected response shape")
	}
	log.Debugf("LLM response: %s", text)
	return OK(text)
}
