package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	ytapi "google.golang.org/api/youtube/v3"

	"yt-insights-go/internal/config"
	"yt-insights-go/internal/llm"
	"yt-insights-go/internal/processor"
	"yt-insights-go/internal/progress"
	"yt-insights-go/internal/sheet"
	"yt-insights-go/internal/textproc"
	"yt-insights-go/internal/youtube"
)

// App holds the collaborators built from configuration for one run.
type App struct {
	Deps     processor.Deps
	HTTP     *http.Client
	YouTube  *ytapi.Service // nil without YOUTUBE_API_KEY
	Progress *progress.Reporter
	log      logrus.FieldLogger
}

// New wires search, metadata, model and progress. out receives the per-video
// details; barOut, when set, receives a console progress bar.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger, out, barOut io.Writer) (*App, error) {
	a := &App{
		HTTP: &http.Client{Timeout: cfg.HTTPTimeout},
		log:  log,
	}

	if cfg.YouTubeAPIKey != "" {
		svc, err := youtube.NewService(ctx, cfg.YouTubeAPIKey, cfg.HTTPTimeout, "")
		if err != nil {
			return nil, err
		}
		a.YouTube = svc
	}

	var searcher youtube.Searcher
	switch cfg.SearchBackend {
	case config.SearchAPI:
		if a.YouTube == nil {
			return nil, fmt.Errorf("search backend %q requires an API key", cfg.SearchBackend)
		}
		searcher = youtube.NewAPISearcher(a.YouTube)
	default:
		searcher = youtube.NewScrapeSearcher(a.HTTP, log)
	}

	var metadata youtube.MetadataFetcher = youtube.NewPageMetadata(a.HTTP)
	if a.YouTube != nil {
		metadata = youtube.NewAPIMetadata(a.YouTube)
	}

	llmClient := &http.Client{Timeout: cfg.LLMTimeout}
	model, err := llm.New(cfg, llmClient, log)
	if err != nil {
		return nil, err
	}
	if cfg.OllamaEnsureModel && !cfg.UseMockLLM && cfg.LLMProvider == config.ProviderOllama {
		if err := llm.EnsureModel(ctx, llmClient, cfg.OllamaHost, cfg.OllamaModel, cfg.LLMTimeout, log); err != nil {
			return nil, err
		}
	}

	a.Progress = progress.New(log, barOut)
	a.Deps = processor.Deps{
		Searcher: searcher,
		Metadata: metadata,
		Text:     textproc.NewProcessor(model, cfg.CommentChunkSize, log),
		Progress: a.Progress,
		Out:      out,
		Log:      log,
	}

	log.WithFields(logrus.Fields{
		"search_backend": cfg.SearchBackend,
		"metadata":       fmt.Sprintf("%T", metadata),
		"llm":            fmt.Sprintf("%T", model),
	}).Info("pipeline configured")
	return a, nil
}

// Save appends rows to the workbook. Failures are logged, never retried.
func (a *App) Save(w sheet.Writer, rows [][]any) bool {
	a.Progress.Finish()
	if err := w.Append(rows); err != nil {
		a.log.WithFields(logrus.Fields{
			"path":  w.Path,
			"error": err.Error(),
		}).Error("error saving data to Excel")
		return false
	}
	fields := logrus.Fields{"path": w.Path, "rows": len(rows)}
	if name, err := sheet.ActiveSheet(w.Path); err == nil {
		fields["sheet"] = name
	}
	a.log.WithFields(fields).Info("data saved")
	return true
}
