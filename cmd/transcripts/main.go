package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"yt-insights-go/internal/app"
	"yt-insights-go/internal/cli"
	"yt-insights-go/internal/config"
	"yt-insights-go/internal/logger"
	"yt-insights-go/internal/processor"
	"yt-insights-go/internal/sheet"
	"yt-insights-go/internal/transcription"
	"yt-insights-go/internal/types"
)

func main() {
	_ = godotenv.Load() // loads .env

	cfg, err := config.Load(os.Getenv)
	base := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	if err != nil {
		base.WithError(err).Fatal("invalid configuration")
	}
	if err := cfg.Validate(); err != nil {
		base.WithError(err).Fatal("invalid configuration")
	}
	log := base.WithRun("transcripts")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var barOut io.Writer
	if cfg.ProgressBar {
		barOut = os.Stderr
	}
	a, err := app.New(ctx, cfg, log, os.Stdout, barOut)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to set up pipeline")
	}

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	query, err := prompter.Query()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to read search query")
	}
	count, err := prompter.Count()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to read video count")
	}
	include, err := prompter.IncludeWithoutTranscript()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to read transcript preference")
	}

	p := processor.NewTranscriptProcessor(a.Deps, transcription.New(a.HTTP, cfg.TranscriptLangs, log))
	rows, stats, err := p.Run(ctx, query, count, include)
	// a second interrupt while saving kills the process
	stop()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("run failed")
	}
	log.WithFields(stats.Fields()).Info("run complete")

	a.Save(sheet.Writer{Path: cfg.TranscriptOutput, Header: types.TranscriptHeader}, processor.TranscriptCells(rows))
}
