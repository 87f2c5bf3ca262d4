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
	"yt-insights-go/internal/types"
	"yt-insights-go/internal/youtube"
)

func main() {
	_ = godotenv.Load() // loads .env

	cfg, err := config.Load(os.Getenv)
	base := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	if err != nil {
		base.WithError(err).Fatal("invalid configuration")
	}
	if err := cfg.ValidateComments(); err != nil {
		base.WithError(err).Fatal("invalid configuration")
	}
	log := base.WithRun("comments")

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

	query, err := cli.NewPrompter(os.Stdin, os.Stdout).Query()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to read search query")
	}

	p := processor.NewCommentProcessor(a.Deps, youtube.NewCommentFetcher(a.YouTube, cfg.MaxComments))
	rows, stats, err := p.Run(ctx, query, cfg.CommentsVideoLimit)
	// a second interrupt while saving kills the process
	stop()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("run failed")
	}
	log.WithFields(stats.Fields()).Info("run complete")

	a.Save(sheet.Writer{Path: cfg.CommentsOutput, Header: types.CommentsHeader, SheetName: "Comments"}, processor.CommentCells(rows))
}
