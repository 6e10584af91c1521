package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/resourceboard/backend/internal/ai"
	"github.com/resourceboard/backend/internal/config"
	"github.com/resourceboard/backend/internal/db"
	httpapi "github.com/resourceboard/backend/internal/http"
	"github.com/resourceboard/backend/internal/jobs"
	"github.com/resourceboard/backend/internal/schedule"
	"github.com/resourceboard/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "resourceboard-backend").Logger()

	ctx := context.Background()

	var source db.Source
	if cfg.DatabaseURL == "" {
		source = db.NewFixture(time.Now())
		logger.Info().Msg("no DATABASE_URL set, using fixture data")
	} else {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()
		source = store
	}

	var summarizer ai.Summarizer
	if cfg.SummarizerBaseURL == "" {
		summarizer = ai.MockSummarizer{ModelVersion: "mock-v1"}
		logger.Info().Msg("using mock summarizer")
	} else {
		summarizer = ai.OpenAICompatSummarizer{
			BaseURL:   cfg.SummarizerBaseURL,
			Model:     cfg.SummarizerModel,
			APIKey:    cfg.SummarizerKey,
			MaxTokens: cfg.SummarizerTokens,
		}
	}

	banner := schedule.NewBanner(cfg.WarnRearmOnChange)
	board := service.NewBoardService(source, logger, cfg.TicketFetchLimit, banner)
	if err := board.Refresh(ctx); err != nil {
		logger.Error().Err(err).Msg("initial board load failed")
	}

	refresher, err := jobs.NewRefresher(board, cfg.RefreshSpec, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid refresh spec")
	}
	refresher.Start()
	defer refresher.Stop()

	router := httpapi.Router(cfg, board, source, summarizer, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
