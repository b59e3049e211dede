package main

import (
	"context"
	"fmt"

	"exegesis/internal/artifact"
	"exegesis/internal/config"
	"exegesis/internal/export"
	"exegesis/internal/generator"
	"exegesis/internal/history"
	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg       *config.Config
	history   *history.Log
	service   *study.Service
	exports   *export.Registry
	publisher artifact.Publisher
}

type appOptions struct {
	model     bool // commands that generate need the Gemini client
	publisher bool
}

// newApp wires the configured backends. History problems degrade to an
// in-memory log; a missing API key or a broken artifact store are errors.
func newApp(ctx context.Context, cfg *config.Config, o appOptions) (*app, error) {
	a := &app{cfg: cfg}

	store, err := history.NewStore(ctx, cfg.HistoryOptions())
	if err != nil {
		logging.HistoryWarn("history backend %s unavailable, keeping history in memory: %v", cfg.History.Backend, err)
		store = history.NewMemoryStore()
	}
	a.history = history.Open(ctx, store, cfg.History.Limit)

	var fetcher study.Fetcher = unavailableFetcher{}
	if o.model {
		if err := cfg.RequireAPIKey(); err != nil {
			a.Close()
			return nil, err
		}
		model, err := generator.NewGenAIModel(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			a.Close()
			return nil, err
		}
		fetcher = generator.NewClient(model, generator.NewRetrier(cfg.RetryConfig()))
		logging.Boot("using %s, %d attempts", model.Name(), cfg.LLM.MaxAttempts)
	}
	a.service = study.NewService(fetcher, a.history)

	a.exports = export.NewRegistry(&export.ChromeRenderer{Bin: cfg.Export.ChromeBin})

	if o.publisher && cfg.Artifact.Enabled {
		pub, err := artifact.NewMinioStore(ctx, artifact.Options{
			Endpoint:   cfg.Artifact.Endpoint,
			AccessKey:  cfg.Artifact.AccessKey,
			SecretKey:  cfg.Artifact.SecretKey,
			Bucket:     cfg.Artifact.Bucket,
			UseSSL:     cfg.Artifact.UseSSL,
			LinkExpiry: cfg.GetLinkExpiry(),
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		a.publisher = pub
	}

	return a, nil
}

// Close releases the history backend.
func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			logging.HistoryWarn("closing history: %v", err)
		}
	}
}

// unavailableFetcher backs the service for commands that never generate.
type unavailableFetcher struct{}

func (unavailableFetcher) Fetch(context.Context, study.Prompt) (*study.Document, error) {
	return nil, fmt.Errorf("generation is not available in this command")
}
