package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/w-h-a/validated-content/embedder"
	googleembedder "github.com/w-h-a/validated-content/embedder/google"
	openaiembedder "github.com/w-h-a/validated-content/embedder/openai"
	"github.com/w-h-a/validated-content/internal/config"
	contenthandler "github.com/w-h-a/validated-content/internal/handler/content"
	"github.com/w-h-a/validated-content/internal/service/content"
	"github.com/w-h-a/validated-content/server"
	httpserver "github.com/w-h-a/validated-content/server/http"
	"github.com/w-h-a/validated-content/storer"
	"github.com/w-h-a/validated-content/storer/memory"
	"github.com/w-h-a/validated-content/storer/postgres"
	"github.com/w-h-a/validated-content/storer/sqlite"
	"github.com/w-h-a/validated-content/storer/supabase"
)

var (
	cfg struct {
		Config kong.ConfigFlag `help:"Optional YAML file with flag values"`

		// Server config
		Name     string   `help:"Service name used in traces and logs" default:"validated-content"`
		Address  string   `help:"Address the HTTP server listens on" default:":8000" env:"ADDRESS"`
		Origins  []string `help:"Origins allowed by CORS" default:"https://chatgpt.com,https://chat.openai.com" env:"CORS_ORIGINS"`
		LogLevel string   `help:"Log level (debug, info, warn, error)" default:"info" env:"LOG_LEVEL"`

		// Embedder config
		Embedder    string `help:"Embedding provider" enum:"openai,google" default:"openai" env:"EMBEDDER"`
		EmbedderKey string `help:"API Key for the embedder" default:"" env:"OPENAI_API_KEY,GOOGLE_API_KEY"`
		EmbedderUrl string `help:"Optional base URL for an OpenAI-compatible embedder" default:"" env:"OPENAI_BASE_URL"`
		Model       string `help:"Model identifier for embeddings" default:"text-embedding-3-small" env:"EMBEDDING_MODEL"`

		// Storer config
		Store      string  `help:"Content store" enum:"supabase,postgres,sqlite,memory" default:"supabase" env:"STORE"`
		StoreUrl   string  `help:"Address of the content store" default:"" env:"SUPABASE_URL,DATABASE_URL"`
		StoreKey   string  `help:"API Key for the content store" default:"" env:"SUPABASE_KEY"`
		Table      string  `help:"Table holding content items" default:"validated_content"`
		Function   string  `help:"Similarity function called for search" default:"match_content"`
		VectorSize int     `help:"Embedding dimensions" default:"1536"`
		Migrate    bool    `help:"Create the table and similarity function on start (postgres)"`
		Threshold  float64 `help:"Results must score above this similarity; 0 keeps every positive match" default:"0.1"`
	}
)

func main() {
	// Load .env when present
	_ = godotenv.Load()

	// Parse inputs
	kctx := kong.Parse(
		&cfg,
		kong.Name("validated-content"),
		kong.Description("HTTP API for validated content with semantic search."),
		kong.Configuration(config.YAML),
	)
	if cfg.Threshold < 0 {
		kctx.Fatalf("--threshold must not be negative, got %v", cfg.Threshold)
	}

	// Set up logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create embedder
	em := newEmbedder(ctx)

	// Create storer
	st := newStorer(ctx)

	// Create service
	svc := content.New(em, st, cfg.Threshold)

	// Create handler
	router := mux.NewRouter()
	contenthandler.NewHandler(svc).Register(router)

	// Create server
	srv := httpserver.NewServer(
		server.WithName(cfg.Name),
		server.WithAddress(cfg.Address),
		httpserver.WithHandler(router),
		httpserver.WithMiddleware(
			httpserver.Recovery(),
			httpserver.CORS(cfg.Origins),
			httpserver.Logging(),
		),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			slog.ErrorContext(shutdownCtx, "failed to stop server", "error", err)
		}
	}
}

func newEmbedder(ctx context.Context) embedder.Embedder {
	switch cfg.Embedder {
	case "google":
		return googleembedder.NewEmbedder(
			embedder.WithContext(ctx),
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.Model),
		)
	default:
		return openaiembedder.NewEmbedder(
			embedder.WithContext(ctx),
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.Model),
			embedder.WithBaseURL(cfg.EmbedderUrl),
		)
	}
}

func newStorer(ctx context.Context) storer.Storer {
	opts := []storer.Option{
		storer.WithContext(ctx),
		storer.WithLocation(cfg.StoreUrl),
		storer.WithApiKey(cfg.StoreKey),
		storer.WithTable(cfg.Table),
		storer.WithFunction(cfg.Function),
		storer.WithVectorSize(cfg.VectorSize),
		storer.WithMigrate(cfg.Migrate),
	}

	switch cfg.Store {
	case "postgres":
		return postgres.NewStorer(opts...)
	case "sqlite":
		if len(cfg.StoreUrl) == 0 {
			opts = append(opts, storer.WithLocation("data/content.db"))
		}
		return sqlite.NewStorer(opts...)
	case "memory":
		return memory.NewStorer(opts...)
	default:
		return supabase.NewStorer(opts...)
	}
}
