package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/beatreach/beatreach/internal/agent"
	"github.com/beatreach/beatreach/internal/api"
	"github.com/beatreach/beatreach/internal/catalog"
	"github.com/beatreach/beatreach/internal/config"
	"github.com/beatreach/beatreach/internal/oracle"
	"github.com/beatreach/beatreach/internal/signup"
	"github.com/beatreach/beatreach/internal/songs"
	"github.com/beatreach/beatreach/internal/store"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "beatreach",
	Short: "BeatReach - TikTok influencer campaign builder",
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(campaignsCmd)
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded")

	// 3. Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	// 4. Initialize store (migrations, WAL mode)
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	// 5. Seed the candidate catalog on first start
	if count, err := db.CountInfluencers(ctx); err != nil {
		return err
	} else if count == 0 {
		inserted, err := db.SeedInfluencers(ctx, catalog.Seed())
		if err != nil {
			return err
		}
		slog.Info("catalog seeded", "inserted", inserted)
	}

	// 6. Initialize oracle and conversation controller
	oracleClient := oracle.NewOpenAI(cfg.Oracle.APIKey, cfg.Oracle.Model)
	controller := agent.New(oracleClient, catalog.NewStoreBacked(db))
	slog.Info("oracle initialized", "model", cfg.Oracle.Model)

	// 7. External collaborators
	songClient := songs.NewClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	signupClient := signup.NewClient(cfg.Signup.BaseURL, cfg.Signup.Version)

	// 8. Initialize HTTP router
	handler := api.NewHandler(db, controller, songClient, signupClient,
		cfg.Auth.APIKey, Version, cfg.Oracle.Model)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 9. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 10. Worker lifecycle infrastructure. There are no background workers
	// today; new ones plug in via startWorker.
	var wg sync.WaitGroup

	// 11. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel() // Trigger shutdown on server failure
		}
	}()

	// 12. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 13. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 13a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 13b. Wait for workers to complete
	wg.Wait()

	// 13c. Close store
	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
