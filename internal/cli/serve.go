package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hearing/internal/adapter/cache"
	"hearing/internal/api"
	"hearing/internal/port"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve transcript analysis over HTTP.

Endpoints:
  GET    /health         liveness check
  POST   /api/analyze    analyze an uploaded transcript (multipart "file" or raw body with ?format=)
  GET    /api/patterns   show the speaker patterns
  DELETE /api/cache      drop cached reports`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()
	cmd.SilenceUsage = true

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	warnNoTitles(log, cfg.Titles)

	tokenizers := func(titles []string) port.Tokenizer { return newTokenizer(cfg, titles) }
	reports := cache.NewReportCache(cfg.Server.CacheSize, cfg.Server.CacheTTL)
	srv := api.NewServer(newLoader(cfg, log), tokenizers, reports, api.Options{
		Titles:         cfg.Titles,
		Analyze:        analyzeOptions(cfg),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting hearing api", "addr", cfg.Server.Addr, "tokenizer", cfg.Tokenizer.Provider, "titles", len(cfg.Titles))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
