package main

import (
	"context"
	"os"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/server"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes POST /parse-resume and POST /parse-resume/stream.
Parse results are stored when DATABASE_URL is set, and requests require a
bearer token when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	logger := newLogger(os.Stderr, cfg.Verbose)
	ctx := context.Background()

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	cleaner, closeCleaner, err := newCleaner(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCleaner()

	opts := server.Options{
		Logger:    logger,
		Cleaner:   cleaner,
		JWT:       jwtCfg,
		RateLimit: ratelimit.LoadConfig(),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		opts.Store = database
	} else {
		logger.Info("DATABASE_URL not set, parse results will not be stored")
	}

	srv := server.New(server.Config{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigin:     cfg.CORSOrigin,
	}, opts)
	return srv.Start()
}
