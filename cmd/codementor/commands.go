package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	httpapi "github.com/tbourn/go-codementor-backend/internal/http"
	"github.com/tbourn/go-codementor-backend/internal/config"
	"github.com/tbourn/go-codementor-backend/internal/llm"
	"github.com/tbourn/go-codementor-backend/internal/observability"
	"github.com/tbourn/go-codementor-backend/internal/repo"
	"github.com/tbourn/go-codementor-backend/internal/sysutil"
)

const shutdownTimeout = 10 * time.Second

var (
	envFile  string
	seedFile string

	// cfg is populated by the root command before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codementor",
	Short: "AI-assisted coding mentor API",
	Long: `codementor serves the code review, roadmap, hint and debugging
endpoints backed by an OpenAI-compatible completion service.

Configuration is read from the environment; a .env file is loaded first
when present. Running without a subcommand starts the server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB(db)
		log.Info().Str("driver", cfg.Database.Driver).Msg("schema migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users and problems from a YAML fixture",
	Long: `seed upserts the users and problems listed in a YAML file.
API keys in the file are stored hashed. The file defaults to $SEED_FILE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := sysutil.FirstNonEmpty(seedFile, cfg.SeedFile)
		if path == "" {
			return errors.New("no seed file: pass --file or set SEED_FILE")
		}
		s, err := repo.LoadSeed(path)
		if err != nil {
			return err
		}

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := repo.ApplySeed(cmd.Context(), db, s); err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
		log.Info().
			Str("file", path).
			Int("users", len(s.Users)).
			Int("problems", len(s.Problems)).
			Msg("seed applied")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file (defaults to $SEED_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// setup loads the dotenv file, reads configuration and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg = loaded
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	return nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// openDB opens the configured database and brings the schema up to date.
func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			return fmt.Errorf("gorm tracing: %w", err)
		}
	}
	if cfg.SeedFile != "" {
		s, err := repo.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		if err := repo.ApplySeed(ctx, db, s); err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
	}

	completer := llm.New(cfg.Completion)
	if !completer.Configured() {
		log.Warn().Msg("OPENAI_API_KEY is not set; assistance endpoints will report the AI service as not configured")
	}

	srv := newServer(cfg, db, completer)
	return serve(ctx, srv)
}

// newServer builds the HTTP server with the configured timeouts.
func newServer(cfg config.Config, db *gorm.DB, completer llm.Completer) *http.Server {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, completer, cfg)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
