package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/internal/seed"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"github.com/richxcame/restaurant-backoffice/pkg/database"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/secrets"
	"github.com/richxcame/restaurant-backoffice/pkg/tracing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "backoffice"

var (
	Version = "dev"
	Commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          serviceName,
		Version:      fmt.Sprintf("%s (%s)", Version, Commit),
		Short:        "Restaurant back-office API",
		Long:         "Receipt verification, review insights, reservations and response templates for restaurant staff.",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

// loadConfig reads configuration, initializes the global logger and
// resolves credentials held in the secrets backend
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if Version != "dev" {
		cfg.Server.Version = Version
	}
	if err := logger.Init(cfg.Server.Environment, cfg.Server.LogLevel, serviceName); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := secrets.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("resolve secrets: %w", err)
	}
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + cfg.Server.Version,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, serviceName, cfg.Server.Version, cfg.Server.Environment)
	if err != nil {
		logger.Warn("Failed to initialize tracing", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Seed.DemoData {
		if err := seedDemo(ctx, a.repos); err != nil {
			return err
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(a),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Backoffice service starting",
			zap.String("port", cfg.Server.Port),
			zap.String("version", cfg.Server.Version),
			zap.String("db_driver", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.Database.Driver == "memory" {
				return errors.New("DB_DRIVER=memory has no schema to migrate")
			}

			db, err := database.Open(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data into empty collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.Database.Driver == "memory" {
				return errors.New("DB_DRIVER=memory does not persist, set SEED_DEMO_DATA=true on serve instead")
			}

			ds, err := loadDataset(file)
			if err != nil {
				return err
			}

			db, repos, err := openRepositories(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			summary, err := seed.Seed(cmd.Context(), repos, ds, time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d receipts, %d reviews, %d reservations, %d templates\n",
				summary.Receipts, summary.Reviews, summary.Reservations, summary.Templates)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (defaults to the built-in demo data)")
	return cmd
}

func loadDataset(file string) (*seed.Dataset, error) {
	if file == "" {
		return seed.Demo()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return seed.Parse(data)
}

func seedDemo(ctx context.Context, repos seed.Repositories) error {
	ds, err := seed.Demo()
	if err != nil {
		return err
	}
	_, err = seed.Seed(ctx, repos, ds, time.Now().UTC())
	return err
}
