package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/careergate/internal/config"
	"github.com/jonathan/careergate/internal/server"
	"github.com/jonathan/careergate/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes compatibility, roadmap, profile and job endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveMigrate {
		if err := a.db.Migrate(ctx); err != nil {
			return err
		}
	}

	srv, err := server.New(server.Config{Port: cfg.Port}, server.Deps{
		Profiles:      a.db,
		Jobs:          a.db,
		Compatibility: a.compatibility,
		Roadmaps:      a.roadmaps,
		Tokens:        server.NewJWTService(jwtConfig).AsTokenValidator(),
		RateLimiter:   ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:        logger,
		Health:        a.health,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

// contextOrBackground returns the command context, which is nil when a
// command runs outside Execute (as in tests).
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
