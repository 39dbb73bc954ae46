// Package cli implements the vibeconnect operator command line.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"vibeconnect/internal/cache"
	"vibeconnect/internal/config"
	"vibeconnect/internal/middleware"
	"vibeconnect/internal/observability"
	"vibeconnect/internal/store"

	"github.com/spf13/cobra"
)

var version = "dev"

// globalFlags override values loaded from config files and the environment.
type globalFlags struct {
	user       uint
	driver     string
	sqlitePath string
	redisURL   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "vibeconnect",
		Short:         "Connection requests and the notification inbox",
		Long:          "vibeconnect sends, lists and resolves connection requests and runs a live notification inbox in the terminal.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			routeLogs(cmd.ErrOrStderr())
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.UintVar(&flags.user, "user", 0, "Acting user ID")
	pf.StringVar(&flags.driver, "driver", "", "Entity store driver (postgres, sqlite, mongo)")
	pf.StringVar(&flags.sqlitePath, "sqlite-path", "", "SQLite database file when --driver=sqlite")
	pf.StringVar(&flags.redisURL, "redis", "", "Redis address for the profile cache; empty disables it")

	cmd.AddCommand(newInboxCmd(flags))
	cmd.AddCommand(newRequestCmd(flags))
	cmd.AddCommand(newSeedCmd(flags))
	cmd.AddCommand(newMigrateCmd(flags))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("driver") {
		cfg.DBDriver = flags.driver
	}
	if pf.Changed("sqlite-path") {
		cfg.SQLitePath = flags.sqlitePath
	}
	if pf.Changed("redis") {
		cfg.RedisURL = flags.redisURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// routeLogs sends every structured log record to w so stdout carries only
// command output.
func routeLogs(w io.Writer) {
	w = &lockedWriter{w: w}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if os.Getenv("APP_ENV") == "production" {
		handler = slog.NewJSONHandler(w, opts)
	}
	middleware.SetLogger(handler)
	observability.SetLogger(middleware.Logger)
}

// openStores connects the cache and the configured backend.
func openStores(ctx context.Context, cfg *config.Config) (*store.Stores, error) {
	cache.InitRedis(cfg.RedisURL)
	return store.Open(ctx, cfg)
}

func requireUser(flags *globalFlags) (uint, error) {
	if flags.user == 0 {
		return 0, errors.New("--user is required")
	}
	return flags.user, nil
}

// lockedWriter serializes writes from the poller goroutine and the command loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
