package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/healthdesk/internal/app"
	"github.com/five82/healthdesk/internal/logging"
	"github.com/five82/healthdesk/internal/mockapi"
)

// Version is set at build time.
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "healthdesk: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := app.Options{Version: Version}

	cmd := &cobra.Command{
		Use:   "healthdesk",
		Short: "Terminal console for school health records",
		Long: `healthdesk browses students, visits, medications, vaccinations, inventory
and users from the records API. Every table view has a location such as
"students?page=3&limit=20" that can be reopened with --open or the : prompt.`,
		Example: `  # Open the saved location
  healthdesk

  # Open a specific page
  healthdesk --open "medications?status=active&sort=expiry"

  # Serve demo data locally, then point the console at it
  healthdesk mock-api --latency 150ms --jitter 400ms`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file (default: ~/.config/healthdesk/config.toml)")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default: ~/.config/healthdesk/prefs.toml)")
	cmd.Flags().StringVar(&opts.Open, "open", "", `location to open, e.g. "students?page=2"`)
	cmd.Flags().IntVar(&opts.PollEvery, "poll", 0, "status refresh interval in seconds (default from config)")

	cmd.AddCommand(newMockAPICmd())
	return cmd
}

type mockAPIOptions struct {
	Addr     string
	Latency  time.Duration
	Jitter   time.Duration
	FailRate float64
	Seed     uint64
	LogLevel string
}

func newMockAPICmd() *cobra.Command {
	opts := &mockAPIOptions{}

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve generated records for local use",
		Long: `Serve deterministic demo records over the same HTTP API the console reads.
Latency and jitter make responses arrive out of order; fail-rate answers a
share of list requests with 503 to exercise the retry path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMockAPI(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:7490", "listen address")
	cmd.Flags().DurationVar(&opts.Latency, "latency", 0, "fixed delay added to list responses")
	cmd.Flags().DurationVar(&opts.Jitter, "jitter", 0, "random extra delay up to this value")
	cmd.Flags().Float64Var(&opts.FailRate, "fail-rate", 0, "share of list requests answered with 503 (0-1)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "fixture seed")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")

	return cmd
}

func runMockAPI(ctx context.Context, opts *mockAPIOptions) error {
	if opts.FailRate < 0 || opts.FailRate > 1 {
		return fmt.Errorf("--fail-rate must be between 0 and 1, got %v", opts.FailRate)
	}
	if opts.Latency < 0 || opts.Jitter < 0 {
		return fmt.Errorf("--latency and --jitter must not be negative")
	}

	logger, closer, err := logging.New(logging.Options{
		Level:   opts.LogLevel,
		Service: "healthdesk-mock",
		Version: Version,
		Console: true,
		Writer:  os.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	srv := mockapi.New(mockapi.Config{
		Addr:     opts.Addr,
		Latency:  opts.Latency,
		Jitter:   opts.Jitter,
		FailRate: opts.FailRate,
		Seed:     opts.Seed,
		Logger:   &logger,
	})
	return srv.Serve(ctx)
}
