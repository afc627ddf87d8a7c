package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/monitoring"
	"github.com/banshee-data/l1track/internal/storage/sqlite"
	"github.com/banshee-data/l1track/internal/version"
)

const longHelp = `l1track runs the stub-processing stage of the L1 track trigger:
overlap removal of duplicate stubs within each phi sector, followed by
digitization of the surviving stubs into firmware words.

Events are read from JSON files of the form
  {"events": [{"event_id": 1, "truth": [...], "stubs": [...]}]}`

var exampleUsage = strings.TrimSpace(`
  l1track filter events.json --mode pairFinder -o filtered.json
  l1track digitize events.json --config settings.toml --db runs.db
  l1track validate events.json --plots plots/ --html report.html
  l1track migrate version --db runs.db
`)

// app holds state shared by the subcommands of one invocation.
type app struct {
	out io.Writer
	log zerolog.Logger

	configPath  string
	logLevel    string
	metricsAddr string
	dbPath      string

	settings      *config.Settings
	metricsServer *http.Server
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "l1track",
		Short:         "Remove overlapping stubs and digitize them for the track-finding firmware",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			a.stopMetrics()
			return nil
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings file (.json or .toml); defaults apply when empty")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flags.StringVar(&a.dbPath, "db", "", "SQLite run store; runs are recorded when set")

	root.AddCommand(
		a.newFilterCmd(),
		a.newDigitizeCmd(),
		a.newValidateCmd(),
		a.newMigrateCmd(),
		a.newRunsCmd(),
		a.newVersionCmd(),
	)

	return root
}

func (a *app) setup() error {
	level, err := zerolog.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	a.log = monitoring.NewConsoleLogger(level)
	monitoring.UseZerolog(a.log)

	a.settings = config.EmptySettings()
	if a.configPath != "" {
		s, err := config.LoadSettings(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.settings = s
	}

	if a.metricsAddr != "" {
		a.startMetrics()
	}
	return nil
}

func (a *app) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.metricsServer = &http.Server{
		Addr:              a.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Str("addr", a.metricsAddr).Msg("metrics server failed")
		}
	}()
	a.log.Info().Str("addr", a.metricsAddr).Msg("serving metrics")
}

func (a *app) stopMetrics() {
	if a.metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		a.log.Warn().Err(err).Msg("metrics server shutdown")
		a.metricsServer.Close()
	}
	a.metricsServer = nil
}

// openDB opens and migrates the run store, or returns nil when --db is unset.
func (a *app) openDB(ctx context.Context) (*sqlite.DB, error) {
	if a.dbPath == "" {
		return nil, nil
	}
	db, err := sqlite.Open(ctx, a.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return db, nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.out, version.String())
			return err
		},
	}
}
