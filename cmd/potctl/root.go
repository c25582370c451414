package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/PotSettle_Go/internal/bootstrap"
	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/logger"
)

const (
	flagPot     = "pot"
	flagDate    = "date"
	flagVerbose = "verbose"
	flagLimit   = "limit"
)

// env is everything a subcommand needs once the store is open
type env struct {
	cfg      *config.Config
	cal      *calendar.Calendar
	storage  *bootstrap.Storage
	services *bootstrap.Services
}

func (e *env) Close() {
	e.storage.Close()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "potctl",
		Short:         "Operate the pot settlement store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool(flagVerbose)
			logger.InitLoggerWithWriter(logger.CLIConfig("potctl", verbose), os.Stderr)
			return nil
		},
	}
	root.PersistentFlags().BoolP(flagVerbose, "v", false, "log at debug level to stderr")

	root.AddCommand(
		newMigrateCmd(),
		newStatusCmd(),
		newWinnersCmd(),
		newSweepCmd(),
		newClearHistoryCmd(),
		newEventsCmd(),
		newWaitDBCmd(),
		newHealthCmd(),
		newDeadLetterCmd(),
	)
	return root
}

// openEnv loads configuration and opens the configured store. The in-memory
// store is rejected since it would be empty in a fresh process.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.LoadWithoutAuth()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Store != config.StorePostgres {
		return nil, fmt.Errorf("potctl needs STORE=%s, got %q", config.StorePostgres, cfg.Store)
	}

	cal, err := bootstrap.NewCalendar(cfg)
	if err != nil {
		return nil, err
	}
	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:      cfg,
		cal:      cal,
		storage:  storage,
		services: bootstrap.InitializeServices(cfg, cal, storage, nil, nil),
	}, nil
}

// resolveDate parses --date, defaulting to today in the pot calendar
func resolveDate(cmd *cobra.Command, cal *calendar.Calendar) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(flagDate)
	if raw == "" {
		return cal.Today(), nil
	}
	return calendar.ParseDate(raw)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
