package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/database"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|reset]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateReset},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithoutAuth()
			if err != nil {
				return err
			}
			pool, err := database.NewPool(cmd.Context(), cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
			if err != nil {
				return err
			}
			defer pool.Close()
			return database.Migrate(cmd.Context(), pool, args[0])
		},
	}
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's outcome vote tally for a pot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			potID, _ := cmd.Flags().GetString(flagPot)
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			status, err := e.services.Outcomes.GetOutcomeStatus(cmd.Context(), potID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), status)
		},
	}
	cmd.Flags().String(flagPot, "", "pot ID")
	_ = cmd.MarkFlagRequired(flagPot)
	return cmd
}

func newWinnersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "winners",
		Short: "Compute (or show the stored) settlement for a pot and day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			potID, _ := cmd.Flags().GetString(flagPot)
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			date, err := resolveDate(cmd, e.cal)
			if err != nil {
				return err
			}
			snap, err := e.services.Settlements.Settle(cmd.Context(), potID, date)
			var notDecided *domain.OutcomeNotDecidedError
			if errors.As(err, &notDecided) {
				_ = printJSON(cmd.OutOrStdout(), notDecided.Status)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().String(flagPot, "", "pot ID")
	cmd.Flags().String(flagDate, "", "settlement date (YYYY-MM-DD), default today")
	_ = cmd.MarkFlagRequired(flagPot)
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Apply missed-prediction penalties to every member of one pot, or of all pots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			potID, _ := cmd.Flags().GetString(flagPot)
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if potID != "" {
				res, err := e.services.Penalties.SweepPot(cmd.Context(), potID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			}
			summary, err := e.services.Penalties.SweepAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().String(flagPot, "", "limit the sweep to one pot")
	return cmd
}

func newClearHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-history",
		Short: "Delete every ledger event of a pot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			potID, _ := cmd.Flags().GetString(flagPot)
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			removed, err := e.services.Ledger.ClearHistory(cmd.Context(), potID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d ledger events from %s\n", removed, potID)
			return nil
		},
	}
	cmd.Flags().String(flagPot, "", "pot ID")
	_ = cmd.MarkFlagRequired(flagPot)
	return cmd
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print audit log entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			potID, _ := cmd.Flags().GetString(flagPot)
			limit, _ := cmd.Flags().GetInt(flagLimit)
			since, _ := cmd.Flags().GetString(flagDate)

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			filter := repository.EventLogFilter{Limit: limit}
			if potID != "" {
				filter.PotID = &potID
			}
			if since != "" {
				day, err := calendar.ParseDate(since)
				if err != nil {
					return err
				}
				start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, e.cal.Location())
				filter.Since = &start
			}

			entries, err := e.services.EventLog.Query(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().String(flagPot, "", "only events of this pot")
	cmd.Flags().String(flagDate, "", "only events since the start of this pot-calendar day")
	cmd.Flags().Int(flagLimit, 100, "maximum entries")
	return cmd
}
