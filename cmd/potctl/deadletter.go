package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/event"
)

const flagFile = "file"

func newDeadLetterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadletter",
		Short: "Inspect or replay events that could not be published",
	}
	cmd.PersistentFlags().String(flagFile, "", "dead-letter file (default $LOG_DIR/"+config.DefaultDeadLetterFile+")")
	cmd.AddCommand(newDeadLetterListCmd(), newDeadLetterReplayCmd())
	return cmd
}

func newDeadLetterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dead-lettered events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := deadLetterFile(cmd)
			if err != nil {
				return err
			}
			entries, err := loadDeadLetters(path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tTYPE\tATTEMPTS\tLAST ERROR")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Event.Type, e.Attempts, e.LastError)
			}
			return tw.Flush()
		},
	}
}

// newDeadLetterReplayCmd feeds dead-lettered events back into the audit log.
// Entries that fail again stay in the file.
func newDeadLetterReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Write dead-lettered events to the event log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := deadLetterFile(cmd)
			if err != nil {
				return err
			}
			entries, err := loadDeadLetters(path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to replay")
				return nil
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			bus := event.NewMemoryBus()
			if err := e.services.EventLog.Subscribe(bus); err != nil {
				return err
			}

			failed, err := event.Replay(cmd.Context(), bus, entries)
			if err != nil {
				return err
			}
			if err := rewriteDeadLetters(path, failed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "replayed %d, %d still failing\n", len(entries)-len(failed), len(failed))
			return nil
		},
	}
}

func deadLetterFile(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString(flagFile); path != "" {
		return path, nil
	}
	cfg, err := config.LoadWithoutAuth()
	if err != nil {
		return "", err
	}
	return cfg.DeadLetterPath(), nil
}

func loadDeadLetters(path string) ([]event.DeadLetterEntry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return event.ReadDeadLetters(f)
}

// rewriteDeadLetters replaces the file with entries via a rename in the same
// directory
func rewriteDeadLetters(path string, entries []event.DeadLetterEntry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(event.DeadLetterFilePermissions); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
