package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/database"
)

const (
	flagRetries  = "retries"
	flagInterval = "interval"
	flagURL      = "url"
	flagSlow     = "slow"

	readinessPath = "/readyz"
)

func newWaitDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait-db",
		Short: "Wait for the database to accept connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithoutAuth()
			if err != nil {
				return err
			}
			retries, _ := cmd.Flags().GetInt(flagRetries)
			interval, _ := cmd.Flags().GetDuration(flagInterval)

			return retry(cmd.Context(), retries, interval, func(attempt int) error {
				pool, err := database.NewPool(cmd.Context(), cfg.GetDBConnString(), 1, 0, 0)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "database not ready (%d/%d): %v\n", attempt, retries, err)
					return err
				}
				pool.Close()
				fmt.Fprintln(cmd.OutOrStdout(), "database is ready")
				return nil
			})
		},
	}
	cmd.Flags().Int(flagRetries, 30, "attempts before giving up")
	cmd.Flags().Duration(flagInterval, 2*time.Second, "delay between attempts")
	return cmd
}

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a running server reports ready",
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, _ := cmd.Flags().GetString(flagURL)
			if url == "" {
				url = fmt.Sprintf("http://localhost:%s", config.DefaultPort)
			}
			slow, _ := cmd.Flags().GetDuration(flagSlow)

			elapsed, err := checkReady(cmd.Context(), strings.TrimRight(url, "/")+readinessPath)
			if err != nil {
				return err
			}
			if elapsed > slow {
				fmt.Fprintf(cmd.OutOrStdout(), "ready, but slow (%v)\n", elapsed)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ready (%v)\n", elapsed)
			return nil
		},
	}
	cmd.Flags().String(flagURL, "", "server base URL (default http://localhost:"+config.DefaultPort+")")
	cmd.Flags().Duration(flagSlow, time.Second, "response time reported as slow")
	return cmd
}

func checkReady(ctx context.Context, url string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("readiness check failed: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return elapsed, fmt.Errorf("readiness check returned %d", resp.StatusCode)
	}
	return elapsed, nil
}

// retry calls fn up to attempts times, sleeping interval between failures
func retry(ctx context.Context, attempts int, interval time.Duration, fn func(attempt int) error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(i); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}
