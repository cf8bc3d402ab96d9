package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-study/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-study/internal/config"
	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study/internal/core/services"
)

// openFunc returns the session store and a function releasing it.
type openFunc func(ctx context.Context) (domain.StudySessionRepository, func(), error)

func main() {
	if err := newRootCmd(openPostgres).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openPostgres(ctx context.Context) (domain.StudySessionRepository, func(), error) {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}

	dsn := repository.DSN(dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.Name)
	db, err := repository.Connect(ctx, dsn, repository.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return nil, nil, err
	}

	return repository.NewPostgresStudySessionRepository(db), func() { _ = db.Close() }, nil
}

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyctl",
		Short:         "Inspect study data from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAnalyticsCmd(open))
	root.AddCommand(newFocusCmd(open))
	return root
}

func newAnalyticsCmd(open openFunc) *cobra.Command {
	var userID string
	var days int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print the analytics report for a user as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sessions, release, err := open(ctx)
			if err != nil {
				return err
			}
			defer release()

			report, err := services.NewAnalyticsService(sessions).Analyze(ctx, userID, days)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().IntVar(&days, "days", domain.DefaultAnalyticsDays, "window length in days")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newFocusCmd(open openFunc) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Check which sessions carry a focus level",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sessions, release, err := open(ctx)
			if err != nil {
				return err
			}
			defer release()

			summary, err := services.NewFocusService(sessions).Summarize(ctx, userID)
			if err != nil {
				return err
			}

			printFocusSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "restrict to one user (default: all users)")
	return cmd
}

func printFocusSummary(w io.Writer, summary *domain.FocusSummary) {
	if summary.Count == 0 {
		_, _ = fmt.Fprintln(w, "No sessions with focus level found in the database.")
		return
	}

	_, _ = fmt.Fprintf(w, "Found %d sessions with focus levels:\n", summary.Count)
	for i, s := range summary.Sample {
		_, _ = fmt.Fprintf(w, "%d. Session ID: %s, Subject: %s, Focus: %d\n", i+1, s.ID, s.Subject, *s.FocusLevel)
	}

	if summary.AverageFocus != nil {
		_, _ = fmt.Fprintf(w, "\nAverage focus level: %.1f/5\n", *summary.AverageFocus)
	}
}
