package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/tripplanner/internal/catalog"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tripplan",
		Short: "Plan trips against the bundled travel catalog",
		Long: `tripplan builds day-by-day itineraries from the bundled catalog
snapshot without starting the HTTP service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log planner progress to stderr")

	root.AddCommand(newPlanCmd(), newDestinationsCmd())
	return root
}

func commandLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newDestinationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destinations",
		Short: "List supported destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := catalog.LoadEmbedded()
			if err != nil {
				return err
			}
			list, err := snapshot.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range list {
				fmt.Fprintf(out, "%-5s %-12s %s\n", d.Airport, d.City, d.Country)
			}
			return nil
		},
	}
}
