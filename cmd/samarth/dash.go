package main

import (
	"io"

	"github.com/spf13/cobra"

	"samarth-platform/internal/dashboard"
	"samarth-platform/internal/nlsql"
	"samarth-platform/internal/services"
	"samarth-platform/pkg/cache"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive terminal dashboard",
	Long: `Opens a full-screen dashboard with the sample questions. Generated SQL is
memoized per exact question for the configured cache TTL.`,
	Args: cobra.NoArgs,
	RunE: runDash,
}

func runDash(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	// Log lines would tear the full-screen view.
	if !verbose {
		logger.SetOutput(io.Discard)
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	memo := cache.NewTTLCache[string](cfg.Cache.TTL.Duration)
	svc := eng.qaService(nlsql.Interactive, services.WithCache(memo))

	return dashboard.Run(ctx, svc, nlsql.SampleQuestions)
}
