package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"samarth-platform/internal/repository"
	"samarth-platform/internal/services"
	"samarth-platform/pkg/render"
)

var previewQueries bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize the raw downloads into Parquet snapshots",
	Long: `Renames columns, canonicalizes state names, reshapes rainfall to one row
per month, and writes crop_clean.parquet and rainfall_long.parquet with their
provenance sidecars. The snapshots are then loaded into the analytical engine
as a check.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&previewQueries, "preview", true, "run the sample queries after loading")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	svc := services.NewNormalizationService(services.NormalizationPaths{
		CropRaw:          cfg.CropRawPath(),
		RainfallRaw:      cfg.RainfallRawPath(),
		CropSnapshot:     cfg.CropSnapshotPath(),
		RainfallSnapshot: cfg.RainfallSnapshotPath(),
	}, logger, metricsCollector)

	result, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Cleaned crop -> %s (%d rows)\n", result.CropPath, result.CropRows)
	fmt.Fprintf(out, "Melted rainfall -> %s (%d rows)\n", result.RainfallPath, result.RainfallRows)
	if result.UnmappedStates > 0 {
		color.New(color.FgYellow).Fprintf(out, "%d crop rows kept a state name with no canonical mapping\n", result.UnmappedStates)
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	catalog, err := services.NewCatalogService(eng.repo, logger, metricsCollector).Summarize(ctx)
	if err != nil {
		return err
	}
	for _, t := range catalog.Tables {
		fmt.Fprintf(out, "Loaded %s: %d rows, years %s-%s\n", t.Name, t.Rows, yearString(t.MinYear), yearString(t.MaxYear))
	}
	fmt.Fprintf(out, "States: %d\n", len(catalog.States))

	if !previewQueries {
		return nil
	}
	for _, q := range repository.SampleQueries {
		rs, err := eng.repo.Execute(ctx, q.SQL)
		if err != nil {
			return fmt.Errorf("sample query %q failed: %w", q.Title, err)
		}
		color.New(color.Bold).Fprintf(out, "\n%s:\n", q.Title)
		render.Table(out, rs)
	}
	return nil
}

func yearString(y *int32) string {
	if y == nil {
		return "?"
	}
	return fmt.Sprint(*y)
}
