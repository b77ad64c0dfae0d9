package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"samarth-platform/internal/services"
	"samarth-platform/pkg/datagov"
	"samarth-platform/pkg/render"
)

const previewRows = 3

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the crop and rainfall tables from data.gov.in",
	Long: `Pages through both resources and writes one raw CSV per dataset plus a
.source.txt provenance sidecar. Files already on disk are reused.
Requires DATA_GOV_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func datasets() []services.Dataset {
	return []services.Dataset{
		{
			ResourceID: cfg.Source.CropResourceID,
			Filename:   filepath.Base(cfg.CropRawPath()),
			Label:      "District-wise Crop Production",
		},
		{
			ResourceID: cfg.Source.RainfallResourceID,
			Filename:   filepath.Base(cfg.RainfallRawPath()),
			Label:      "Sub-divisional Monthly Rainfall",
		},
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateSource(); err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client := datagov.NewClient(cfg.Source.BaseURL, cfg.Source.APIKey, cfg.Source.Timeout.Duration)
	svc := services.NewAcquisitionService(client, services.AcquisitionConfig{
		RawDir:     cfg.Data.RawDir,
		PageSize:   cfg.Source.PageSize,
		MaxRetries: cfg.Source.MaxRetries,
		RetryDelay: cfg.Source.RetryDelay.Duration,
	}, logger, metricsCollector)

	var paths []string
	for _, ds := range datasets() {
		result, err := svc.Download(ctx, ds)
		if err != nil {
			return err
		}
		if result.Cached {
			fmt.Fprintf(out, "Already cached: %s\n", result.Path)
		} else {
			color.New(color.FgGreen).Fprintf(out, "SAVED: %s -> %d rows in %d pages (%s)\n",
				result.Path, result.Rows, result.Pages, result.Duration.Round(time.Millisecond))
		}
		paths = append(paths, result.Path)
	}

	for i, ds := range datasets() {
		table, err := services.Preview(paths[i], previewRows)
		if err != nil {
			return err
		}
		color.New(color.Bold).Fprintf(out, "\n%s sample:\n", ds.Label)
		render.Table(out, tableResult(table.Header, table.Rows))
	}
	return nil
}
