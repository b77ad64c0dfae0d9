package main

import (
	"context"

	"samarth-platform/internal/models"
	"samarth-platform/internal/nlsql"
	"samarth-platform/internal/repository"
	"samarth-platform/internal/services"
	"samarth-platform/pkg/database"
	"samarth-platform/pkg/llm"
)

// engine is an analytical session with both snapshots loaded.
type engine struct {
	db        *database.DuckDB
	repo      repository.AnalyticsRepository
	generator *llm.OllamaClient
}

func openEngine(ctx context.Context) (*engine, error) {
	db, err := database.NewDuckDB(&database.Config{
		Path:        cfg.Database.Path,
		Threads:     cfg.Database.Threads,
		MemoryLimit: cfg.Database.MemoryLimit,
	}, logger, metricsCollector)
	if err != nil {
		return nil, err
	}

	repo := repository.NewAnalyticsRepository(db, logger, metricsCollector)
	if err := repo.LoadSnapshots(ctx, cfg.CropSnapshotPath(), cfg.RainfallSnapshotPath()); err != nil {
		db.Close()
		return nil, err
	}
	return &engine{db: db, repo: repo, generator: newGenerator()}, nil
}

func newGenerator() *llm.OllamaClient {
	return llm.NewOllamaClient(llm.Config{
		Endpoint:      cfg.Model.Endpoint,
		Model:         cfg.Model.Name,
		Temperature:   cfg.Model.Temperature,
		ContextWindow: cfg.Model.ContextWindow,
		Timeout:       cfg.Model.Timeout.Duration,
	})
}

func (e *engine) Close() error {
	return e.db.Close()
}

func (e *engine) qaService(variant nlsql.Variant, opts ...services.QAOption) *services.QAService {
	return services.NewQAService(e.repo, e.generator, variant, cfg.Data.ProcessedDir, logger, metricsCollector, opts...)
}

// tableResult adapts raw CSV rows for render.Table.
func tableResult(header []string, rows [][]string) *models.ResultSet {
	rs := &models.ResultSet{Columns: header}
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		rs.Rows = append(rs.Rows, cells)
	}
	return rs
}
