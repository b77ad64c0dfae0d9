package services

import (
	"context"
	"fmt"
	"time"

	"samarth-platform/internal/models"
	"samarth-platform/internal/repository"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

// CatalogService reports row counts, year spans and states of the loaded
// tables.
type CatalogService struct {
	repo    repository.AnalyticsRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repository.AnalyticsRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *CatalogService {
	return &CatalogService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Summarize inspects both tables.
func (s *CatalogService) Summarize(ctx context.Context) (*models.Catalog, error) {
	startTime := time.Now()
	catalog := &models.Catalog{}

	for _, table := range []string{repository.CropTable, repository.RainfallTable} {
		rows, err := s.repo.CountRows(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s rows: %w", table, err)
		}
		years, err := s.repo.YearRange(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s year range: %w", table, err)
		}
		catalog.Tables = append(catalog.Tables, models.TableSummary{
			Name:    table,
			Rows:    rows,
			MinYear: years.Min,
			MaxYear: years.Max,
		})
	}

	states, err := s.repo.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	catalog.States = states

	s.logger.Debug(ctx, "[CATALOG] Tables summarized", logging.Fields{
		"states":      len(states),
		"duration_ms": time.Since(startTime).Milliseconds(),
	})
	return catalog, nil
}
