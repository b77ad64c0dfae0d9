package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"samarth-platform/internal/models"
	"samarth-platform/internal/snapshot"
	"samarth-platform/internal/transform"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

// ErrInputNotFound is returned when a raw input table is missing.
var ErrInputNotFound = errors.New("raw input not found")

// NormalizationPaths names the inputs and outputs of one run.
type NormalizationPaths struct {
	CropRaw          string
	RainfallRaw      string
	CropSnapshot     string
	RainfallSnapshot string
}

// NormalizationResult contains normalization statistics
type NormalizationResult struct {
	CropRows     int
	RainfallRows int
	// UnmappedStates counts crop rows whose state has no canonical name.
	UnmappedStates int
	CropPath       string
	RainfallPath   string
	Duration       time.Duration
}

// NormalizationService turns raw downloads into canonical snapshots.
type NormalizationService struct {
	paths   NormalizationPaths
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

func NewNormalizationService(paths NormalizationPaths, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *NormalizationService {
	return &NormalizationService{
		paths:   paths,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Run rebuilds both canonical snapshots, replacing any previous ones.
func (s *NormalizationService) Run(ctx context.Context) (*NormalizationResult, error) {
	timer := s.metrics.NewTimer(s.metrics.NormalizationDuration)
	ctx = logging.WithStage(ctx, "NORMALIZATION")

	for _, p := range []string{s.paths.CropRaw, s.paths.RainfallRaw} {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s (run fetch first)", ErrInputNotFound, p)
			}
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
	}

	// The two tables share nothing, so they are built side by side.
	var cropRows, unmapped, rainfallRows int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, u, err := s.normalizeCrop(gctx)
		cropRows, unmapped = n, u
		return err
	})
	g.Go(func() error {
		n, err := s.normalizeRainfall(gctx)
		rainfallRows = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &NormalizationResult{
		CropRows:       cropRows,
		RainfallRows:   rainfallRows,
		UnmappedStates: unmapped,
		CropPath:       s.paths.CropSnapshot,
		RainfallPath:   s.paths.RainfallSnapshot,
		Duration:       timer.ObserveDuration(),
	}

	s.logger.Info(ctx, "[NORMALIZE_COMPLETE] Snapshots written", logging.Fields{
		"crop_rows":        result.CropRows,
		"rainfall_rows":    result.RainfallRows,
		"duration_seconds": result.Duration.Seconds(),
	})

	return result, nil
}

func (s *NormalizationService) normalizeCrop(ctx context.Context) (int, int, error) {
	table, err := transform.ReadCSV(s.paths.CropRaw)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read crop table: %w", err)
	}

	records := transform.ToCropRecords(table)
	if err := snapshot.WriteCrop(s.paths.CropSnapshot, records); err != nil {
		return 0, 0, err
	}
	if err := s.writeProvenance(ctx, s.paths.CropRaw, s.paths.CropSnapshot, len(records)); err != nil {
		return 0, 0, err
	}

	unmapped := make(map[string]int)
	total := 0
	for _, r := range records {
		if r.State != "" && !transform.IsCanonicalState(r.State) {
			unmapped[r.State]++
			total++
		}
	}
	if total > 0 {
		s.logger.Warn(ctx, "[NORMALIZE_CROP] State names kept as-is, no canonical mapping", logging.Fields{
			"rows":   total,
			"states": unmapped,
		})
	}

	s.metrics.NormalizedRowsTotal.WithLabelValues("crop").Add(float64(len(records)))
	s.logger.Info(ctx, "[NORMALIZE_CROP] Crop snapshot written", logging.Fields{
		"raw_rows": len(table.Rows),
		"rows":     len(records),
		"path":     s.paths.CropSnapshot,
	})
	return len(records), total, nil
}

func (s *NormalizationService) normalizeRainfall(ctx context.Context) (int, error) {
	table, err := transform.ReadCSV(s.paths.RainfallRaw)
	if err != nil {
		return 0, fmt.Errorf("failed to read rainfall table: %w", err)
	}

	records := transform.MeltRainfall(table)
	if err := snapshot.WriteRainfall(s.paths.RainfallSnapshot, records); err != nil {
		return 0, err
	}
	if err := s.writeProvenance(ctx, s.paths.RainfallRaw, s.paths.RainfallSnapshot, len(records)); err != nil {
		return 0, err
	}

	s.metrics.NormalizedRowsTotal.WithLabelValues("rainfall").Add(float64(len(records)))
	s.logger.Info(ctx, "[NORMALIZE_RAINFALL] Rainfall reshaped to long form", logging.Fields{
		"wide_rows": len(table.Rows),
		"rows":      len(records),
		"path":      s.paths.RainfallSnapshot,
	})
	return len(records), nil
}

// writeProvenance carries the raw sidecar's origin over to the snapshot's
// sidecar, with the snapshot's own row count.
func (s *NormalizationService) writeProvenance(ctx context.Context, rawPath, snapshotPath string, rows int) error {
	prov := models.Provenance{RowCount: rows}

	raw, err := snapshot.ReadSidecar(snapshot.RawSidecarPath(rawPath))
	switch {
	case err == nil:
		prov.ResourceID = raw.ResourceID
		prov.FetchedAt = raw.FetchedAt
		prov.Method = raw.Method
	case os.IsNotExist(err):
		s.logger.Warn(ctx, "[NORMALIZE_PROVENANCE] Raw sidecar missing, provenance unknown", logging.Fields{
			"raw_path": rawPath,
		})
	default:
		return fmt.Errorf("failed to read raw provenance: %w", err)
	}

	if err := snapshot.WriteSidecar(snapshot.SidecarPath(snapshotPath), prov); err != nil {
		return fmt.Errorf("failed to write provenance: %w", err)
	}
	return nil
}
