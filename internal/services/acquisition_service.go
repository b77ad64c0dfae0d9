package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"samarth-platform/internal/models"
	"samarth-platform/internal/snapshot"
	"samarth-platform/internal/transform"
	"samarth-platform/pkg/datagov"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

// ErrNoData is returned when not a single page could be fetched.
var ErrNoData = errors.New("no data fetched")

// Dataset identifies one remote resource and its local raw file.
type Dataset struct {
	ResourceID string
	Filename   string
	Label      string
}

// AcquisitionConfig controls paging and retries.
type AcquisitionConfig struct {
	RawDir     string
	PageSize   int
	MaxRetries int
	RetryDelay time.Duration
}

// DownloadResult describes a completed download.
type DownloadResult struct {
	Path     string
	Rows     int
	Pages    int
	Cached   bool
	Duration time.Duration
}

// AcquisitionService pages through the resource API into raw CSV files.
type AcquisitionService struct {
	fetcher datagov.PageFetcher
	cfg     AcquisitionConfig
	logger  *logging.StructuredLogger
	metrics *metrics.Collector

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewAcquisitionService creates a new acquisition service
func NewAcquisitionService(fetcher datagov.PageFetcher, cfg AcquisitionConfig, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AcquisitionService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &AcquisitionService{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		metrics: metricsCollector,
		sleep:   sleepContext,
		now:     time.Now,
	}
}

// Download fetches ds page by page and writes the consolidated raw CSV plus
// its provenance sidecar. An existing raw file is returned untouched.
func (s *AcquisitionService) Download(ctx context.Context, ds Dataset) (*DownloadResult, error) {
	startTime := time.Now()
	path := filepath.Join(s.cfg.RawDir, ds.Filename)

	if _, err := os.Stat(path); err == nil {
		s.logger.Info(ctx, "[FETCH_CACHED] Raw file already present", logging.Fields{
			"dataset": ds.Label,
			"path":    path,
			"stage":   "ACQUISITION",
		})
		return &DownloadResult{Path: path, Cached: true, Duration: time.Since(startTime)}, nil
	}

	s.logger.Info(ctx, "[FETCH_START] Downloading dataset", logging.Fields{
		"dataset":     ds.Label,
		"resource_id": ds.ResourceID,
		"page_size":   s.cfg.PageSize,
		"stage":       "ACQUISITION",
	})

	var consolidated *transform.Table
	pages := 0
	offset := 0

	for {
		page, end, err := s.fetchPage(ctx, ds, offset)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// Retries exhausted: keep what we have.
			s.logger.Warn(ctx, "[FETCH_TRUNCATED] Page failed after retries, stopping", logging.Fields{
				"dataset": ds.Label,
				"offset":  offset,
				"pages":   pages,
				"error":   err.Error(),
			})
			break
		}
		if end {
			s.logger.Debug(ctx, "[FETCH_END] Empty page, end of data", logging.Fields{
				"dataset": ds.Label,
				"offset":  offset,
			})
			break
		}

		if consolidated == nil {
			consolidated = transform.NewTable(page.Header, nil)
		}
		consolidated.Rows = append(consolidated.Rows, alignRows(consolidated.Header, page)...)

		pages++
		offset += s.cfg.PageSize
		s.metrics.FetchPagesTotal.WithLabelValues(ds.ResourceID).Inc()
		s.metrics.FetchRowsTotal.WithLabelValues(ds.ResourceID).Add(float64(len(page.Rows)))
	}

	if consolidated == nil {
		s.metrics.RecordFetchError("no_data")
		return nil, fmt.Errorf("%w for %s: check resource id or API key", ErrNoData, ds.Label)
	}

	if err := os.MkdirAll(s.cfg.RawDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create raw directory: %w", err)
	}

	// The CSV's presence short-circuits later runs, so it lands last.
	prov := models.Provenance{
		ResourceID: ds.ResourceID,
		RowCount:   len(consolidated.Rows),
		Pages:      pages,
		FetchedAt:  s.now().Format(snapshot.TimestampLayout),
		Method:     fmt.Sprintf("Paginated API (limit=%d)", s.cfg.PageSize),
	}
	if err := snapshot.WriteRawSidecar(snapshot.RawSidecarPath(path), prov); err != nil {
		return nil, fmt.Errorf("failed to write provenance: %w", err)
	}
	if err := writeTable(path, consolidated); err != nil {
		return nil, err
	}

	result := &DownloadResult{
		Path:     path,
		Rows:     len(consolidated.Rows),
		Pages:    pages,
		Duration: time.Since(startTime),
	}
	s.metrics.FetchDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[FETCH_COMPLETE] Dataset saved", logging.Fields{
		"dataset":          ds.Label,
		"path":             path,
		"rows":             result.Rows,
		"pages":            result.Pages,
		"duration_seconds": result.Duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return result, nil
}

// fetchPage runs up to MaxRetries attempts for the page at offset. end is
// true when the page signals end of stream. Transport and parse failures are
// retried with exponential backoff.
func (s *AcquisitionService) fetchPage(ctx context.Context, ds Dataset, offset int) (table *transform.Table, end bool, err error) {
	var lastErr error

	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.cfg.RetryDelay * time.Duration(1<<(attempt-1))
			s.metrics.FetchRetriesTotal.WithLabelValues(ds.ResourceID).Inc()
			s.logger.Warn(ctx, "[FETCH_RETRY] Retrying page", logging.Fields{
				"dataset":  ds.Label,
				"offset":   offset,
				"attempt":  attempt + 1,
				"delay_ms": delay.Milliseconds(),
				"error":    lastErr.Error(),
			})
			if err := s.sleep(ctx, delay); err != nil {
				return nil, false, err
			}
		}

		body, err := s.fetcher.FetchPage(ctx, ds.ResourceID, offset, s.cfg.PageSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			s.metrics.RecordFetchError(fetchErrorType(err))
			lastErr = err
			continue
		}

		text := strings.TrimSpace(body)
		if text == "" || len(strings.Split(text, "\n")) <= 1 {
			return nil, true, nil
		}

		page, err := transform.ParseCSV(strings.NewReader(text))
		if err != nil {
			s.metrics.RecordFetchError("parse")
			lastErr = err
			continue
		}
		if len(page.Rows) == 0 {
			return nil, true, nil
		}
		return page, false, nil
	}

	return nil, false, fmt.Errorf("page at offset %d failed after %d attempts: %w", offset, s.cfg.MaxRetries, lastErr)
}

// fetchErrorType labels a failed request for metrics. Every kind is retried.
func fetchErrorType(err error) string {
	var statusErr *datagov.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.IsTransient() {
			return "status_transient"
		}
		return "status_permanent"
	}
	return "transport"
}

// alignRows reorders the rows of page to match header by column name.
func alignRows(header []string, page *transform.Table) [][]string {
	if equalHeaders(header, page.Header) {
		return page.Rows
	}
	out := make([][]string, 0, len(page.Rows))
	for _, row := range page.Rows {
		aligned := make([]string, len(header))
		for i, col := range header {
			aligned[i] = page.Value(row, col)
		}
		out = append(out, aligned)
	}
	return out
}

func equalHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeTable(path string, table *transform.Table) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if err := transform.WriteCSV(f, table); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

// Preview returns the header and first n rows of a raw CSV file.
func Preview(path string, n int) (*transform.Table, error) {
	table, err := transform.ReadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(table.Rows) > n {
		table.Rows = table.Rows[:n]
	}
	return table, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
