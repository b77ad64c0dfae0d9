package repository

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"

	duckdb "github.com/duckdb/duckdb-go/v2"

	"samarth-platform/internal/models"
	"samarth-platform/pkg/database"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

// Table names exposed to generated queries.
const (
	CropTable     = "crop"
	RainfallTable = "rainfall"
)

// AnalyticsRepository provides query access to the canonical tables
type AnalyticsRepository interface {
	// LoadSnapshots (re)creates both tables from their Parquet snapshots.
	LoadSnapshots(ctx context.Context, cropPath, rainfallPath string) error

	// Execute runs query text as-is and returns the tabular result.
	Execute(ctx context.Context, query string) (*models.ResultSet, error)

	CountRows(ctx context.Context, table string) (int64, error)
	ListStates(ctx context.Context) ([]string, error)
	YearRange(ctx context.Context, table string) (*YearRange, error)

	HealthCheck(ctx context.Context) error
}

// YearRange is the span of years present in a table.
type YearRange struct {
	Min *int32 `db:"min_year" json:"min_year"`
	Max *int32 `db:"max_year" json:"max_year"`
}

// analyticsRepository implements AnalyticsRepository
type analyticsRepository struct {
	db      *database.DuckDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *database.DuckDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) AnalyticsRepository {
	return &analyticsRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// LoadSnapshots replaces the crop and rainfall tables
func (r *analyticsRepository) LoadSnapshots(ctx context.Context, cropPath, rainfallPath string) error {
	snapshots := []struct{ table, path string }{
		{CropTable, cropPath},
		{RainfallTable, rainfallPath},
	}
	for _, snap := range snapshots {
		table, path := snap.table, snap.path
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return &NotFoundError{Resource: "snapshot", ID: path}
			}
			return fmt.Errorf("failed to stat snapshot: %w", err)
		}

		query := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_parquet(%s)", table, quoteLiteral(path))
		if _, err := r.db.ExecContext(ctx, "load_"+table, query); err != nil {
			return fmt.Errorf("failed to load %s: %w", table, err)
		}
	}

	r.logger.Info(ctx, "[REPO_LOAD] Snapshots loaded", logging.Fields{
		"crop_path":     cropPath,
		"rainfall_path": rainfallPath,
	})
	return nil
}

// Execute runs query and collects every row
func (r *analyticsRepository) Execute(ctx context.Context, query string) (*models.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, "generated", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &models.ResultSet{Columns: columns, Rows: make([][]any, 0)}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// CountRows returns the row count of one of the canonical tables
func (r *analyticsRepository) CountRows(ctx context.Context, table string) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}

	var count int64
	query := "SELECT COUNT(*) FROM " + table
	if err := r.db.GetContext(ctx, "count_"+table, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// ListStates returns the distinct state names of the crop table
func (r *analyticsRepository) ListStates(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT state
		FROM crop
		WHERE state <> ''
		ORDER BY state
	`

	var states []string
	if err := r.db.SelectContext(ctx, "list_states", &states, query); err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	return states, nil
}

// YearRange returns the first and last year of table
func (r *analyticsRepository) YearRange(ctx context.Context, table string) (*YearRange, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	var yr YearRange
	query := "SELECT MIN(year) AS min_year, MAX(year) AS max_year FROM " + table
	if err := r.db.GetContext(ctx, "year_range_"+table, &yr, query); err != nil {
		return nil, fmt.Errorf("failed to get year range of %s: %w", table, err)
	}
	return &yr, nil
}

// HealthCheck performs a repository health check
func (r *analyticsRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

func checkTable(table string) error {
	if table != CropTable && table != RainfallTable {
		return &NotFoundError{Resource: "table", ID: table}
	}
	return nil
}

// normalizeValue converts driver-specific cell types into plain values that
// render and encode as JSON.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case duckdb.Decimal:
		return x.Float64()
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		return x.String()
	}
	return v
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
