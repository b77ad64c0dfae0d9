package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samarth-platform/internal/models"
	"samarth-platform/internal/snapshot"
	"samarth-platform/pkg/database"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

func newTestRepository(t *testing.T) (AnalyticsRepository, string, string) {
	t.Helper()

	db, err := database.NewDuckDB(&database.Config{Threads: 1}, logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	cropPath := filepath.Join(dir, "crop's clean.parquet")
	rainPath := filepath.Join(dir, "rainfall_long.parquet")

	crop := []models.CropRecord{
		{State: "Punjab", District: "LUDHIANA", Crop: "Rice", Season: "Kharif", Year: models.Int32(2010), ProductionTonnes: models.Float64(300)},
		{State: "Punjab", District: "LUDHIANA", Crop: "Rice", Season: "Kharif", Year: models.Int32(2011), ProductionTonnes: models.Float64(500)},
		{State: "Kerala", District: "IDUKKI", Crop: "Rice", Season: "Kharif", Year: models.Int32(2012), ProductionTonnes: models.Float64(100)},
		{State: "Andhra Pradesh", District: "GUNTUR", Crop: "Wheat", Season: "Rabi", Year: models.Int32(2014), ProductionTonnes: models.Float64(7)},
		{State: "Andhra Pradesh", District: "KURNOOL", Crop: "Wheat", Season: "Rabi", Year: models.Int32(2014), ProductionTonnes: models.Float64(9)},
	}
	require.NoError(t, snapshot.WriteCrop(cropPath, crop))

	var rain []models.RainfallRecord
	for m := int32(1); m <= 12; m++ {
		rain = append(rain, models.RainfallRecord{
			Subdivision: "Madhya Maharashtra",
			Year:        models.Int32(2015),
			Month:       models.Int32(m),
			RainfallMM:  models.Float64(float64(m)),
			Annual:      models.Float64(78),
		})
	}
	require.NoError(t, snapshot.WriteRainfall(rainPath, rain))

	repo := NewAnalyticsRepository(db, logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, repo.LoadSnapshots(context.Background(), cropPath, rainPath))
	return repo, cropPath, rainPath
}

func TestAnalyticsRepository_LoadAndCount(t *testing.T) {
	repo, cropPath, rainPath := newTestRepository(t)
	ctx := context.Background()

	n, err := repo.CountRows(ctx, CropTable)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = repo.CountRows(ctx, RainfallTable)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	// Loading again replaces rather than appends.
	require.NoError(t, repo.LoadSnapshots(ctx, cropPath, rainPath))
	n, err = repo.CountRows(ctx, CropTable)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = repo.CountRows(ctx, "weather")
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestAnalyticsRepository_LoadMissingSnapshot(t *testing.T) {
	repo, _, rainPath := newTestRepository(t)

	err := repo.LoadSnapshots(context.Background(), filepath.Join(t.TempDir(), "missing.parquet"), rainPath)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "snapshot", nf.Resource)
}

func TestAnalyticsRepository_Execute(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	result, err := repo.Execute(context.Background(), "SELECT state, SUM(production_tonnes) AS total FROM crop WHERE crop = 'Rice' GROUP BY state ORDER BY state")
	require.NoError(t, err)

	assert.Equal(t, []string{"state", "total"}, result.Columns)
	require.Equal(t, 2, result.Len())
	assert.Equal(t, "Kerala", result.Rows[0][0])
	assert.Equal(t, "Punjab", result.Rows[1][0])
	assert.InDelta(t, 800.0, result.Rows[1][1], 1e-9)
}

func TestAnalyticsRepository_ExecuteError(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	_, err := repo.Execute(context.Background(), "SELECT no_such_column FROM crop")
	assert.Error(t, err)

	// The session stays usable after a failed query.
	_, err = repo.Execute(context.Background(), "SELECT 1")
	assert.NoError(t, err)
}

func TestAnalyticsRepository_ListStatesAndYears(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	states, err := repo.ListStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Andhra Pradesh", "Kerala", "Punjab"}, states)

	yr, err := repo.YearRange(ctx, CropTable)
	require.NoError(t, err)
	require.NotNil(t, yr.Min)
	require.NotNil(t, yr.Max)
	assert.Equal(t, int32(2010), *yr.Min)
	assert.Equal(t, int32(2014), *yr.Max)
}

func TestSampleQueries(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	require.Len(t, SampleQueries, 3)

	top, err := repo.Execute(ctx, SampleQueries[0].SQL)
	require.NoError(t, err)
	require.Equal(t, 2, top.Len())
	assert.Equal(t, "Punjab", top.Rows[0][0])

	wheat, err := repo.Execute(ctx, SampleQueries[1].SQL)
	require.NoError(t, err)
	require.Equal(t, 2, wheat.Len())
	assert.Equal(t, "KURNOOL", wheat.Rows[0][0])

	trend, err := repo.Execute(ctx, SampleQueries[2].SQL)
	require.NoError(t, err)
	require.Equal(t, 1, trend.Len())
	assert.InDelta(t, 6.5, trend.Rows[0][1], 1e-9)
}
