package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

func TestSessionSettings(t *testing.T) {
	assert.Empty(t, sessionSettings(&Config{}))
	assert.Equal(t, []string{
		"SET threads = 2",
		"SET memory_limit = '1GB'",
	}, sessionSettings(&Config{Threads: 2, MemoryLimit: "1GB"}))
	assert.Equal(t, []string{"SET memory_limit = '1''GB'"}, sessionSettings(&Config{MemoryLimit: "1'GB"}))
}

func TestDuckDB_InMemorySessionIsShared(t *testing.T) {
	db, err := NewDuckDB(&Config{Threads: 2}, logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "create", "CREATE TABLE t AS SELECT * FROM range(5) r(n)")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.GetContext(ctx, "count", &count, "SELECT COUNT(*) FROM t"))
	assert.Equal(t, int64(5), count)

	var ns []int64
	require.NoError(t, db.SelectContext(ctx, "select", &ns, "SELECT n FROM t WHERE n >= ? ORDER BY n", 3))
	assert.Equal(t, []int64{3, 4}, ns)

	var threads int64
	require.NoError(t, db.GetContext(ctx, "setting", &threads, "SELECT current_setting('threads')::BIGINT"))
	assert.Equal(t, int64(2), threads)

	assert.NoError(t, db.HealthCheck(ctx))
}

func TestDuckDB_QueryError(t *testing.T) {
	db, err := NewDuckDB(&Config{}, logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.QueryContext(context.Background(), "bad", "SELECT * FROM missing_table")
	assert.Error(t, err)
}

func TestDuckDB_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samarth.duckdb")

	db, err := NewDuckDB(&Config{Path: path}, logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), "create", "CREATE TABLE kept AS SELECT 1 AS x")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDuckDB(&Config{Path: path}, logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, err)
	defer db.Close()

	var x int32
	require.NoError(t, db.GetContext(context.Background(), "read", &x, "SELECT x FROM kept"))
	assert.Equal(t, int32(1), x)
}

func TestDuckDB_HealthCheckAfterClose(t *testing.T) {
	db, err := NewDuckDB(&Config{}, logging.NewNopLogger(), metrics.NewNopCollector())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.HealthCheck(context.Background()))
}
