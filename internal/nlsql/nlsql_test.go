package nlsql

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "SELECT 1", "SELECT 1"},
		{"fenced", "```sql\nSELECT state FROM crop\n```", "SELECT state FROM crop"},
		{"upper fence", "```SQL\nSELECT 1;\n```\n", "SELECT 1;"},
		{"bare fence", "```\nSELECT 2\n```", "SELECT 2"},
		{"language tag", "sql\nSELECT 3", "SELECT 3"},
		{"language tag with colon", "SQL: SELECT 4", "SELECT 4"},
		{"whitespace", "  \n SELECT 5 \n", "SELECT 5"},
		{"prose kept", "Here is the query: SELECT 6", "Here is the query: SELECT 6"},
		{"sqlite is not a tag", "sqlite_master", "sqlite_master"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.raw); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsSelect(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"SELECT\nstate FROM crop", true},
		{"select 1", false},
		{" SELECT 1", false},
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"DROP TABLE crop", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSelect(tt.sql); got != tt.want {
			t.Errorf("IsSelect(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}

func TestSentinel(t *testing.T) {
	s := Sentinel(errors.New("dial tcp 127.0.0.1:11434: connection refused"))

	if s != "-- LLM ERROR: dial tcp 127.0.0.1:11434: connection refused" {
		t.Errorf("Sentinel() = %q", s)
	}
	if IsSelect(s) {
		t.Error("sentinel must never pass the query gate")
	}
	if IsSelect(Sanitize(s)) {
		t.Error("sanitized sentinel must never pass the query gate")
	}
	if got := Sentinel(nil); !strings.HasPrefix(got, SentinelPrefix) {
		t.Errorf("Sentinel(nil) = %q", got)
	}
}

func TestPromptBuilder_Build(t *testing.T) {
	question := "Top 3 states by rice production in 2015"

	scripted := PromptBuilder{Variant: Scripted}.Build(question)
	for _, want := range []string{
		"YOU ARE A DUCKDB SQL EXPERT",
		"7. Filter: c.crop = 'Rice'",
		"production_tonnes FLOAT",
		"Question: " + question,
	} {
		if !strings.Contains(scripted, want) {
			t.Errorf("scripted prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(scripted, "SQL:\n") {
		t.Error("scripted prompt must end with the SQL: cue")
	}

	interactive := PromptBuilder{Variant: Interactive}.Build(question)
	for _, want := range []string{
		"DUCKDB SQL ONLY",
		"4. DO NOT use ANY_VALUE in GROUP BY",
		"TABLE crop (state, district, crop, season, year, area_hectare, production_tonnes);",
		"Question: " + question,
	} {
		if !strings.Contains(interactive, want) {
			t.Errorf("interactive prompt missing %q", want)
		}
	}
	if strings.Contains(interactive, "7.") {
		t.Error("interactive prompt has only six rules")
	}
}

func TestQuestionLists(t *testing.T) {
	if len(DemoQuestions) != 2 || len(SampleQuestions) != 4 {
		t.Fatalf("unexpected question counts: %d demo, %d sample", len(DemoQuestions), len(SampleQuestions))
	}
	for i, q := range DemoQuestions {
		if SampleQuestions[i] != q {
			t.Errorf("sample question %d = %q, want demo question %q", i, SampleQuestions[i], q)
		}
	}
	if Scripted.String() != "scripted" || Interactive.String() != "interactive" {
		t.Error("unexpected variant names")
	}
}

func TestFallbackQuery(t *testing.T) {
	if !IsSelect(FallbackQuery) {
		t.Error("fallback query must pass the gate")
	}
}
