// Package nlsql builds model prompts for question-to-SQL translation and
// cleans up what the model sends back.
package nlsql

import "strings"

// Variant selects the prompt wording.
type Variant int

const (
	// Scripted is the detailed prompt used by the command line.
	Scripted Variant = iota
	// Interactive is the compact prompt used by the dashboards.
	Interactive
)

func (v Variant) String() string {
	if v == Interactive {
		return "interactive"
	}
	return "scripted"
}

// DetailedSchema describes both tables with column types and join hints.
const DetailedSchema = `
TABLE crop (
  state TEXT,
  district TEXT,
  crop TEXT,
  season TEXT,
  year INTEGER,
  area_hectare FLOAT,
  production_tonnes FLOAT
);

TABLE rainfall (
  subdivision TEXT,
  year INTEGER,
  month INTEGER,
  rainfall_mm FLOAT,
  annual FLOAT
);

-- JOIN: Use c.year = r.year AND c.state LIKE '%' || r.subdivision || '%'
-- RAINFALL: Use SUM(rainfall_mm) over 12 months or AVG(annual)
-- ALWAYS qualify: c.year, r.year, c.state, etc.
`

// CompactSchema lists column names only.
const CompactSchema = `
TABLE crop (state, district, crop, season, year, area_hectare, production_tonnes);
TABLE rainfall (subdivision, year, month, rainfall_mm, annual);
JOIN: c.year = r.year AND c.state LIKE '%' || r.subdivision || '%'
GROUP BY: c.state or c.district only
DO NOT USE ANY_VALUE IN GROUP BY
`

const scriptedRules = `
YOU ARE A DUCKDB SQL EXPERT. GENERATE ONLY SQL. NO EXPLANATION, NO ` + "```" + `, NO "sql".

RULES:
1. Use EXACT column names: c.year, c.crop, c.production_tonnes, c.state
2. Join: ON c.year = r.year AND c.state LIKE '%' || r.subdivision || '%'
3. For annual rainfall: SUM(r.rainfall_mm) or AVG(r.annual)
4. Always qualify columns: c.state, r.subdivision
5. Use ROUND(..., 2)
6. GROUP BY c.state or c.district
7. Filter: c.crop = 'Rice' (case insensitive → UPPER(c.crop))
`

const interactiveRules = `
DUCKDB SQL ONLY. NO ` + "```" + `, NO EXPLANATION.

RULES:
1. Filter FIRST: WHERE UPPER(c.crop) = 'RICE'
2. Join: ON c.year = r.year AND c.state LIKE '%' || r.subdivision || '%'
3. GROUP BY c.state or c.district ONLY
4. DO NOT use ANY_VALUE in GROUP BY
5. Annual rainfall: SUM(r.rainfall_mm)
6. ROUND(..., 2)
`

// PromptBuilder assembles rule list, schema and question.
type PromptBuilder struct {
	Variant Variant
}

// Schema returns the schema description for the builder's variant.
func (b PromptBuilder) Schema() string {
	if b.Variant == Interactive {
		return CompactSchema
	}
	return DetailedSchema
}

// Build returns the full prompt for question.
func (b PromptBuilder) Build(question string) string {
	rules := scriptedRules
	if b.Variant == Interactive {
		rules = interactiveRules
	}

	var sb strings.Builder
	sb.WriteString(rules)
	sb.WriteString("\nSchema:\n")
	sb.WriteString(b.Schema())
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nSQL:\n")
	return sb.String()
}

// DemoQuestions are answered by the command line when no question is given.
var DemoQuestions = []string{
	"Compare average annual rice production and rainfall in Maharashtra and Punjab for 2010–2015",
	"Which district in Punjab had the highest wheat production in the latest year?",
}

// SampleQuestions are offered by the dashboards.
var SampleQuestions = []string{
	"Compare average annual rice production and rainfall in Maharashtra and Punjab for 2010–2015",
	"Which district in Punjab had the highest wheat production in the latest year?",
	"Top 3 states by rice production in 2015",
	"Rainfall trend in Kerala (2010–2015)",
}
