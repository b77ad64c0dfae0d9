package repository

// SampleQuery is a fixed query printed after normalization to sanity check
// the loaded tables.
type SampleQuery struct {
	Title string
	SQL   string
}

// SampleQueries run against freshly loaded snapshots.
var SampleQueries = []SampleQuery{
	{
		Title: "Top 5 Rice States (2010-2015)",
		SQL: `SELECT state, ROUND(AVG(production_tonnes), 0) AS avg_production
FROM crop
WHERE crop = 'Rice' AND year BETWEEN 2010 AND 2015
GROUP BY state
ORDER BY avg_production DESC
LIMIT 5`,
	},
	{
		Title: "Wheat Districts in Andhra Pradesh (latest first)",
		SQL: `SELECT district, production_tonnes, year
FROM crop
WHERE state = 'Andhra Pradesh' AND crop = 'Wheat'
ORDER BY year DESC, production_tonnes DESC`,
	},
	{
		Title: "Rainfall Trend in Madhya Maharashtra",
		SQL: `SELECT year, ROUND(AVG(rainfall_mm), 1) AS avg_rainfall_mm
FROM rainfall
WHERE subdivision LIKE '%Madhya Maharashtra%'
GROUP BY year
ORDER BY year DESC`,
	},
}
