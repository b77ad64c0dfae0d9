package models

// CropRecord is one row of the canonical crop table.
// NULL values represented as pointers for missing or unparseable raw cells.
type CropRecord struct {
	State            string   `json:"state" db:"state" parquet:"state"`
	District         string   `json:"district" db:"district" parquet:"district"`
	Crop             string   `json:"crop" db:"crop" parquet:"crop"`
	Season           string   `json:"season" db:"season" parquet:"season"`
	Year             *int32   `json:"year,omitempty" db:"year" parquet:"year"`
	AreaHectare      *float64 `json:"area_hectare,omitempty" db:"area_hectare" parquet:"area_hectare"`
	ProductionTonnes *float64 `json:"production_tonnes,omitempty" db:"production_tonnes" parquet:"production_tonnes"`
}

// RainfallRecord is one (subdivision, year, month) row of the long rainfall
// table. Annual is the precomputed yearly total from the source and is not
// reconciled against the monthly values.
type RainfallRecord struct {
	Subdivision string   `json:"subdivision" db:"subdivision" parquet:"subdivision"`
	Year        *int32   `json:"year,omitempty" db:"year" parquet:"year"`
	Month       *int32   `json:"month,omitempty" db:"month" parquet:"month"`
	RainfallMM  *float64 `json:"rainfall_mm,omitempty" db:"rainfall_mm" parquet:"rainfall_mm"`
	Annual      *float64 `json:"annual,omitempty" db:"annual" parquet:"annual"`
}

// Provenance is the content of a .source.txt sidecar.
type Provenance struct {
	ResourceID string `json:"resource_id"`
	RowCount   int    `json:"row_count"`
	Pages      int    `json:"pages,omitempty"`
	FetchedAt  string `json:"fetched_at"`
	Method     string `json:"method"`
}

// Citation points a presented answer at a provenance sidecar.
type Citation struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// String renders the citation the way the CLI prints it.
func (c Citation) String() string {
	return c.Label + ": " + c.Path
}

// Int32 and Float64 return pointers to copies of v.
func Int32(v int32) *int32       { return &v }
func Float64(v float64) *float64 { return &v }
