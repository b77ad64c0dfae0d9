package models

// TableSummary describes one loaded analytical table.
type TableSummary struct {
	Name    string `json:"name"`
	Rows    int64  `json:"rows"`
	MinYear *int32 `json:"min_year,omitempty"`
	MaxYear *int32 `json:"max_year,omitempty"`
}

// Catalog summarizes what the question bridge can answer about.
type Catalog struct {
	Tables []TableSummary `json:"tables"`
	States []string       `json:"states"`
}
