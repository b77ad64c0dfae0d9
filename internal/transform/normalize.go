package transform

import (
	"samarth-platform/internal/models"
)

// CropColumns renames the raw crop production headers.
var CropColumns = map[string]string{
	"State_Name":    "state",
	"District_Name": "district",
	"Crop":          "crop",
	"Season":        "season",
	"Crop_Year":     "year",
	"Area":          "area_hectare",
	"Production":    "production_tonnes",
}

// RainfallColumns renames the raw rainfall identifier headers. Remaining
// headers are lower-cased afterwards.
var RainfallColumns = map[string]string{
	"SUBDIVISION": "subdivision",
	"YEAR":        "year",
}

// RenameColumns returns a copy of header with mapped names replaced.
// Columns absent from mapping pass through unchanged.
func RenameColumns(header []string, mapping map[string]string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if renamed, ok := mapping[h]; ok {
			out[i] = renamed
			continue
		}
		out[i] = h
	}
	return out
}

// ToCropRecords renames the raw crop table, canonicalizes state names and
// projects every row onto a CropRecord. Text fields other than state keep
// their raw padding. Columns outside the canonical schema are dropped by the
// projection.
func ToCropRecords(t *Table) []models.CropRecord {
	t.Rename(CropColumns)

	records := make([]models.CropRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, models.CropRecord{
			State:            CanonicalState(t.Value(row, "state")),
			District:         t.Value(row, "district"),
			Crop:             t.Value(row, "crop"),
			Season:           t.Value(row, "season"),
			Year:             ParseInt(t.Value(row, "year")),
			AreaHectare:      ParseFloat(t.Value(row, "area_hectare")),
			ProductionTonnes: ParseFloat(t.Value(row, "production_tonnes")),
		})
	}
	return records
}

// MeltRainfall reshapes the wide rainfall table into one record per
// (subdivision, year, month). Every input row yields twelve records carrying
// the same subdivision, year and annual value. A month column missing from
// the table produces a null rainfall value for that month.
func MeltRainfall(t *Table) []models.RainfallRecord {
	t.Rename(RainfallColumns)
	t.LowerHeader()

	return meltRows(t, MonthTokens)
}

func meltRows(t *Table, tokens []string) []models.RainfallRecord {
	records := make([]models.RainfallRecord, 0, len(t.Rows)*len(tokens))
	for _, row := range t.Rows {
		subdivision := t.Value(row, "subdivision")
		year := ParseInt(t.Value(row, "year"))
		annual := ParseFloat(t.Value(row, "annual"))

		for _, token := range tokens {
			records = append(records, models.RainfallRecord{
				Subdivision: subdivision,
				Year:        year,
				Month:       monthPtr(token),
				RainfallMM:  ParseFloat(t.Value(row, token)),
				Annual:      annual,
			})
		}
	}
	return records
}
