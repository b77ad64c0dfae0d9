package transform

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalState(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"ANDHRA PRADESH", "Andhra Pradesh"},
		{"  andhra pradesh ", "Andhra Pradesh"},
		{"Orissa", "Odisha"},
		{"ODISHA", "Odisha"},
		{"pondicherry", "Puducherry"},
		{"Jammu and Kashmir ", "Jammu & Kashmir"},
		{"Andaman and Nicobar Islands", "Andaman & Nicobar"},
		{"  Atlantis  ", "Atlantis"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := CanonicalState(tt.raw); got != tt.want {
				t.Errorf("CanonicalState(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanonicalStates(t *testing.T) {
	states := CanonicalStates()
	// 37 raw names, two aliases collapse onto Odisha.
	assert.Len(t, states, 36)
	assert.Contains(t, states, "Puducherry")
	assert.NotContains(t, states, "Pondicherry")
	assert.True(t, IsCanonicalState("Odisha"))
	assert.False(t, IsCanonicalState("ORISSA"))
}

func TestMonthNumber(t *testing.T) {
	for i, token := range MonthTokens {
		n, ok := MonthNumber(token)
		require.True(t, ok, token)
		assert.Equal(t, int32(i+1), n)
	}

	n, ok := MonthNumber(" DEC ")
	assert.True(t, ok)
	assert.Equal(t, int32(12), n)

	_, ok = MonthNumber("jan-feb")
	assert.False(t, ok)
	assert.Nil(t, monthPtr("annual"))
}

func TestRenameColumns(t *testing.T) {
	header := []string{"State_Name", "Crop_Year", "Extra_Col", "Production"}
	got := RenameColumns(header, CropColumns)

	assert.Equal(t, []string{"state", "year", "Extra_Col", "production_tonnes"}, got)
	assert.Equal(t, "State_Name", header[0], "input header must not be modified")
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		in      string
		wantInt *int32
		wantF   *float64
	}{
		{"2010", ptrInt(2010), ptrFloat(2010)},
		{"2010.0", ptrInt(2010), ptrFloat(2010)},
		{" 12.5 ", nil, ptrFloat(12.5)},
		{"1,234.5", nil, ptrFloat(1234.5)},
		{"NA", nil, nil},
		{"", nil, nil},
		{"abc", nil, nil},
		{"NaN", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.wantInt, ParseInt(tt.in))
			assert.Equal(t, tt.wantF, ParseFloat(tt.in))
		})
	}
}

func TestToCropRecords(t *testing.T) {
	raw := "State_Name,District_Name,Crop_Year,Season,Crop,Area,Production\n" +
		"ORISSA,CUTTACK,2010,Kharif     ,Rice,1000,2500.5\n" +
		"maharashtra ,PUNE ,2011,Rabi,Wheat ,300,\n"
	table, err := ParseCSV(strings.NewReader(raw))
	require.NoError(t, err)

	records := ToCropRecords(table)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Odisha", first.State)
	assert.Equal(t, "CUTTACK", first.District)
	assert.Equal(t, "Kharif     ", first.Season, "season padding is kept")
	assert.Equal(t, "Rice", first.Crop)
	require.NotNil(t, first.Year)
	assert.Equal(t, int32(2010), *first.Year)
	require.NotNil(t, first.ProductionTonnes)
	assert.InDelta(t, 2500.5, *first.ProductionTonnes, 1e-9)

	second := records[1]
	assert.Equal(t, "Maharashtra", second.State)
	assert.Equal(t, "PUNE ", second.District)
	assert.Equal(t, "Wheat ", second.Crop)
	assert.Nil(t, second.ProductionTonnes, "blank production is null")
}

func TestMeltRainfall_RoundTrip(t *testing.T) {
	raw := "SUBDIVISION,YEAR,JAN,FEB,MAR,APR,MAY,JUN,JUL,AUG,SEP,OCT,NOV,DEC,ANNUAL\n" +
		"Kerala,2012,1,2,3,4,5,6,7,8,9,10,11,12,78\n"
	table, err := ParseCSV(strings.NewReader(raw))
	require.NoError(t, err)

	records := MeltRainfall(table)
	require.Len(t, records, 12)

	months := make(map[int32]float64)
	for _, r := range records {
		assert.Equal(t, "Kerala", r.Subdivision)
		require.NotNil(t, r.Year)
		assert.Equal(t, int32(2012), *r.Year)
		require.NotNil(t, r.Annual)
		assert.Equal(t, 78.0, *r.Annual)
		require.NotNil(t, r.Month)
		require.NotNil(t, r.RainfallMM)
		months[*r.Month] = *r.RainfallMM
	}
	require.Len(t, months, 12)
	for m := int32(1); m <= 12; m++ {
		assert.Equal(t, float64(m), months[m], "month %d", m)
	}
}

func TestMeltRainfall_MissingMonthColumn(t *testing.T) {
	raw := "SUBDIVISION,YEAR,JAN,ANNUAL\nPunjab,2014,NA,500\n"
	table, err := ParseCSV(strings.NewReader(raw))
	require.NoError(t, err)

	records := MeltRainfall(table)
	require.Len(t, records, 12)
	for _, r := range records {
		assert.Nil(t, r.RainfallMM)
		assert.NotNil(t, r.Month)
	}
}

func TestMeltRows_UnknownToken(t *testing.T) {
	table := NewTable([]string{"subdivision", "year", "jan", "monsoon"}, [][]string{{"Bihar", "2001", "10", "20"}})

	records := meltRows(table, []string{"jan", "monsoon"})
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Month)
	assert.Equal(t, int32(1), *records[0].Month)
	assert.Nil(t, records[1].Month, "unknown token maps to a null month")
	require.NotNil(t, records[1].RainfallMM)
	assert.Equal(t, 20.0, *records[1].RainfallMM)
}

func TestTable_ValueAndCSV(t *testing.T) {
	table := NewTable([]string{"a", "b"}, [][]string{{"1"}, {"2", "3"}})
	assert.Equal(t, "", table.Value(table.Rows[0], "b"), "short rows yield blank")
	assert.Equal(t, "3", table.Value(table.Rows[1], "b"))
	assert.Equal(t, -1, table.Index("missing"))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	parsed, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, parsed.Header)
	assert.Len(t, parsed.Rows, 2)

	empty, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Rows)
}

func ptrInt(v int32) *int32       { return &v }
func ptrFloat(v float64) *float64 { return &v }
