// Package render formats query results for terminals.
package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"samarth-platform/internal/models"
)

// NoRows is written in place of an empty result.
const NoRows = "No results found"

// Value formats one result cell. NULL cells print as NULL and floats use the
// shortest exact representation.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Row formats a whole row.
func Row(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = Value(v)
	}
	return out
}

// Table writes rs as an aligned text table.
func Table(w io.Writer, rs *models.ResultSet) {
	if rs.Len() == 0 {
		fmt.Fprintln(w, NoRows)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(rs.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, row := range rs.Rows {
		table.Append(Row(row))
	}
	table.Render()
}
