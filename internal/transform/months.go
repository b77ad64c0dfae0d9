package transform

import "strings"

// MonthTokens are the monthly column names of the wide rainfall table, in
// calendar order.
var MonthTokens = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

var monthNumbers = map[string]int32{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// MonthNumber maps a month token to 1-12. Unknown tokens report false.
func MonthNumber(token string) (int32, bool) {
	n, ok := monthNumbers[strings.ToLower(strings.TrimSpace(token))]
	return n, ok
}

// monthPtr is MonthNumber with a nil result for unknown tokens.
func monthPtr(token string) *int32 {
	n, ok := MonthNumber(token)
	if !ok {
		return nil
	}
	return &n
}
