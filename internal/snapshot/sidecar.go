package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"samarth-platform/internal/models"
)

// Sidecar line labels.
const (
	labelResource = "API Resource ID"
	labelRows     = "Total Rows"
	labelPages    = "Pages Fetched"
	labelFetched  = "Downloaded"
	labelMethod   = "Method"

	// Unknown fills provenance fields that could not be carried over.
	Unknown = "unknown"

	// TimestampLayout is the fetch timestamp format.
	TimestampLayout = "2006-01-02 15:04:05"
)

// SidecarPath returns the provenance file path for a data file.
func SidecarPath(dataPath string) string {
	return dataPath + ".source.txt"
}

// RawSidecarPath returns the provenance file path for a raw download:
// the extension is replaced, so crop.csv pairs with crop.source.txt.
func RawSidecarPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, ".csv") + ".source.txt"
}

// WriteRawSidecar writes the five-line record of a paginated download.
func WriteRawSidecar(path string, p models.Provenance) error {
	lines := []string{
		fmt.Sprintf("%s: %s", labelResource, p.ResourceID),
		fmt.Sprintf("%s: %d", labelRows, p.RowCount),
		fmt.Sprintf("%s: %d", labelPages, p.Pages),
		fmt.Sprintf("%s: %s", labelFetched, p.FetchedAt),
		fmt.Sprintf("%s: %s", labelMethod, p.Method),
	}
	return writeLines(path, lines)
}

// WriteSidecar writes the four-line record of a canonical snapshot.
func WriteSidecar(path string, p models.Provenance) error {
	lines := []string{
		fmt.Sprintf("%s: %s", labelResource, orUnknown(p.ResourceID)),
		fmt.Sprintf("%s: %d", labelRows, p.RowCount),
		fmt.Sprintf("%s: %s", labelFetched, orUnknown(p.FetchedAt)),
		fmt.Sprintf("%s: %s", labelMethod, orUnknown(p.Method)),
	}
	return writeLines(path, lines)
}

// ReadSidecar parses either sidecar form. Unrecognized lines are ignored.
func ReadSidecar(path string) (*models.Provenance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &models.Provenance{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case labelResource:
			p.ResourceID = value
		case labelRows:
			if n, err := strconv.Atoi(value); err == nil {
				p.RowCount = n
			}
		case labelPages:
			if n, err := strconv.Atoi(value); err == nil {
				p.Pages = n
			}
		case labelFetched:
			p.FetchedAt = value
		case labelMethod:
			p.Method = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sidecar %s: %w", path, err)
	}

	return p, nil
}

func writeLines(path string, lines []string) error {
	return writeAtomic(path, func(tmp string) error {
		return os.WriteFile(tmp, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
	})
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
