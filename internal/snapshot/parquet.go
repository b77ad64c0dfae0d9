// Package snapshot persists canonical tables as Parquet files and their
// plain-text provenance sidecars.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"samarth-platform/internal/models"
)

// WriteCrop replaces the crop snapshot at path.
func WriteCrop(path string, records []models.CropRecord) error {
	return writeParquet(path, records)
}

// WriteRainfall replaces the rainfall snapshot at path.
func WriteRainfall(path string, records []models.RainfallRecord) error {
	return writeParquet(path, records)
}

func ReadCrop(path string) ([]models.CropRecord, error) {
	records, err := parquet.ReadFile[models.CropRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crop snapshot %s: %w", path, err)
	}
	return records, nil
}

func ReadRainfall(path string) ([]models.RainfallRecord, error) {
	records, err := parquet.ReadFile[models.RainfallRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rainfall snapshot %s: %w", path, err)
	}
	return records, nil
}

func writeParquet[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return writeAtomic(path, func(tmp string) error {
		if err := parquet.WriteFile(tmp, rows); err != nil {
			return fmt.Errorf("failed to write parquet %s: %w", path, err)
		}
		return nil
	})
}

// writeAtomic lets write fill a temporary sibling of path, then renames it
// into place so readers never observe a partial file.
func writeAtomic(path string, write func(tmp string) error) error {
	tmp := path + ".tmp"
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
