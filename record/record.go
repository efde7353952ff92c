// Package record implements the flat-record persistence format shared by the
// overlay managers: an ordered JSON array with one flat object per entity.
// Files are read and written wholesale; there are no partial or append
// writes.
package record

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveList writes the entities to path as an indented JSON array, replacing
// any existing file.
func SaveList[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadList reads an ordered JSON array of flat records from path. A decode
// failure of any element fails the whole load.
func LoadList[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return items, nil
}
