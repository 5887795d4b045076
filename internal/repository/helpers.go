package repository

import (
	"encoding/json"
	"fmt"
)

// decodeInto maps a raw store document onto a typed record via JSON.
func decodeInto(doc map[string]any, dst any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal doc: %w", err)
	}
	return nil
}

// encodeFields flattens a typed record into store fields, dropping the
// server-owned id and timestamps.
func encodeFields(src any) (map[string]any, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "createdAt")
	delete(fields, "updatedAt")
	return fields, nil
}
