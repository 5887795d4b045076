package form

import (
	"encoding/json"
	"fmt"
)

// The persisted form record stores questions and settings as JSON text in
// scalar string fields; these helpers are the only place that shape lives.

func EncodeQuestions(qs []Question) (string, error) {
	if qs == nil {
		qs = []Question{}
	}
	data, err := json.Marshal(qs)
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}
	return string(data), nil
}

func DecodeQuestions(s string) ([]Question, error) {
	if s == "" {
		return []Question{}, nil
	}
	var qs []Question
	if err := json.Unmarshal([]byte(s), &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return qs, nil
}

func EncodeSettings(settings map[string]any) (string, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(data), nil
}

func DecodeSettings(s string) (map[string]any, error) {
	if s == "" {
		return map[string]any{}, nil
	}
	var settings map[string]any
	if err := json.Unmarshal([]byte(s), &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}
