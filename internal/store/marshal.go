package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/irreduce/internal/ir"
)

// marshalStats converts module sizes to canonical JSON TEXT for storage.
func marshalStats(st ir.Stats) (string, error) {
	data, err := ir.MarshalCanonical(map[string]any{
		"functions":     st.Functions,
		"instructions":  st.Instructions,
		"struct_fields": st.StructFields,
		"struct_types":  st.StructTypes,
	})
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	return string(data), nil
}

// unmarshalStats parses the TEXT written by marshalStats.
func unmarshalStats(data string) (ir.Stats, error) {
	var st ir.Stats
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return ir.Stats{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	return st, nil
}

// marshalPasses converts a pass list to canonical JSON TEXT.
func marshalPasses(passes []string) (string, error) {
	if passes == nil {
		passes = []string{}
	}
	data, err := ir.MarshalCanonical(passes)
	if err != nil {
		return "", fmt.Errorf("marshal passes: %w", err)
	}
	return string(data), nil
}

// unmarshalPasses parses the TEXT written by marshalPasses.
func unmarshalPasses(data string) ([]string, error) {
	passes := []string{}
	if err := json.Unmarshal([]byte(data), &passes); err != nil {
		return nil, fmt.Errorf("unmarshal passes: %w", err)
	}
	return passes, nil
}
