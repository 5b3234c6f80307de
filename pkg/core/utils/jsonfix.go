// Package utils contains small shared helpers: lenient JSON parsing for LLM
// output and Markdown cleanup for narratives.
package utils

import (
	"encoding/json"
	"fmt"
	"regexp"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// RepairJSON attempts to fix common JSON errors from LLM outputs: missing
// quotes around keys, single quotes, unclosed brackets, trailing commas,
// markdown code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ExtractObject pulls a JSON object out of free-form LLM text, trying
// progressively more lenient strategies:
//
//  1. strict JSON
//  2. json-repair
//  3. Hjson (comments, unquoted keys, optional commas)
//  4. the first {...} block embedded in surrounding prose, repaired
//
// The second return is false when no strategy produced an object.
func ExtractObject(s string) (map[string]interface{}, bool) {
	if s == "" {
		return nil, false
	}

	if m, ok := decodeObject(s); ok {
		return m, true
	}

	if repaired, err := RepairJSON(s); err == nil {
		if m, ok := decodeObject(repaired); ok {
			return m, true
		}
	}

	var loose map[string]interface{}
	if err := hjson.Unmarshal([]byte(s), &loose); err == nil && len(loose) > 0 {
		// Hjson parses into its own node types; round-trip through JSON so
		// callers only ever see plain maps, slices and scalars.
		if normalized, err := json.Marshal(loose); err == nil {
			if m, ok := decodeObject(string(normalized)); ok {
				return m, true
			}
		}
	}

	if block := jsonBlockRe.FindString(s); block != "" && block != s {
		if m, ok := decodeObject(block); ok {
			return m, true
		}
		if repaired, err := RepairJSON(block); err == nil {
			if m, ok := decodeObject(repaired); ok {
				return m, true
			}
		}
	}

	return nil, false
}

func decodeObject(s string) (map[string]interface{}, bool) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, m != nil
}
