package schemas

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/jonathan/career-pathfinder/internal/llm"
	"github.com/jonathan/career-pathfinder/internal/types"
)

//go:embed career_path_output.schema.json
var outputSchema string

// OutputSchema returns the JSON Schema model output must satisfy.
func OutputSchema() string {
	return outputSchema
}

// ValidateModelOutput parses raw model text into a ValidatedModelOutput.
//
// Markdown fences and prose around the JSON are stripped first. Two common shapes
// are lifted into the canonical one before schema validation: a bare array of nodes
// and an object with a top-level "nodes" array. The check is type-only; values are
// left to the guard mapper.
//
// Errors are *ParseError for text that is not JSON and *OutputSchemaError for JSON of
// the wrong shape.
func ValidateModelOutput(text string) (*types.ValidatedModelOutput, error) {
	doc := extractJSON(text)
	if doc == "" {
		return nil, &ParseError{Message: "model output contains no JSON"}
	}

	var generic any
	if err := json.Unmarshal([]byte(doc), &generic); err != nil {
		return nil, &ParseError{Message: "model output is not valid JSON", Cause: err}
	}
	if lifted, ok := liftShape(generic); ok {
		b, err := json.Marshal(lifted)
		if err != nil {
			return nil, &ParseError{Message: "failed to re-encode model output", Cause: err}
		}
		doc = string(b)
	}

	fieldErrors, err := ValidateJSONString(outputSchema, doc)
	if err != nil {
		return nil, &ParseError{Message: "model output could not be checked", Cause: err}
	}
	if len(fieldErrors) > 0 {
		return nil, &OutputSchemaError{Errors: fieldErrors}
	}

	var out types.ValidatedModelOutput
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, &ParseError{Message: "failed to decode model output", Cause: err}
	}
	return &out, nil
}

// extractJSON removes code fences and any preamble or trailer around the JSON
// value. It returns "" when the text has no JSON at all.
func extractJSON(text string) string {
	text = llm.CleanJSONBlock(text)
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return ""
	}
	return text
}

func liftShape(v any) (any, bool) {
	switch doc := v.(type) {
	case []any:
		return map[string]any{"paths": []any{map[string]any{"nodes": doc}}}, true
	case map[string]any:
		if _, hasPaths := doc["paths"]; hasPaths {
			return nil, false
		}
		if nodes, ok := doc["nodes"]; ok {
			path := map[string]any{"nodes": nodes}
			if name, ok := doc["name"]; ok {
				path["name"] = name
			}
			return map[string]any{"paths": []any{path}}, true
		}
	}
	return nil, false
}
