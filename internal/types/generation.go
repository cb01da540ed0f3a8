// Package types provides type definitions for structured data used throughout the career-path pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// GenerationRequest is the validated inbound request for a career path.
type GenerationRequest struct {
	TargetRole string `json:"targetRole" validate:"required,max=120"`
	Region     string `json:"region,omitempty" validate:"omitempty,max=80"`
}

// ValidatedModelOutput is model output that passed the structural contract.
// Nothing in it has been semantically checked yet.
type ValidatedModelOutput struct {
	Paths []RawPath `json:"paths"`
}

// RawPath is one candidate career ladder proposed by the model.
type RawPath struct {
	Name  string    `json:"name,omitempty"`
	Nodes []RawNode `json:"nodes"`
}

// RawNode is an untrusted node record as emitted by the model.
type RawNode struct {
	Title           string   `json:"title"`
	Level           string   `json:"level"`
	SalaryRange     FlexText `json:"salary_range"`
	YearsExperience FlexText `json:"years_experience"`
	Skills          []string `json:"skills"`
	Certifications  []string `json:"certifications"`
	GrowthPotential string   `json:"growth_potential"`
	Description     string   `json:"description"`
}

// FlexText holds a free-text field that models emit either as a JSON string or a
// bare JSON number ("2 years" vs 2).
type FlexText string

// UnmarshalJSON accepts a string, a number or null.
func (f *FlexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexText(n.String())
	return nil
}

// String returns the trimmed text.
func (f FlexText) String() string {
	return strings.TrimSpace(string(f))
}
