// Package careerpath drives the model through prompt variants and turns the first
// trustworthy answer into a career path, or falls back to profile guidance.
package careerpath

import (
	"github.com/jonathan/career-pathfinder/internal/prompts"
	"github.com/jonathan/career-pathfinder/internal/schemas"
	"github.com/jonathan/career-pathfinder/internal/types"
)

const promptFile = "career_path.json"

// PromptVariant is one strategy for asking the model for a career path.
type PromptVariant struct {
	Name  string
	Build func(req types.GenerationRequest) (string, error)
}

// variants is ordered from most to least specific and never modified.
var variants = []PromptVariant{
	{Name: "detailed", Build: templateBuilder("detailed")},
	{Name: "standard", Build: templateBuilder("standard")},
	{Name: "minimal", Build: templateBuilder("minimal")},
}

func init() {
	for _, v := range variants {
		prompts.MustGet(promptFile, v.Name)
	}
}

// Variants returns the prompt variants in the order they are tried.
// The returned slice is a copy.
func Variants() []PromptVariant {
	return append([]PromptVariant(nil), variants...)
}

func templateBuilder(key string) func(types.GenerationRequest) (string, error) {
	return func(req types.GenerationRequest) (string, error) {
		return prompts.Render(promptFile, key, map[string]string{
			"TargetRole":   req.TargetRole,
			"Region":       regionPhrase(req.Region),
			"OutputSchema": schemas.OutputSchema(),
		})
	}
}

func regionPhrase(region string) string {
	if region == "" {
		return "in the general job market"
	}
	return "in " + region
}
