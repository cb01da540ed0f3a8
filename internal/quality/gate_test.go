package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-pathfinder/internal/types"
)

func node(title, description string) types.CareerPathNode {
	return types.CareerPathNode{Title: title, Level: types.LevelMid, Description: description}
}

func goodNodes() []types.CareerPathNode {
	return []types.CareerPathNode{
		node("Product Analyst", "Builds reporting on product usage data"),
		node("Associate Product Manager", "Owns small features with a product team"),
		node("Product Manager", "Drives the roadmap with stakeholders"),
		node("Senior Product Manager", "Sets product strategy for a portfolio"),
	}
}

func TestEvaluate_Pass(t *testing.T) {
	v := NewGate(DefaultRules()).Evaluate(goodNodes(), "Product Manager")

	assert.True(t, v.Passed)
	assert.Equal(t, types.ReasonNone, v.Reason)
}

func TestEvaluate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		nodes  func() []types.CareerPathNode
		reason types.FailureReason
	}{
		{
			name:   "too few stages",
			nodes:  func() []types.CareerPathNode { return goodNodes()[:3] },
			reason: types.ReasonInsufficientStages,
		},
		{
			name: "adjacent duplicate titles",
			nodes: func() []types.CareerPathNode {
				n := goodNodes()
				n[2].Title = "associate product manager."
				return n
			},
			reason: types.ReasonTitlesNotDistinct,
		},
		{
			name: "non-adjacent duplicate titles",
			nodes: func() []types.CareerPathNode {
				n := goodNodes()
				n[3].Title = "Product Analyst"
				return n
			},
			reason: types.ReasonTitlesNotDistinct,
		},
		{
			name: "short description",
			nodes: func() []types.CareerPathNode {
				n := goodNodes()
				n[1].Description = "Does PM work"
				return n
			},
			reason: types.ReasonDescriptionTooShort,
		},
		{
			name: "no keywords",
			nodes: func() []types.CareerPathNode {
				n := goodNodes()
				for i := range n {
					n[i].Description = "Something happens here at some point"
				}
				return n
			},
			reason: types.ReasonMissingKeywords,
		},
	}

	g := NewGate(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Evaluate(tt.nodes(), "Product Manager")

			assert.False(t, v.Passed)
			assert.Equal(t, tt.reason, v.Reason)
			assert.NotEmpty(t, v.Details)
		})
	}
}

func TestEvaluate_ChecksInOrder(t *testing.T) {
	// Short and duplicated: the duplicate is reported first.
	nodes := goodNodes()
	nodes[1].Title = nodes[0].Title
	nodes[1].Description = "x"

	v := NewGate(DefaultRules()).Evaluate(nodes, "Product Manager")

	assert.Equal(t, types.ReasonTitlesNotDistinct, v.Reason)
}

func TestKeywords(t *testing.T) {
	g := NewGate(Rules{Vocabulary: []string{"Roadmap", "data"}})

	assert.Equal(t, []string{"data", "scientist", "roadmap"}, g.Keywords("Senior Data Scientist"))
}

func TestEvaluate_InflectedKeywords(t *testing.T) {
	g := NewGate(Rules{MinKeywords: 2, Vocabulary: []string{"manage"}})
	nodes := []types.CareerPathNode{
		node("Nurse", "Cares for patients on the ward"),
		node("Charge Nurse", "Manages a shift of ward nurses"),
		node("Nurse Manager", "Managed budgets for the whole unit"),
		node("Director of Nursing", "Oversees nursing across the hospital"),
	}

	v := g.Evaluate(nodes, "Director of Nursing")

	assert.True(t, v.Passed, v.Details)
}

func TestWithDefaults(t *testing.T) {
	r := Rules{MinKeywords: 5}.WithDefaults()

	assert.Equal(t, 4, r.MinStages)
	assert.Equal(t, 15, r.MinDescriptionLength)
	assert.Equal(t, 5, r.MinKeywords)
	assert.NotEmpty(t, r.Vocabulary)
}
