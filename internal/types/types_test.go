package types

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexText_UnmarshalJSON(t *testing.T) {
	var node RawNode
	require.NoError(t, json.Unmarshal([]byte(`{"salary_range": 85000, "years_experience": " 2-3 years "}`), &node))
	assert.Equal(t, "85000", node.SalaryRange.String())
	assert.Equal(t, "2-3 years", node.YearsExperience.String())

	require.NoError(t, json.Unmarshal([]byte(`{"salary_range": null, "years_experience": 1.5}`), &node))
	assert.Empty(t, node.SalaryRange.String())
	assert.Equal(t, "1.5", node.YearsExperience.String())

	assert.Error(t, json.Unmarshal([]byte(`{"salary_range": true}`), &node))
}

func TestPriority_Rank(t *testing.T) {
	tasks := []Priority{PriorityLow, PriorityHigh, Priority("unknown"), PriorityMedium}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Rank() < tasks[j].Rank() })
	assert.Equal(t, []Priority{PriorityHigh, PriorityMedium, PriorityLow, Priority("unknown")}, tasks)
}

func TestResult_Kinds(t *testing.T) {
	results := []Result{
		&CareerPathResult{Kind: KindCareerPath, ID: "a"},
		&GuidanceResult{Kind: KindProfileGuidance, ID: "b"},
	}
	assert.Equal(t, KindCareerPath, results[0].ResultKind())
	assert.Equal(t, "a", results[0].ResultID())
	assert.Equal(t, KindProfileGuidance, results[1].ResultKind())
	assert.Equal(t, "b", results[1].ResultID())
}

func TestQualityVerdict(t *testing.T) {
	assert.True(t, Pass().Passed)
	v := Fail(ReasonMissingKeywords, "found 1 of 2")
	assert.False(t, v.Passed)
	assert.Equal(t, ReasonMissingKeywords, v.Reason)
}

func TestCareerPathNode_OmitsUnknownSalary(t *testing.T) {
	b, err := json.Marshal(CareerPathNode{Title: "Nurse", Level: LevelEntry, YearsExperience: 1})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "salaryLow")
}
