package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-pathfinder/internal/types"
)

func rawNode(title, level, years string) types.RawNode {
	return types.RawNode{
		Title:           title,
		Level:           level,
		SalaryRange:     "$80k - $100k",
		YearsExperience: types.FlexText(years),
		Skills:          []string{"SQL", "Communication"},
		Certifications:  []string{"PMP (pmi.org)"},
		GrowthPotential: "high",
		Description:     "Works with the product team on roadmap decisions",
	}
}

func productManagerPath() types.RawPath {
	return types.RawPath{
		Name: "Product track",
		Nodes: []types.RawNode{
			rawNode("Associate Product Analyst", "entry", "3 months"),
			rawNode("Product Analyst", "junior", "1-2 years"),
			rawNode("Associate Product Manager", "mid", "2-3 years"),
			rawNode("Product Manager", "mid", "4 yrs"),
			rawNode("Senior Product Manager", "senior", "6+ years"),
		},
	}
}

func TestMap_Success(t *testing.T) {
	m := NewMapper(DefaultRules())

	res := m.Map(productManagerPath(), "Product Manager")

	require.False(t, res.Rejected, res.Details)
	require.Len(t, res.Nodes, 5)
	assert.Equal(t, types.LevelEntry, res.Nodes[1].Level)
	assert.Equal(t, 0.25, res.Nodes[0].YearsExperience)
	assert.Equal(t, 6.0, res.Nodes[4].YearsExperience)
	require.NotNil(t, res.Nodes[0].SalaryLow)
	assert.Equal(t, 80000.0, *res.Nodes[0].SalaryLow)
	assert.Equal(t, 100000.0, *res.Nodes[0].SalaryHigh)
	assert.Equal(t, []string{"PMP (pmi.org)"}, res.Nodes[0].Certifications)
}

func TestMap_EmptyPath(t *testing.T) {
	res := NewMapper(DefaultRules()).Map(types.RawPath{Name: "none"}, "Product Manager")

	assert.True(t, res.Rejected)
	assert.Equal(t, types.ReasonEmptyPath, res.Reason)
	assert.Nil(t, res.Nodes)
}

func TestMap_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *types.RawPath)
		reason types.FailureReason
	}{
		{
			name:   "action verb title",
			mutate: func(p *types.RawPath) { p.Nodes[2].Title = "Complete a PM certification" },
			reason: types.ReasonActionVerbTitle,
		},
		{
			name:   "empty title",
			mutate: func(p *types.RawPath) { p.Nodes[0].Title = "   " },
			reason: types.ReasonActionVerbTitle,
		},
		{
			name:   "unknown level",
			mutate: func(p *types.RawPath) { p.Nodes[1].Level = "wizard" },
			reason: types.ReasonInvalidLevel,
		},
		{
			name:   "unknown growth",
			mutate: func(p *types.RawPath) { p.Nodes[1].GrowthPotential = "sideways" },
			reason: types.ReasonInvalidGrowthPotential,
		},
		{
			name:   "minutes",
			mutate: func(p *types.RawPath) { p.Nodes[3].YearsExperience = "15 minutes" },
			reason: types.ReasonInvalidExperience,
		},
		{
			name:   "missing experience",
			mutate: func(p *types.RawPath) { p.Nodes[3].YearsExperience = "" },
			reason: types.ReasonInvalidExperience,
		},
		{
			name:   "decreasing experience",
			mutate: func(p *types.RawPath) { p.Nodes[3].YearsExperience = "1 year" },
			reason: types.ReasonNonMonotonicExperience,
		},
		{
			name:   "unrelated terminal node",
			mutate: func(p *types.RawPath) { p.Nodes[4].Title = "Barista" },
			reason: types.ReasonTargetMismatch,
		},
	}

	m := NewMapper(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := productManagerPath()
			tt.mutate(&path)

			res := m.Map(path, "Product Manager")

			assert.True(t, res.Rejected)
			assert.Equal(t, tt.reason, res.Reason)
			assert.NotEmpty(t, res.Details)
			assert.Nil(t, res.Nodes)
		})
	}
}

func TestMap_ExperienceDetailsNameTheUnit(t *testing.T) {
	path := productManagerPath()
	for i := range path.Nodes {
		path.Nodes[i].YearsExperience = "15 minutes"
	}

	res := NewMapper(DefaultRules()).Map(path, "Product Manager")

	require.True(t, res.Rejected)
	assert.Equal(t, types.ReasonInvalidExperience, res.Reason)
	assert.Contains(t, res.Details, "15 minutes")
}

func TestMap_BaristaForDataScientist(t *testing.T) {
	path := types.RawPath{Nodes: []types.RawNode{
		rawNode("Data Analyst", "entry", "1 year"),
		rawNode("Analytics Engineer", "mid", "3 years"),
		rawNode("Barista", "senior", "5 years"),
	}}

	res := NewMapper(DefaultRules()).Map(path, "Data Scientist")

	assert.True(t, res.Rejected)
	assert.Equal(t, types.ReasonTargetMismatch, res.Reason)
}

func TestMapNode_SalaryToleratesGarbage(t *testing.T) {
	raw := rawNode("Product Manager", "mid", "3 years")
	raw.SalaryRange = "Profile update"

	node, rej := NewMapper(DefaultRules()).MapNode(raw)

	require.Nil(t, rej)
	assert.Nil(t, node.SalaryLow)
	assert.Nil(t, node.SalaryHigh)
}

func TestMapNode_Synonyms(t *testing.T) {
	m := NewMapper(DefaultRules())
	tests := []struct {
		level  string
		growth string
		want   types.Level
		wantG  types.GrowthPotential
	}{
		{"Junior", "Moderate", types.LevelEntry, types.GrowthMedium},
		{"Mid-Level", "very high", types.LevelMid, types.GrowthHigh},
		{"Principal", "limited", types.LevelLead, types.GrowthLow},
		{"Director", "High potential", types.LevelExecutive, types.GrowthHigh},
		{"senior level", "MEDIUM", types.LevelSenior, types.GrowthMedium},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			raw := rawNode("Product Manager", tt.level, "3 years")
			raw.GrowthPotential = tt.growth

			node, rej := m.MapNode(raw)

			require.Nil(t, rej)
			assert.Equal(t, tt.want, node.Level)
			assert.Equal(t, tt.wantG, node.GrowthPotential)
		})
	}
}

func TestMapNode_CertificationFilter(t *testing.T) {
	raw := rawNode("Product Manager", "mid", "3 years")
	raw.Certifications = []string{
		"AWS Certified Cloud Practitioner",
		"Certified ScrumMaster (CSM)",
		"Node.js Fundamentals",
		"https://www.udemy.com/course/pm-bootcamp",
		"Tableau Desktop Specialist",
		"aws certified cloud practitioner",
		"Google Project Management Certificate",
	}

	node, rej := NewMapper(DefaultRules()).MapNode(raw)

	require.Nil(t, rej)
	assert.Equal(t, []string{
		"AWS Certified Cloud Practitioner",
		"Certified ScrumMaster (CSM)",
		"Tableau Desktop Specialist",
		"Google Project Management Certificate",
	}, node.Certifications)
}

func TestMapNode_DurationIsNotSalary(t *testing.T) {
	for _, salary := range []string{"15 minutes", "5+ years", "3 hours"} {
		raw := rawNode("Product Manager", "mid", "3 years")
		raw.SalaryRange = types.FlexText(salary)

		node, rej := NewMapper(DefaultRules()).MapNode(raw)

		require.Nil(t, rej, salary)
		assert.Nil(t, node.SalaryLow, salary)
		assert.Nil(t, node.SalaryHigh, salary)
	}
}

func TestMapNode_CleansTextFields(t *testing.T) {
	raw := rawNode("  Product   Manager ", "mid", "3")
	raw.Description = "<p>Owns the <b>roadmap</b></p>"
	raw.Skills = []string{"sql", "SQL", " roadmapping "}

	node, rej := NewMapper(DefaultRules()).MapNode(raw)

	require.Nil(t, rej)
	assert.Equal(t, "Product Manager", node.Title)
	assert.Equal(t, "Owns the roadmap", node.Description)
	assert.Equal(t, 3.0, node.YearsExperience)
	assert.Len(t, node.Skills, 2)
}

func TestMap_Idempotent(t *testing.T) {
	m := NewMapper(DefaultRules())
	path := productManagerPath()
	path.Nodes[1].Description = "Builds &lt;div&gt; dashboards for the product team"
	path.Nodes[2].Description = "<p>Owns <b>P&amp;L</b> reporting for the product line</p>"
	path.Nodes[3].Title = "Product <i>Manager</i>"
	first := m.Map(path, "Product Manager")
	require.False(t, first.Rejected, first.Details)

	again := types.RawPath{}
	for _, n := range first.Nodes {
		again.Nodes = append(again.Nodes, ToRawNode(n))
	}
	second := m.Map(again, "Product Manager")

	require.False(t, second.Rejected, second.Details)
	assert.Equal(t, first.Nodes, second.Nodes)
}

func TestNewMapper_CustomRules(t *testing.T) {
	rules := Rules{ActionVerbs: []string{"Barista"}, TargetSimilarity: 0.95}
	m := NewMapper(rules)

	assert.Equal(t, 0.95, m.Rules().TargetSimilarity)
	assert.Equal(t, RulesVersion, m.Rules().Version)

	_, rej := m.MapNode(rawNode("barista trainer", "entry", "1 year"))
	require.NotNil(t, rej)
	assert.Equal(t, types.ReasonActionVerbTitle, rej.Reason)
}
