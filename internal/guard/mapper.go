package guard

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-pathfinder/internal/normalize"
	"github.com/jonathan/career-pathfinder/internal/types"
)

// MapResult is the outcome of mapping one path. When Rejected is true, Nodes is nil
// and Reason names the first hard rule that failed.
type MapResult struct {
	Rejected bool
	Reason   types.FailureReason
	Details  string
	Nodes    []types.CareerPathNode
}

func reject(reason types.FailureReason, format string, args ...any) MapResult {
	return MapResult{Rejected: true, Reason: reason, Details: fmt.Sprintf(format, args...)}
}

// Rejection is a per-node hard rule failure.
type Rejection struct {
	Reason  types.FailureReason
	Details string
}

var levelSynonyms = map[string]types.Level{
	"entry": types.LevelEntry, "junior": types.LevelEntry, "jr": types.LevelEntry,
	"intern": types.LevelEntry, "internship": types.LevelEntry, "associate": types.LevelEntry,
	"graduate": types.LevelEntry, "trainee": types.LevelEntry, "apprentice": types.LevelEntry,
	"mid": types.LevelMid, "intermediate": types.LevelMid, "experienced": types.LevelMid,
	"professional": types.LevelMid,
	"senior": types.LevelSenior, "sr": types.LevelSenior, "expert": types.LevelSenior,
	"lead": types.LevelLead, "principal": types.LevelLead, "staff": types.LevelLead,
	"manager": types.LevelLead, "team lead": types.LevelLead,
	"executive": types.LevelExecutive, "director": types.LevelExecutive,
	"vp": types.LevelExecutive, "vice president": types.LevelExecutive,
	"head": types.LevelExecutive, "chief": types.LevelExecutive, "c level": types.LevelExecutive,
}

var growthSynonyms = map[string]types.GrowthPotential{
	"low": types.GrowthLow, "limited": types.GrowthLow, "minimal": types.GrowthLow,
	"medium": types.GrowthMedium, "moderate": types.GrowthMedium, "average": types.GrowthMedium,
	"steady": types.GrowthMedium,
	"high": types.GrowthHigh, "very high": types.GrowthHigh, "strong": types.GrowthHigh,
	"rapid": types.GrowthHigh, "excellent": types.GrowthHigh, "significant": types.GrowthHigh,
}

// Mapper applies the guard rules. It holds no per-request state and is safe for
// concurrent use.
type Mapper struct {
	rules       Rules
	actionVerbs map[string]struct{}
	certs       *certFilter
}

// NewMapper creates a Mapper from rules. Zero fields fall back to DefaultRules.
func NewMapper(rules Rules) *Mapper {
	rules = rules.WithDefaults()
	verbs := make(map[string]struct{}, len(rules.ActionVerbs))
	for _, v := range rules.ActionVerbs {
		verbs[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return &Mapper{
		rules:       rules,
		actionVerbs: verbs,
		certs:       newCertFilter(rules.TrustedCertDomains, rules.IssuerAliases),
	}
}

// Rules returns the rule set in effect.
func (m *Mapper) Rules() Rules {
	return m.rules
}

// Map converts a raw path into trusted nodes. Any hard rejection discards the whole
// path: a partially trustworthy ladder is never returned.
func (m *Mapper) Map(path types.RawPath, targetRole string) MapResult {
	if len(path.Nodes) == 0 {
		return reject(types.ReasonEmptyPath, "path %q has no nodes", path.Name)
	}

	nodes := make([]types.CareerPathNode, 0, len(path.Nodes))
	for i, raw := range path.Nodes {
		node, rej := m.MapNode(raw)
		if rej != nil {
			return reject(rej.Reason, "node %d (%q): %s", i+1, raw.Title, rej.Details)
		}
		if i > 0 && node.YearsExperience < nodes[i-1].YearsExperience {
			return reject(types.ReasonNonMonotonicExperience,
				"node %d (%q) needs %.2f years, less than the %.2f years of node %d",
				i+1, node.Title, node.YearsExperience, nodes[i-1].YearsExperience, i)
		}
		nodes = append(nodes, node)
	}

	last := nodes[len(nodes)-1]
	if score := TitleSimilarity(last.Title, targetRole); score < m.rules.TargetSimilarity {
		return reject(types.ReasonTargetMismatch,
			"final node %q does not match target role %q (similarity %.2f < %.2f)",
			last.Title, targetRole, score, m.rules.TargetSimilarity)
	}

	return MapResult{Nodes: nodes}
}

// MapNode applies the per-node guards.
func (m *Mapper) MapNode(raw types.RawNode) (types.CareerPathNode, *Rejection) {
	title := normalize.CleanText(raw.Title)
	if title == "" {
		return types.CareerPathNode{}, &Rejection{Reason: types.ReasonActionVerbTitle, Details: "title is empty"}
	}
	if verb, ok := m.leadingActionVerb(title); ok {
		return types.CareerPathNode{}, &Rejection{
			Reason:  types.ReasonActionVerbTitle,
			Details: fmt.Sprintf("title starts with action verb %q, which describes a task, not a role", verb),
		}
	}

	level, ok := canonicalLevel(raw.Level)
	if !ok {
		return types.CareerPathNode{}, &Rejection{
			Reason:  types.ReasonInvalidLevel,
			Details: fmt.Sprintf("unknown level %q", raw.Level),
		}
	}

	growth, ok := canonicalGrowth(raw.GrowthPotential)
	if !ok {
		return types.CareerPathNode{}, &Rejection{
			Reason:  types.ReasonInvalidGrowthPotential,
			Details: fmt.Sprintf("unknown growth potential %q", raw.GrowthPotential),
		}
	}

	years, ok := normalize.ParseYearsExperience(raw.YearsExperience.String())
	if !ok {
		return types.CareerPathNode{}, &Rejection{
			Reason: types.ReasonInvalidExperience,
			Details: fmt.Sprintf("years_experience %q is not a career-stage duration in years (min %.2f)",
				raw.YearsExperience.String(), normalize.MinYearsExperience),
		}
	}

	node := types.CareerPathNode{
		Title:           title,
		Level:           level,
		YearsExperience: years,
		Skills:          normalize.NormalizeSkills(raw.Skills),
		Certifications:  m.certs.filter(raw.Certifications),
		GrowthPotential: growth,
		Description:     normalize.CleanText(raw.Description),
	}
	if salary, ok := normalize.ParseSalary(raw.SalaryRange.String(), m.rules.SalaryMultiplier); ok {
		low, high := salary.Low, salary.High
		node.SalaryLow = &low
		node.SalaryHigh = &high
	}
	return node, nil
}

func (m *Mapper) leadingActionVerb(title string) (string, bool) {
	fields := strings.Fields(strings.ToLower(title))
	if len(fields) == 0 {
		return "", false
	}
	first := strings.Trim(fields[0], ".,:;!?\"'()")
	_, ok := m.actionVerbs[first]
	return first, ok
}

func canonicalKey(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSuffix(s, " level")
	s = strings.TrimSuffix(s, " potential")
	return s
}

func canonicalLevel(raw string) (types.Level, bool) {
	key := canonicalKey(raw)
	if l, ok := levelSynonyms[key]; ok {
		return l, true
	}
	if fields := strings.Fields(key); len(fields) > 1 {
		l, ok := levelSynonyms[fields[0]]
		return l, ok
	}
	return "", false
}

func canonicalGrowth(raw string) (types.GrowthPotential, bool) {
	key := canonicalKey(raw)
	if g, ok := growthSynonyms[key]; ok {
		return g, true
	}
	if fields := strings.Fields(key); len(fields) > 1 {
		g, ok := growthSynonyms[fields[0]]
		return g, ok
	}
	return "", false
}

// ToRawNode renders a trusted node back into the raw shape the model emits.
// Mapping the result again yields the same node.
func ToRawNode(node types.CareerPathNode) types.RawNode {
	raw := types.RawNode{
		Title:           node.Title,
		Level:           string(node.Level),
		YearsExperience: types.FlexText(normalize.FormatYears(node.YearsExperience)),
		Skills:          append([]string(nil), node.Skills...),
		Certifications:  append([]string(nil), node.Certifications...),
		GrowthPotential: string(node.GrowthPotential),
		Description:     node.Description,
	}
	if node.SalaryLow != nil && node.SalaryHigh != nil {
		raw.SalaryRange = types.FlexText(normalize.FormatSalary(*node.SalaryLow, *node.SalaryHigh))
	}
	return raw
}
