// Package quality implements the holistic quality gate applied to a mapped career path.
package quality

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/career-pathfinder/internal/normalize"
	"github.com/jonathan/career-pathfinder/internal/types"
)

// Rules holds the gate thresholds.
type Rules struct {
	// MinStages is the minimum number of nodes in an accepted path.
	MinStages int `mapstructure:"min_stages"`
	// MinDescriptionLength is the minimum length, in characters, of every node description.
	MinDescriptionLength int `mapstructure:"min_description_length"`
	// MinKeywords is the minimum number of distinct domain keywords found across all
	// descriptions combined.
	MinKeywords int `mapstructure:"min_keywords"`
	// Vocabulary is the career vocabulary counted as keywords in addition to the
	// target role's own words.
	Vocabulary []string `mapstructure:"vocabulary"`
}

// DefaultRules returns the production thresholds.
func DefaultRules() Rules {
	return Rules{
		MinStages:            4,
		MinDescriptionLength: 15,
		MinKeywords:          2,
		Vocabulary: []string{
			"analysis", "architecture", "budget", "client", "collaborate", "customer",
			"data", "design", "develop", "lead", "manage", "mentor", "operations",
			"product", "project", "reporting", "research", "roadmap", "strategy",
			"stakeholder", "team", "technical",
		},
	}
}

// WithDefaults fills zero-valued fields from DefaultRules.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if r.MinStages <= 0 {
		r.MinStages = d.MinStages
	}
	if r.MinDescriptionLength <= 0 {
		r.MinDescriptionLength = d.MinDescriptionLength
	}
	if r.MinKeywords <= 0 {
		r.MinKeywords = d.MinKeywords
	}
	if len(r.Vocabulary) == 0 {
		r.Vocabulary = d.Vocabulary
	}
	return r
}

var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "of": {}, "senior": {}, "junior": {},
	"lead": {}, "head": {}, "chief": {}, "associate": {}, "principal": {}, "staff": {},
}

// Gate evaluates mapped nodes. It is stateless and safe for concurrent use.
type Gate struct {
	rules      Rules
	vocabulary []string
}

// NewGate creates a Gate. Zero fields of rules fall back to DefaultRules.
func NewGate(rules Rules) *Gate {
	rules = rules.WithDefaults()
	vocab := make([]string, 0, len(rules.Vocabulary))
	for _, v := range rules.Vocabulary {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			vocab = append(vocab, v)
		}
	}
	return &Gate{rules: rules, vocabulary: vocab}
}

// Rules returns the thresholds in effect.
func (g *Gate) Rules() Rules {
	return g.rules
}

// Evaluate runs the checks in order and returns the first failure.
func (g *Gate) Evaluate(nodes []types.CareerPathNode, targetRole string) types.QualityVerdict {
	if len(nodes) < g.rules.MinStages {
		return types.Fail(types.ReasonInsufficientStages,
			fmt.Sprintf("path has %d stages, need at least %d", len(nodes), g.rules.MinStages))
	}

	seen := make(map[string]int, len(nodes))
	for i, n := range nodes {
		key := normalize.NormalizeTitle(n.Title)
		if j, dup := seen[key]; dup {
			return types.Fail(types.ReasonTitlesNotDistinct,
				fmt.Sprintf("stages %d and %d share the title %q", j+1, i+1, n.Title))
		}
		seen[key] = i
	}

	for i, n := range nodes {
		if l := len([]rune(strings.TrimSpace(n.Description))); l < g.rules.MinDescriptionLength {
			return types.Fail(types.ReasonDescriptionTooShort,
				fmt.Sprintf("stage %d (%q) description has %d characters, need at least %d",
					i+1, n.Title, l, g.rules.MinDescriptionLength))
		}
	}

	found := g.keywordsFound(nodes, targetRole)
	if len(found) < g.rules.MinKeywords {
		return types.Fail(types.ReasonMissingKeywords,
			fmt.Sprintf("descriptions mention %d domain keywords %v, need at least %d",
				len(found), found, g.rules.MinKeywords))
	}

	return types.Pass()
}

// Keywords returns the keyword set for a target role: its significant words plus
// the configured vocabulary, de-duplicated.
func (g *Gate) Keywords(targetRole string) []string {
	out := make([]string, 0, len(g.vocabulary)+4)
	seen := make(map[string]struct{})
	add := func(w string) {
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, w := range tokenize(targetRole) {
		if _, stop := stopwords[w]; len(w) >= 3 && !stop {
			add(w)
		}
	}
	for _, w := range g.vocabulary {
		add(w)
	}
	return out
}

func (g *Gate) keywordsFound(nodes []types.CareerPathNode, targetRole string) []string {
	words := make(map[string]struct{})
	for _, n := range nodes {
		for _, w := range tokenize(n.Description) {
			words[w] = struct{}{}
		}
	}

	var found []string
	for _, kw := range g.Keywords(targetRole) {
		if containsKeyword(words, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// containsKeyword matches a keyword against description words, allowing simple
// inflections ("manage" matches "manages" and "managed").
func containsKeyword(words map[string]struct{}, kw string) bool {
	if _, ok := words[kw]; ok {
		return true
	}
	for w := range words {
		if len(w) > len(kw) && strings.HasPrefix(w, kw) && len(w)-len(kw) <= 3 {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
