package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// tagRe matches the start of an HTML tag, comment or doctype.
var tagRe = regexp.MustCompile(`<[a-zA-Z/!]`)

// maxMarkupPasses bounds re-parsing when decoded text still holds markup.
const maxMarkupPasses = 3

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"ml":         "Machine Learning",
	"ai":         "AI",
	"pm":         "Product Management",
}

// CleanText strips any HTML markup the model emitted and collapses whitespace.
// Text without a tag is left as written, entities included, so a cleaned value
// cleans to itself.
func CleanText(text string) string {
	for i := 0; i < maxMarkupPasses && tagRe.MatchString(text); i++ {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err != nil {
			break
		}
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTitle returns the comparison form of a role title: lower case,
// single spaces, no trailing punctuation.
func NormalizeTitle(title string) string {
	title = strings.ToLower(strings.Join(strings.Fields(title), " "))
	return strings.TrimRight(title, ".,;:!?")
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Acronyms (SQL, AWS) and mixed case (PostgreSQL) are kept as written
	if normalized != lower {
		return normalized
	}

	// Single lowercase word: capitalize first letter
	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// NormalizeSkills canonicalizes and de-duplicates a skill list, preserving order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		name := NormalizeSkillName(CleanText(skill))
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
