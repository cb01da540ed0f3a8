package guard

import (
	"strings"

	"github.com/jonathan/career-pathfinder/internal/normalize"
)

// levenshtein returns the edit distance between a and b, counted in runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// ratio is 1 - distance/maxLen, in [0,1].
func ratio(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// TitleSimilarity scores how well a node title matches the requested role.
// The title is compared whole and by its trailing words, so a seniority prefix
// ("Senior Product Manager" vs "Product Manager") does not count against it.
func TitleSimilarity(title, target string) float64 {
	t := normalize.NormalizeTitle(title)
	g := normalize.NormalizeTitle(target)
	if t == "" || g == "" {
		return 0
	}
	if t == g {
		return 1
	}

	best := ratio(t, g)
	titleWords := strings.Fields(t)
	targetWords := strings.Fields(g)
	if len(titleWords) > len(targetWords) {
		tail := strings.Join(titleWords[len(titleWords)-len(targetWords):], " ")
		best = max(best, ratio(tail, g))
	}
	return best
}
