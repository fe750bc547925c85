// Package fuzzy ranks option names and command values by similarity to a
// mistyped token. Used by the parser for "did you mean" suggestions.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Matcher finds candidates within a maximum edit distance of the input
type Matcher struct {
	maxDistance int
	minLength   int
	params      *levenshtein.Params
}

// NewMatcher creates a new fuzzy matcher with the given max edit distance
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // Don't suggest for very short inputs
		params:      levenshtein.NewParams().MaxCost(maxDistance + 1),
	}
}

// Match represents a fuzzy match result
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best matching candidate, or "" when none is close enough
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns the candidates within range, best first. Comparison
// ignores case: exact matches are skipped and candidates differing only in
// case are reported once, in their first spelling.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len(input) < m.minLength {
		return nil
	}

	input = strings.ToLower(input)
	seen := make(map[string]struct{}, len(candidates))
	var matches []Match
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}

		if lower == input {
			continue
		}
		distance := levenshtein.Distance(input, lower, m.params)
		if distance > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: distance,
			Score:    score(input, lower, distance),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// score weighs edit distance with a shared-prefix bonus and a length
// similarity bonus, clamped to 1.0.
func score(input, candidate string, distance int) float64 {
	maxLen := max(len(input), len(candidate))
	if maxLen == 0 {
		return 1.0
	}

	s := 1.0 - float64(distance)/float64(maxLen)
	if prefix := commonPrefixLength(input, candidate); prefix > 0 {
		s += float64(prefix) / float64(min(len(input), len(candidate))) * 0.3
	}
	lengthDiff := len(input) - len(candidate)
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	s += (1.0 - float64(lengthDiff)/float64(maxLen)) * 0.2

	return min(s, 1.0)
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// FindBestFlag finds the best matching option name
func FindBestFlag(input string, flags []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, flags)
}

// FindBestCommand finds the best matching command value
func FindBestCommand(input string, commands []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, commands)
}

// FindSuggestions returns up to maxSuggestions candidates, best first
func FindSuggestions(input string, candidates []string, maxDistance, maxSuggestions int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)
	suggestions := make([]string, 0, min(len(matches), maxSuggestions))
	for _, match := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, match.Value)
	}
	return suggestions
}
