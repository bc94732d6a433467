package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance still suggested
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions is the number of suggestions returned
	DefaultMaxSuggestions = 3
)

// FuzzyMatchOptions configures fuzzy matching behavior
type FuzzyMatchOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

type suggestion struct {
	value    string
	distance int
}

// FindSimilar returns the candidates closest to target, closest first.
// Ties keep the order of candidates.
//
//	FindSimilar("Levle", []string{"Level", "Menu"}, nil) // ["Level"]
func FindSimilar(target string, candidates []string, opts *FuzzyMatchOptions) []string {
	options := FuzzyMatchOptions{}
	if opts != nil {
		options = *opts
	}
	if options.MaxDistance == 0 {
		options.MaxDistance = DefaultMaxDistance
	}
	if options.MaxSuggestions == 0 {
		options.MaxSuggestions = DefaultMaxSuggestions
	}

	key := func(s string) string {
		if options.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}

	var suggestions []suggestion
	for _, candidate := range candidates {
		if dist := LevenshteinDistance(key(target), key(candidate)); dist <= options.MaxDistance {
			suggestions = append(suggestions, suggestion{value: candidate, distance: dist})
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].distance < suggestions[j].distance
	})

	result := make([]string, 0, options.MaxSuggestions)
	for i := 0; i < len(suggestions) && i < options.MaxSuggestions; i++ {
		result = append(result, suggestions[i].value)
	}
	return result
}

// LevenshteinDistance counts the single-rune insertions, deletions and
// substitutions turning s1 into s2
func LevenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
