package recognize

import (
	"sort"

	"github.com/ironsheep/zyron/internal/store"
)

// DefaultMaxCandidates is how many word candidates are returned by default.
const DefaultMaxCandidates = 10

// Candidate is a dictionary word with its aggregate slot score.
type Candidate struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// ScoreWords ranks dictionary words against per-slot confidence mappings.
//
// Only words whose length equals len(mappings) are considered. A word scores
// the sum, over each position i, of mappings[i]'s score for the word's i-th
// letter. Duplicate words are scored once; words with characters outside a-z
// are skipped. Results are sorted by score descending, then by word ascending,
// and truncated to limit entries (limit <= 0 means no limit).
func ScoreWords(mappings []Confidence, dictionary []string, limit int) []Candidate {
	candidates := make([]Candidate, 0)
	if len(mappings) == 0 {
		return candidates
	}

	tables := make([]map[rune]float64, len(mappings))
	for i, m := range mappings {
		tables[i] = m.lookup()
	}

	seen := make(map[string]bool)
	for _, word := range dictionary {
		if len(word) != len(mappings) || seen[word] || !store.ValidWord(word) {
			continue
		}
		seen[word] = true

		total := 0.0
		for i, letter := range word {
			total += tables[i][letter]
		}
		candidates = append(candidates, Candidate{Word: word, Score: total})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Word < candidates[j].Word
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
