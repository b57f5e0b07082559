package recognize

import (
	"encoding/json"
	"sort"

	"github.com/ironsheep/zyron/internal/store"
)

// LetterScore is one letter's best match percentage for a slot.
type LetterScore struct {
	Letter rune    `json:"-"`
	Score  float64 `json:"score"`
}

// MarshalJSON writes the letter as a one-character string.
func (ls LetterScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Letter string  `json:"letter"`
		Score  float64 `json:"score"`
	}{string(ls.Letter), ls.Score})
}

// Confidence is a slot's scores for all 26 letters, best first.
type Confidence []LetterScore

// Rank orders scores descending, breaking ties by ascending letter.
// Letters missing from scores are included with a score of 0.
func Rank(scores map[rune]float64) Confidence {
	c := make(Confidence, 0, len(store.Letters))
	for _, l := range store.Letters {
		c = append(c, LetterScore{Letter: l, Score: scores[l]})
	}
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		return c[i].Letter < c[j].Letter
	})
	return c
}

// Score returns the score of letter, or 0 if it is not present.
func (c Confidence) Score(letter rune) float64 {
	for _, ls := range c {
		if ls.Letter == letter {
			return ls.Score
		}
	}
	return 0
}

// Top returns at most n leading entries.
func (c Confidence) Top(n int) Confidence {
	if n < 0 || n > len(c) {
		n = len(c)
	}
	return c[:n]
}

// lookup converts c into a letter-keyed table for word scoring.
func (c Confidence) lookup() map[rune]float64 {
	m := make(map[rune]float64, len(c))
	for _, ls := range c {
		m[ls.Letter] = ls.Score
	}
	return m
}
