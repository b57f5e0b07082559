package recognize

import (
	"context"
	"errors"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/zyron/internal/imaging"
	"github.com/ironsheep/zyron/internal/logging"
	"github.com/ironsheep/zyron/internal/store"
)

// Library is a snapshot of normalized exemplar masks keyed by letter.
type Library map[rune][]imaging.Mask

// Size returns the total number of exemplar masks.
func (l Library) Size() int {
	n := 0
	for _, masks := range l {
		n += len(masks)
	}
	return n
}

// Matcher scores slot masks against the exemplar library.
//
// Every exemplar is normalized and binarized exactly like an input slot, so
// all compared masks have the same dimensions.
type Matcher struct {
	repo      store.Repository
	dim       int
	threshold imaging.Threshold
	log       logrus.FieldLogger

	// masks holds normalized exemplar masks per letter; nil when disabled.
	masks *cache.Cache
}

// NewMatcher returns a matcher reading from repo. When cacheMasks is set,
// normalized exemplars are kept in memory until Invalidate is called for
// their letter.
func NewMatcher(repo store.Repository, dim int, t imaging.Threshold, cacheMasks bool, log logrus.FieldLogger) *Matcher {
	m := &Matcher{
		repo:      repo,
		dim:       dim,
		threshold: t,
		log:       logging.OrDiscard(log),
	}
	if cacheMasks {
		m.masks = cache.New(cache.NoExpiration, 0)
	}
	return m
}

// ExemplarMasks returns the normalized masks of every readable exemplar of letter.
//
// An absent group yields no masks and no error. Exemplars that cannot be
// normalized are logged and skipped.
func (m *Matcher) ExemplarMasks(letter rune) ([]imaging.Mask, error) {
	key := string(letter)
	if m.masks != nil {
		if v, ok := m.masks.Get(key); ok {
			return v.([]imaging.Mask), nil
		}
	}

	rasters, err := m.repo.ListExemplars(letter)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list exemplars for %q: %w", letter, err)
	}

	masks := make([]imaging.Mask, 0, len(rasters))
	for i, r := range rasters {
		n, err := imaging.Normalize(r, m.dim, m.threshold)
		if err != nil {
			m.log.WithFields(logrus.Fields{"letter": string(letter), "position": i}).
				WithError(err).Warn("skipping exemplar that cannot be normalized")
			continue
		}
		masks = append(masks, imaging.Binarize(n, m.threshold))
	}

	if m.masks != nil {
		m.masks.Set(key, masks, cache.NoExpiration)
	}
	return masks, nil
}

// Invalidate drops cached masks for letter.
func (m *Matcher) Invalidate(letter rune) {
	if m.masks != nil {
		m.masks.Delete(string(letter))
	}
}

// LoadLibrary reads the exemplar masks of all 26 letters.
//
// A group that cannot be read is logged and treated as empty. Only context
// cancellation aborts the load.
func (m *Matcher) LoadLibrary(ctx context.Context) (Library, error) {
	lib := make(Library, len(store.Letters))
	for _, letter := range store.Letters {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("library load cancelled: %w", err)
		}
		masks, err := m.ExemplarMasks(letter)
		if err != nil {
			m.log.WithField("letter", string(letter)).WithError(err).Warn("treating unreadable exemplar group as empty")
			continue
		}
		lib[letter] = masks
	}
	m.log.WithField("exemplars", lib.Size()).Debug("loaded exemplar library")
	return lib, nil
}

// Match returns, for every letter a-z, the best similarity between mask and
// that letter's exemplars. Letters without exemplars score 0.
func (m *Matcher) Match(mask imaging.Mask, lib Library) map[rune]float64 {
	scores := make(map[rune]float64, len(store.Letters))
	for _, letter := range store.Letters {
		best := 0.0
		for _, ex := range lib[letter] {
			sim, err := mask.Similarity(ex)
			if err != nil {
				m.log.WithField("letter", string(letter)).WithError(err).Debug("skipping incomparable exemplar")
				continue
			}
			if sim > best {
				best = sim
			}
		}
		scores[letter] = best
	}
	return scores
}
