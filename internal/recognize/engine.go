package recognize

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/zyron/internal/detection"
	"github.com/ironsheep/zyron/internal/imaging"
	"github.com/ironsheep/zyron/internal/logging"
	"github.com/ironsheep/zyron/internal/store"
)

// Options configures an Engine.
type Options struct {
	// Dimension is the canonical side length of normalized slots.
	Dimension int

	// Threshold is the darkness threshold for segmentation and binarization.
	Threshold imaging.Threshold

	// KeepUnterminated emits a final character that touches the right edge.
	KeepUnterminated bool

	// Workers bounds concurrent slot matching. Zero means GOMAXPROCS.
	Workers int

	// MaxCandidates caps the ranked word list.
	MaxCandidates int

	// CacheMasks keeps normalized exemplar masks between matching passes.
	CacheMasks bool

	Logger logrus.FieldLogger
}

// DefaultOptions returns the canonical 400x400 square, threshold 50 and ten candidates.
func DefaultOptions() Options {
	return Options{
		Dimension:        imaging.DefaultDimension,
		Threshold:        imaging.DefaultThreshold,
		KeepUnterminated: true,
		MaxCandidates:    DefaultMaxCandidates,
	}
}

// ProgressFunc receives the number of finished slots after each one completes.
// Calls are serialized.
type ProgressFunc func(done, total int)

// Slot is one character position of the word being recognized.
type Slot struct {
	Index int          `json:"index"`
	Span  imaging.Span `json:"span"`

	// Raw is the segmented sub-raster before normalization. It is what gets
	// stored as an exemplar on confirmation.
	Raw imaging.Raster `json:"-"`

	Normalized imaging.Raster `json:"-"`
	Mask       imaging.Mask   `json:"-"`
}

// StoredExemplar records where a confirmed slot was persisted.
type StoredExemplar struct {
	Letter string `json:"letter"`
	Index  int    `json:"index"`
}

// Confirmation describes the effect of a successful ConfirmWord.
type Confirmation struct {
	Word      string           `json:"word"`
	Exemplars []StoredExemplar `json:"exemplars"`
	WordAdded bool             `json:"word_added"`
}

// Engine runs the recognition pipeline against a repository.
type Engine struct {
	repo    store.Repository
	matcher *Matcher
	opts    Options
	log     logrus.FieldLogger
}

// NewEngine returns an engine over repo. Zero-valued Dimension, Threshold and
// MaxCandidates fall back to their defaults.
func NewEngine(repo store.Repository, opts Options) *Engine {
	def := DefaultOptions()
	if opts.Dimension <= 0 {
		opts.Dimension = def.Dimension
	}
	if opts.Threshold == 0 {
		opts.Threshold = def.Threshold
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = def.MaxCandidates
	}
	log := logging.OrDiscard(opts.Logger)

	return &Engine{
		repo:    repo,
		matcher: NewMatcher(repo, opts.Dimension, opts.Threshold, opts.CacheMasks, log),
		opts:    opts,
		log:     log,
	}
}

// Options returns the effective engine options.
func (e *Engine) Options() Options { return e.opts }

// SegmentAndNormalize splits raw into slots and normalizes and binarizes each.
//
// Returns:
//   - []Slot: Slots in left-to-right order, possibly empty.
//   - error: *InvalidInputError for an empty raster, or a normalization failure.
func (e *Engine) SegmentAndNormalize(raw imaging.Raster) ([]Slot, error) {
	if raw.Empty() {
		return nil, invalidInput("raster", "image has no pixels")
	}

	segs, err := detection.SegmentColumns(raw, detection.Options{
		Threshold:        e.opts.Threshold,
		KeepUnterminated: e.opts.KeepUnterminated,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to segment word: %w", err)
	}

	slots := make([]Slot, len(segs))
	for i, seg := range segs {
		n, err := imaging.Normalize(seg.Raster, e.opts.Dimension, e.opts.Threshold)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize slot %d: %w", i, err)
		}
		slots[i] = Slot{
			Index:      i,
			Span:       seg.Span,
			Raw:        seg.Raster,
			Normalized: n,
			Mask:       imaging.Binarize(n, e.opts.Threshold),
		}
	}

	e.log.WithField("slots", len(slots)).Debug("segmented word")
	return slots, nil
}

// BuildConfidenceMappings scores every slot against the exemplar library.
//
// The library is read once per call, so exemplars confirmed before the call
// are always included. Slots are matched by a bounded set of workers; the
// returned mappings are in slot order and each is sorted best first.
//
// Parameters:
//   - ctx: Cancelling ctx stops handing out slots and returns ctx.Err().
//   - slots: Output of SegmentAndNormalize.
//   - progress: Optional; called once per finished slot.
func (e *Engine) BuildConfidenceMappings(ctx context.Context, slots []Slot, progress ProgressFunc) ([]Confidence, error) {
	if len(slots) == 0 {
		return []Confidence{}, nil
	}

	lib, err := e.matcher.LoadLibrary(ctx)
	if err != nil {
		return nil, err
	}

	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(slots))

	results := make([]Confidence, len(slots))
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = Rank(e.matcher.Match(slots[i].Mask, lib))

				mu.Lock()
				done++
				if progress != nil {
					progress(done, len(slots))
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for i := range slots {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("matching cancelled: %w", err)
	}
	return results, nil
}

// Dictionary returns a snapshot of the dictionary. A missing dictionary is empty.
func (e *Engine) Dictionary() ([]string, error) {
	words, err := e.repo.Words()
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return words, nil
}

// RankWordCandidates returns the best dictionary words for mappings.
func (e *Engine) RankWordCandidates(mappings []Confidence, dictionary []string) ([]Candidate, error) {
	if len(mappings) == 0 {
		return nil, invalidInput("mappings", "no slots to score")
	}
	return ScoreWords(mappings, dictionary, e.opts.MaxCandidates), nil
}

// ConfirmWord stores each raw slot as a new exemplar of the corresponding
// letter of word, then adds word to the dictionary if it is new.
//
// The whole input is validated before anything is written. A write failure
// stops the confirmation and is returned wrapping *store.PersistenceError;
// exemplars stored before the failure remain.
func (e *Engine) ConfirmWord(word string, raw []imaging.Raster) (*Confirmation, error) {
	word = store.NormalizeWord(word)
	if word == "" {
		return nil, invalidInput("word", "empty")
	}
	if !store.ValidWord(word) {
		return nil, invalidInput("word", "%q contains characters outside a-z", word)
	}
	if len(word) != len(raw) {
		return nil, invalidInput("word", "%q has %d letters but there are %d slots", word, len(word), len(raw))
	}
	for i, r := range raw {
		if r.Empty() {
			return nil, invalidInput("slot", "slot %d has no pixels", i)
		}
	}

	conf := &Confirmation{Word: word, Exemplars: make([]StoredExemplar, 0, len(raw))}
	for i, letter := range word {
		idx, err := e.repo.AddExemplar(letter, raw[i])
		e.matcher.Invalidate(letter)
		if err != nil {
			return nil, fmt.Errorf("failed to store slot %d as %q: %w", i, letter, err)
		}
		conf.Exemplars = append(conf.Exemplars, StoredExemplar{Letter: string(letter), Index: idx})
	}

	exists, err := e.repo.WordExists(word)
	if err != nil {
		return nil, fmt.Errorf("failed to check dictionary: %w", err)
	}
	if !exists {
		if err := e.repo.AddWord(word); err != nil {
			return nil, fmt.Errorf("failed to add %q to dictionary: %w", word, err)
		}
		conf.WordAdded = true
	}

	e.log.WithFields(logrus.Fields{"word": word, "word_added": conf.WordAdded}).Info("confirmed word")
	return conf, nil
}
