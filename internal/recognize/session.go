package recognize

import (
	"context"
	"fmt"
	"sync"

	"github.com/ironsheep/zyron/internal/imaging"
)

// State is a conversion session's position in the recognition workflow.
type State int

const (
	Idle State = iota
	Captured
	Segmented
	Normalized
	Matched
	Ranked
	Scored
	AwaitingConfirmation
	Confirmed
	Learned
	Discarded
)

var stateNames = map[State]string{
	Idle:                 "idle",
	Captured:             "captured",
	Segmented:            "segmented",
	Normalized:           "normalized",
	Matched:              "matched",
	Ranked:               "ranked",
	Scored:               "scored",
	AwaitingConfirmation: "awaiting_confirmation",
	Confirmed:            "confirmed",
	Learned:              "learned",
	Discarded:            "discarded",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether s ends a session.
func (s State) Terminal() bool {
	return s == Learned || s == Discarded
}

// Session drives one word through the pipeline on behalf of a front end.
//
// Each method checks that the session is in the state it expects and returns
// an error wrapping ErrInvalidTransition otherwise. The session itself never
// advances without a call.
//
// Session is safe for concurrent use. While Match runs, other calls that
// change state fail with ErrInvalidTransition.
type Session struct {
	engine *Engine

	mu         sync.Mutex
	state      State
	busy       bool
	raw        imaging.Raster
	slots      []Slot
	mappings   []Confidence
	candidates []Candidate
	result     *Confirmation
	history    []State
}

// NewSession returns an idle session backed by e.
func NewSession(e *Engine) *Session {
	return &Session{engine: e, state: Idle}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// expect checks the current state against allowed. Callers hold s.mu.
func (s *Session) expect(op string, allowed ...State) error {
	if s.busy {
		return fmt.Errorf("%s: session busy: %w", op, ErrInvalidTransition)
	}
	for _, a := range allowed {
		if s.state == a {
			return nil
		}
	}
	return fmt.Errorf("%s not allowed in state %s: %w", op, s.state, ErrInvalidTransition)
}

// Capture starts a new word. It is allowed when idle or after a session ended.
func (s *Session) Capture(raw imaging.Raster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect("capture", Idle, Learned, Discarded); err != nil {
		return err
	}
	if raw.Empty() {
		return invalidInput("raster", "image has no pixels")
	}

	s.reset()
	s.raw = raw
	s.advance(Captured)
	return nil
}

// Segment cuts the captured raster into slots and normalizes them.
// A raster with no characters is rejected and the session stays Captured.
func (s *Session) Segment() ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect("segment", Captured); err != nil {
		return nil, err
	}

	slots, err := s.engine.SegmentAndNormalize(s.raw)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, invalidInput("raster", "no characters found")
	}

	s.slots = slots
	s.advance(Segmented, Normalized)
	return slots, nil
}

// Match builds the ranked confidence mappings for every slot.
//
// The session lock is released while matching runs so State and the accessors
// stay responsive. On error the session stays Normalized.
func (s *Session) Match(ctx context.Context, progress ProgressFunc) ([]Confidence, error) {
	s.mu.Lock()
	if err := s.expect("match", Normalized); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.busy = true
	slots := s.slots
	s.mu.Unlock()

	mappings, err := s.engine.BuildConfidenceMappings(ctx, slots, progress)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return nil, err
	}

	s.mappings = mappings
	s.advance(Matched, Ranked)
	return mappings, nil
}

// Score ranks dictionary words against the mappings and waits for a decision.
func (s *Session) Score() ([]Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect("score", Ranked); err != nil {
		return nil, err
	}

	dict, err := s.engine.Dictionary()
	if err != nil {
		return nil, err
	}
	candidates, err := s.engine.RankWordCandidates(s.mappings, dict)
	if err != nil {
		return nil, err
	}

	s.candidates = candidates
	s.advance(Scored, AwaitingConfirmation)
	return candidates, nil
}

// Confirm accepts word, which may be one of the candidates or a correction
// typed by the user, and teaches it to the library.
//
// If validation or persistence fails the session returns to
// AwaitingConfirmation so the user can try again or discard.
func (s *Session) Confirm(word string) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect("confirm", AwaitingConfirmation); err != nil {
		return nil, err
	}

	s.advance(Confirmed)
	raw := make([]imaging.Raster, len(s.slots))
	for i, slot := range s.slots {
		raw[i] = slot.Raw
	}

	result, err := s.engine.ConfirmWord(word, raw)
	if err != nil {
		s.advance(AwaitingConfirmation)
		return nil, err
	}

	s.result = result
	s.advance(Learned)
	return result, nil
}

// Discard abandons the current word without touching the library.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect("discard", Captured, Normalized, Ranked, AwaitingConfirmation); err != nil {
		return err
	}
	s.advance(Discarded)
	return nil
}

// Raw returns the captured raster.
func (s *Session) Raw() imaging.Raster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Slots returns the slots of the current word.
func (s *Session) Slots() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Slot(nil), s.slots...)
}

// Mappings returns the confidence mappings of the current word.
func (s *Session) Mappings() []Confidence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Confidence(nil), s.mappings...)
}

// Candidates returns the ranked words of the current word.
func (s *Session) Candidates() []Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Candidate(nil), s.candidates...)
}

// Result returns the last confirmation, or nil.
func (s *Session) Result() *Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// History returns every state the current word has passed through, starting
// with Captured.
func (s *Session) History() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]State(nil), s.history...)
}

func (s *Session) advance(states ...State) {
	for _, st := range states {
		s.state = st
		s.history = append(s.history, st)
	}
}

func (s *Session) reset() {
	s.history = nil
	s.raw = imaging.Raster{}
	s.slots = nil
	s.mappings = nil
	s.candidates = nil
	s.result = nil
}
