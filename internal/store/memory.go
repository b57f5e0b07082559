package store

import (
	"fmt"
	"sync"

	"github.com/ironsheep/zyron/internal/imaging"
)

// Memory is a Repository held entirely in memory.
type Memory struct {
	mu        sync.RWMutex
	exemplars map[rune][]imaging.Raster
	lastIndex map[rune]int
	words     []string
	wordSet   map[string]bool
}

// NewMemory returns an empty repository seeded with words.
func NewMemory(words ...string) *Memory {
	m := &Memory{
		exemplars: make(map[rune][]imaging.Raster),
		lastIndex: make(map[rune]int),
		wordSet:   make(map[string]bool),
	}
	for _, w := range words {
		w = NormalizeWord(w)
		if w == "" || m.wordSet[w] {
			continue
		}
		m.wordSet[w] = true
		m.words = append(m.words, w)
	}
	return m
}

func (m *Memory) ListExemplars(letter rune) ([]imaging.Raster, error) {
	if !ValidLetter(letter) {
		return nil, fmt.Errorf("invalid letter %q", letter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	group, ok := m.exemplars[letter]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]imaging.Raster(nil), group...), nil
}

func (m *Memory) AddExemplar(letter rune, r imaging.Raster) (int, error) {
	if !ValidLetter(letter) {
		return 0, fmt.Errorf("invalid letter %q", letter)
	}
	if r.Empty() {
		return 0, &PersistenceError{Op: "add exemplar", Path: string(letter), Err: fmt.Errorf("empty raster")}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastIndex[letter]++
	m.exemplars[letter] = append(m.exemplars[letter], r)
	return m.lastIndex[letter], nil
}

func (m *Memory) WordExists(word string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wordSet[NormalizeWord(word)], nil
}

func (m *Memory) AddWord(word string) error {
	word = NormalizeWord(word)
	if !ValidWord(word) {
		return fmt.Errorf("invalid word %q: must be non-empty a-z", word)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wordSet[word] {
		return nil
	}
	m.wordSet[word] = true
	m.words = append(m.words, word)
	return nil
}

func (m *Memory) Words() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.words...), nil
}
