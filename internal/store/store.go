package store

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/zyron/internal/imaging"
)

// Letters lists the exemplar groups in order.
var Letters = []rune("abcdefghijklmnopqrstuvwxyz")

// ErrNotFound reports an absent exemplar group or dictionary file.
// Callers treat it as an empty result.
var ErrNotFound = errors.New("not found")

// Repository is the persistent exemplar library plus dictionary.
//
// Implementations must make a successful AddExemplar visible to the next
// ListExemplars call for that letter, and a successful AddWord visible to the
// next Words and WordExists call.
type Repository interface {
	// ListExemplars returns every stored raster for letter in unspecified order.
	ListExemplars(letter rune) ([]imaging.Raster, error)

	// AddExemplar stores r as the next exemplar of letter and returns its index.
	AddExemplar(letter rune, r imaging.Raster) (int, error)

	// WordExists reports whether word is already in the dictionary.
	WordExists(word string) (bool, error)

	// AddWord appends word to the dictionary.
	AddWord(word string) error

	// Words returns a snapshot of the dictionary.
	Words() ([]string, error)
}

// ValidLetter reports whether r names an exemplar group.
func ValidLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// ValidWord reports whether w is non-empty and made only of a-z.
func ValidWord(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !ValidLetter(r) {
			return false
		}
	}
	return true
}

// NormalizeWord folds compatibility characters, trims space and lowercases w.
func NormalizeWord(w string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(w)))
}

// CorruptError reports a stored entry that could not be read.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt entry %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// PersistenceError reports a failed write to the library or dictionary.
type PersistenceError struct {
	// Op is the operation that failed, such as "add exemplar" or "add word".
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
