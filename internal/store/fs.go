package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/zyron/internal/imaging"
	"github.com/ironsheep/zyron/internal/logging"
)

var exemplarName = regexp.MustCompile(`^([a-z])-([0-9]+)\.jpg$`)

// FSOptions configures an FS repository.
type FSOptions struct {
	// JPEGQuality for new exemplar files. Zero means 90.
	JPEGQuality int

	// Logger receives warnings about skipped files. Nil discards them.
	Logger logrus.FieldLogger
}

// FS stores exemplars as JPEG files and the dictionary as a text file.
type FS struct {
	root     string
	dictPath string
	quality  int
	log      logrus.FieldLogger

	mu sync.Mutex
}

// NewFS returns a repository rooted at root with its dictionary at dictPath.
// Neither path has to exist yet.
func NewFS(root, dictPath string, opts FSOptions) *FS {
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = 90
	}
	return &FS{
		root:     root,
		dictPath: dictPath,
		quality:  quality,
		log:      logging.OrDiscard(opts.Logger),
	}
}

// Root returns the library root directory.
func (f *FS) Root() string { return f.root }

// DictionaryPath returns the dictionary file path.
func (f *FS) DictionaryPath() string { return f.dictPath }

func (f *FS) groupDir(letter rune) string {
	return filepath.Join(f.root, string(letter))
}

type exemplarFile struct {
	path  string
	index int
}

// scanGroup lists the well-named exemplar files of letter sorted by index.
func (f *FS) scanGroup(letter rune) ([]exemplarFile, error) {
	entries, err := os.ReadDir(f.groupDir(letter))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read group %c: %w", letter, err)
	}

	files := make([]exemplarFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := exemplarName.FindStringSubmatch(e.Name())
		if m == nil || rune(m[1][0]) != letter {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil || idx <= 0 {
			f.log.WithField("file", e.Name()).Warn("ignoring exemplar with invalid index")
			continue
		}
		files = append(files, exemplarFile{path: filepath.Join(f.groupDir(letter), e.Name()), index: idx})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })
	return files, nil
}

// ListExemplars decodes every exemplar of letter, skipping unreadable files.
func (f *FS) ListExemplars(letter rune) ([]imaging.Raster, error) {
	if !ValidLetter(letter) {
		return nil, fmt.Errorf("invalid letter %q", letter)
	}
	files, err := f.scanGroup(letter)
	if err != nil {
		return nil, err
	}

	rasters := make([]imaging.Raster, 0, len(files))
	for _, ef := range files {
		r, err := imaging.Open(ef.path)
		if err != nil {
			f.log.WithError(&CorruptError{Path: ef.path, Err: err}).Warn("skipping unreadable exemplar")
			continue
		}
		rasters = append(rasters, r)
	}
	return rasters, nil
}

// NextIndex returns the index the next exemplar of letter will receive.
func (f *FS) NextIndex(letter rune) (int, error) {
	files, err := f.scanGroup(letter)
	if errors.Is(err, ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 1, nil
	}
	return files[len(files)-1].index + 1, nil
}

// AddExemplar writes r as <root>/<letter>/<letter>-<n>.jpg.
//
// The file is written to a temporary name and renamed into place, so a failed
// write never leaves a truncated exemplar behind.
func (f *FS) AddExemplar(letter rune, r imaging.Raster) (int, error) {
	if !ValidLetter(letter) {
		return 0, fmt.Errorf("invalid letter %q", letter)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := f.groupDir(letter)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, &PersistenceError{Op: "create exemplar group", Path: dir, Err: err}
	}

	idx, err := f.NextIndex(letter)
	if err != nil {
		return 0, &PersistenceError{Op: "scan exemplar group", Path: dir, Err: err}
	}
	path := filepath.Join(dir, fmt.Sprintf("%c-%d.jpg", letter, idx))

	tmp, err := os.CreateTemp(dir, ".exemplar-*")
	if err != nil {
		return 0, &PersistenceError{Op: "add exemplar", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if err := imaging.EncodeJPEG(tmp, r, f.quality); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, &PersistenceError{Op: "add exemplar", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, &PersistenceError{Op: "add exemplar", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, &PersistenceError{Op: "add exemplar", Path: path, Err: err}
	}

	f.log.WithFields(logrus.Fields{"letter": string(letter), "index": idx}).Debug("stored exemplar")
	return idx, nil
}

// maxDictionaryLine bounds a dictionary line in bytes. Longer lines are
// skipped as corrupt.
const maxDictionaryLine = 256

// Words reads the dictionary, normalizing each line and dropping blanks.
// Duplicate lines are kept once, in first-seen order. Over-long lines are
// logged and skipped.
func (f *FS) Words() ([]string, error) {
	file, err := os.Open(f.dictPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	seen := make(map[string]bool)
	words := make([]string, 0)
	reader := bufio.NewReader(file)
	for lineNo := 1; ; lineNo++ {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read dictionary %s: %w", f.dictPath, readErr)
		}

		if len(line) > maxDictionaryLine {
			f.log.WithError(&CorruptError{
				Path: fmt.Sprintf("%s:%d", f.dictPath, lineNo),
				Err:  fmt.Errorf("line of %d bytes exceeds %d", len(line), maxDictionaryLine),
			}).Warn("skipping dictionary line")
		} else if w := NormalizeWord(line); w != "" && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}

		if readErr != nil {
			return words, nil
		}
	}
}

// WordExists scans the dictionary for word. A missing dictionary holds no words.
func (f *FS) WordExists(word string) (bool, error) {
	words, err := f.Words()
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	word = NormalizeWord(word)
	for _, w := range words {
		if w == word {
			return true, nil
		}
	}
	return false, nil
}

// AddWord appends word on its own line, creating the dictionary if needed.
// Adding a word that is already present leaves the file unchanged.
func (f *FS) AddWord(word string) error {
	word = NormalizeWord(word)
	if !ValidWord(word) {
		return fmt.Errorf("invalid word %q: must be non-empty a-z", word)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	exists, err := f.WordExists(word)
	if err != nil {
		return &PersistenceError{Op: "read dictionary", Path: f.dictPath, Err: err}
	}
	if exists {
		return nil
	}

	if dir := filepath.Dir(f.dictPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &PersistenceError{Op: "create dictionary directory", Path: dir, Err: err}
		}
	}

	file, err := os.OpenFile(f.dictPath, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return &PersistenceError{Op: "add word", Path: f.dictPath, Err: err}
	}
	defer file.Close()

	line := word + "\n"
	terminated, err := endsWithNewline(file)
	if err != nil {
		return &PersistenceError{Op: "add word", Path: f.dictPath, Err: err}
	}
	if !terminated {
		line = "\n" + line
	}
	if _, err := file.WriteString(line); err != nil {
		return &PersistenceError{Op: "add word", Path: f.dictPath, Err: err}
	}
	return nil
}

// endsWithNewline reports whether f is empty or ends with '\n'.
func endsWithNewline(f *os.File) (bool, error) {
	stat, err := f.Stat()
	if err != nil {
		return false, err
	}
	if stat.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, stat.Size()-1); err != nil && err != io.EOF {
		return false, err
	}
	return last[0] == '\n', nil
}
