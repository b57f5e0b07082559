package store

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ironsheep/zyron/internal/imaging"
)

// createGlyph creates a white raster with a black block.
func createGlyph(width, height int, ink image.Rectangle) imaging.Raster {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image.Pt(x, y).In(ink) {
				img.Set(x, y, color.NRGBA{0, 0, 0, 255})
			} else {
				img.Set(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return imaging.NewRaster(img)
}

// writeExemplar stores a valid JPEG exemplar at dir/name.
func writeExemplar(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := imaging.EncodeJPEG(f, createGlyph(20, 20, image.Rect(5, 5, 15, 15)), 90); err != nil {
		t.Fatalf("failed to encode exemplar: %v", err)
	}
}

func newTestFS(t *testing.T) (*FS, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	dir := t.TempDir()
	fs := NewFS(filepath.Join(dir, "images"), filepath.Join(dir, "utility", "dictionary.txt"), FSOptions{Logger: logger})
	return fs, hook
}

func TestFS_AddExemplar_EmptyGroup(t *testing.T) {
	fs, _ := newTestFS(t)

	idx, err := fs.AddExemplar('q', createGlyph(20, 30, image.Rect(4, 4, 16, 26)))
	if err != nil {
		t.Fatalf("AddExemplar failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("index: got %d, want 1", idx)
	}
	if _, err := os.Stat(filepath.Join(fs.Root(), "q", "q-1.jpg")); err != nil {
		t.Errorf("exemplar file missing: %v", err)
	}

	idx, err = fs.AddExemplar('q', createGlyph(20, 30, image.Rect(4, 4, 16, 26)))
	if err != nil {
		t.Fatalf("AddExemplar failed: %v", err)
	}
	if idx != 2 {
		t.Errorf("second index: got %d, want 2", idx)
	}
}

func TestFS_AddExemplar_MaxPlusOne(t *testing.T) {
	fs, _ := newTestFS(t)
	dir := filepath.Join(fs.Root(), "a")
	writeExemplar(t, dir, "a-3.jpg")
	writeExemplar(t, dir, "a-7.jpg")
	writeExemplar(t, dir, "b-9.jpg")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	next, err := fs.NextIndex('a')
	if err != nil {
		t.Fatalf("NextIndex failed: %v", err)
	}
	if next != 8 {
		t.Errorf("NextIndex: got %d, want 8", next)
	}

	idx, err := fs.AddExemplar('a', createGlyph(10, 10, image.Rect(2, 2, 8, 8)))
	if err != nil {
		t.Fatalf("AddExemplar failed: %v", err)
	}
	if idx != 8 {
		t.Errorf("index: got %d, want 8", idx)
	}
	if _, err := os.Stat(filepath.Join(dir, "a-8.jpg")); err != nil {
		t.Errorf("a-8.jpg missing: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".exemplar-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestFS_AddExemplar_Invalid(t *testing.T) {
	fs, _ := newTestFS(t)

	if _, err := fs.AddExemplar('A', createGlyph(4, 4, image.Rect(0, 0, 2, 2))); err == nil {
		t.Error("AddExemplar should reject an uppercase letter")
	}

	_, err := fs.AddExemplar('a', imaging.Raster{})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("empty raster: got %v, want *PersistenceError", err)
	}
	if _, statErr := os.Stat(filepath.Join(fs.Root(), "a", "a-1.jpg")); statErr == nil {
		t.Error("failed write should not leave an exemplar file")
	}
}

func TestFS_AddExemplar_PersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "images")
	if err := os.WriteFile(blocker, []byte("file, not dir"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	fs := NewFS(blocker, filepath.Join(dir, "dictionary.txt"), FSOptions{})

	_, err := fs.AddExemplar('a', createGlyph(4, 4, image.Rect(0, 0, 2, 2)))
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *PersistenceError", err)
	}
	if perr.Path == "" || perr.Op == "" {
		t.Errorf("PersistenceError should carry op and path: %+v", perr)
	}
}

func TestFS_ListExemplars(t *testing.T) {
	fs, hook := newTestFS(t)
	dir := filepath.Join(fs.Root(), "e")
	writeExemplar(t, dir, "e-1.jpg")
	writeExemplar(t, dir, "e-4.jpg")
	if err := os.WriteFile(filepath.Join(dir, "e-2.jpg"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	rasters, err := fs.ListExemplars('e')
	if err != nil {
		t.Fatalf("ListExemplars failed: %v", err)
	}
	if len(rasters) != 2 {
		t.Errorf("got %d exemplars, want 2 (corrupt file skipped)", len(rasters))
	}

	var corrupt *CorruptError
	found := false
	for _, entry := range hook.AllEntries() {
		if err, ok := entry.Data[logrus.ErrorKey].(error); ok && errors.As(err, &corrupt) {
			found = true
			if !strings.HasSuffix(corrupt.Path, "e-2.jpg") {
				t.Errorf("corrupt path: got %s", corrupt.Path)
			}
		}
	}
	if !found {
		t.Error("corrupt exemplar should be logged")
	}
}

func TestFS_ListExemplars_Missing(t *testing.T) {
	fs, _ := newTestFS(t)

	if _, err := fs.ListExemplars('z'); !errors.Is(err, ErrNotFound) {
		t.Errorf("absent group: got %v, want ErrNotFound", err)
	}
	if next, _ := fs.NextIndex('z'); next != 1 {
		t.Errorf("NextIndex for absent group: got %d, want 1", next)
	}
	if _, err := fs.ListExemplars('7'); err == nil {
		t.Error("ListExemplars should reject a digit")
	}
}

func TestFS_Dictionary(t *testing.T) {
	fs, _ := newTestFS(t)

	if _, err := fs.Words(); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing dictionary: got %v, want ErrNotFound", err)
	}
	if ok, err := fs.WordExists("cat"); ok || err != nil {
		t.Errorf("WordExists on missing dictionary: got %v, %v", ok, err)
	}

	for _, w := range []string{"cat", "car", "cat"} {
		if err := fs.AddWord(w); err != nil {
			t.Fatalf("AddWord(%s) failed: %v", w, err)
		}
	}

	words, err := fs.Words()
	if err != nil {
		t.Fatalf("Words failed: %v", err)
	}
	if len(words) != 2 {
		t.Errorf("got %d words, want 2: %v", len(words), words)
	}

	data, _ := os.ReadFile(fs.DictionaryPath())
	if string(data) != "cat\ncar\n" {
		t.Errorf("dictionary file: got %q", data)
	}
}

func TestFS_Words_SkipsOverlongLine(t *testing.T) {
	fs, hook := newTestFS(t)
	if err := os.MkdirAll(filepath.Dir(fs.DictionaryPath()), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	content := "cat\n" + strings.Repeat("x", 70000) + "\ncar\n"
	if err := os.WriteFile(fs.DictionaryPath(), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dictionary: %v", err)
	}

	words, err := fs.Words()
	if err != nil {
		t.Fatalf("Words failed: %v", err)
	}
	if strings.Join(words, ",") != "cat,car" {
		t.Errorf("words: got %v, want [cat car]", words)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning for the long line, got %v", entry)
	}
	var corrupt *CorruptError
	if err, _ := entry.Data[logrus.ErrorKey].(error); !errors.As(err, &corrupt) {
		t.Errorf("warning should carry a CorruptError, got %v", entry.Data[logrus.ErrorKey])
	}

	if ok, err := fs.WordExists("car"); !ok || err != nil {
		t.Errorf("WordExists(car): got %v, %v", ok, err)
	}
	if err := fs.AddWord("can"); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}
	words, _ = fs.Words()
	if strings.Join(words, ",") != "cat,car,can" {
		t.Errorf("words after AddWord: got %v", words)
	}
}

func TestFS_AddWord_Idempotent(t *testing.T) {
	fs, _ := newTestFS(t)
	if err := os.MkdirAll(filepath.Dir(fs.DictionaryPath()), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(fs.DictionaryPath(), []byte("car\ncan\ncat"), 0644); err != nil {
		t.Fatalf("failed to write dictionary: %v", err)
	}

	before, _ := fs.Words()
	if err := fs.AddWord("can"); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}
	after, _ := fs.Words()
	if len(after) != len(before) {
		t.Errorf("existing word changed count: %d -> %d", len(before), len(after))
	}

	if err := fs.AddWord("cab"); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}
	after, _ = fs.Words()
	if len(after) != len(before)+1 {
		t.Errorf("novel word: count %d -> %d, want +1", len(before), len(after))
	}

	data, _ := os.ReadFile(fs.DictionaryPath())
	if string(data) != "car\ncan\ncat\ncab\n" {
		t.Errorf("unterminated last line not repaired: %q", data)
	}
}

func TestFS_Words_Normalizes(t *testing.T) {
	fs, _ := newTestFS(t)
	if err := os.MkdirAll(filepath.Dir(fs.DictionaryPath()), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	content := "CAT\n\n  dog  \r\nｃａｔ\n"
	if err := os.WriteFile(fs.DictionaryPath(), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dictionary: %v", err)
	}

	words, err := fs.Words()
	if err != nil {
		t.Fatalf("Words failed: %v", err)
	}
	want := []string{"cat", "dog"}
	if len(words) != len(want) {
		t.Fatalf("got %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d: got %q, want %q", i, words[i], want[i])
		}
	}
}

func TestFS_AddWord_Invalid(t *testing.T) {
	fs, _ := newTestFS(t)

	for _, w := range []string{"", "c4t", "two words", "naïve"} {
		if err := fs.AddWord(w); err == nil {
			t.Errorf("AddWord(%q) should fail", w)
		}
	}
	if _, err := os.Stat(fs.DictionaryPath()); err == nil {
		t.Error("invalid words should not create the dictionary")
	}
}
