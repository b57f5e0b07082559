// Package config loads zyron settings from a JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// FileName is the default config file name, looked up next to the executable.
const FileName = "zyron.json"

// Environment variables that override file settings.
const (
	EnvConfig     = "ZYRON_CONFIG"
	EnvLibraryDir = "ZYRON_LIBRARY_DIR"
	EnvDictionary = "ZYRON_DICTIONARY"
	EnvLogLevel   = "ZYRON_LOG_LEVEL"
	EnvWorkers    = "ZYRON_WORKERS"
)

// Config holds every tunable of the recognizer and its tool server.
type Config struct {
	Image        ImageConfig        `json:"image"`
	Library      LibraryConfig      `json:"library"`
	Segment      SegmentConfig      `json:"segment"`
	Matching     MatchingConfig     `json:"matching"`
	Scoring      ScoringConfig      `json:"scoring"`
	OCR          OCRConfig          `json:"ocr"`
	Presentation PresentationConfig `json:"presentation"`

	// LogLevel is any level name logrus understands (debug, info, warn, ...).
	LogLevel string `json:"log_level"`
}

// ImageConfig holds the canonical raster size and the darkness threshold.
type ImageConfig struct {
	// Dimension is the side length D of the canonical square.
	Dimension int `json:"dimension"`

	// DarkThreshold is the 1-255 channel value below which a pixel counts as ink.
	// Zero would make every pixel paper and is rejected by Validate.
	DarkThreshold int `json:"dark_threshold"`
}

// LibraryConfig locates the exemplar library and dictionary on disk.
type LibraryConfig struct {
	Dir            string `json:"dir"`
	DictionaryPath string `json:"dictionary_path"`

	// JPEGQuality is used when new exemplars are written.
	JPEGQuality int `json:"jpeg_quality"`

	// CacheMasks keeps normalized exemplar masks in memory between passes.
	CacheMasks bool `json:"cache_masks"`
}

type SegmentConfig struct {
	KeepUnterminated bool `json:"keep_unterminated"`
}

type MatchingConfig struct {
	// Workers bounds how many slots are matched at once. Zero means GOMAXPROCS.
	Workers int `json:"workers"`
}

type ScoringConfig struct {
	MaxCandidates int `json:"max_candidates"`
}

type OCRConfig struct {
	Language string `json:"language"`
}

// PresentationConfig carries UI toggles. The recognizer never reads them; the
// tool server reports them so a front end can restore its settings.
type PresentationConfig struct {
	AudioEnabled bool `json:"audio_enabled"`
	MusicEnabled bool `json:"music_enabled"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Image: ImageConfig{
			Dimension:     400,
			DarkThreshold: 50,
		},
		Library: LibraryConfig{
			Dir:            "images",
			DictionaryPath: filepath.Join("utility", "dictionary.txt"),
			JPEGQuality:    90,
			CacheMasks:     true,
		},
		Segment: SegmentConfig{
			KeepUnterminated: true,
		},
		Matching: MatchingConfig{
			Workers: 0,
		},
		Scoring: ScoringConfig{
			MaxCandidates: 10,
		},
		OCR: OCRConfig{
			Language: "eng",
		},
		Presentation: PresentationConfig{
			AudioEnabled: true,
			MusicEnabled: true,
		},
		LogLevel: "info",
	}
}

// Load reads the JSON config at path on top of the defaults.
//
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from ZYRON_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLibraryDir); v != "" {
		c.Library.Dir = v
	}
	if v := os.Getenv(EnvDictionary); v != "" {
		c.Library.DictionaryPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Matching.Workers = n
	}
	return nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Image.Dimension <= 0 {
		return fmt.Errorf("image.dimension must be positive, got %d", c.Image.Dimension)
	}
	if c.Image.DarkThreshold < 1 || c.Image.DarkThreshold > 255 {
		return fmt.Errorf("image.dark_threshold must be 1-255, got %d", c.Image.DarkThreshold)
	}
	if c.Library.Dir == "" {
		return fmt.Errorf("library.dir is required")
	}
	if c.Library.DictionaryPath == "" {
		return fmt.Errorf("library.dictionary_path is required")
	}
	if c.Library.JPEGQuality < 1 || c.Library.JPEGQuality > 100 {
		return fmt.Errorf("library.jpeg_quality must be 1-100, got %d", c.Library.JPEGQuality)
	}
	if c.Matching.Workers < 0 {
		return fmt.Errorf("matching.workers must not be negative, got %d", c.Matching.Workers)
	}
	if c.Scoring.MaxCandidates <= 0 {
		return fmt.Errorf("scoring.max_candidates must be positive, got %d", c.Scoring.MaxCandidates)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// WorkerCount resolves Matching.Workers, mapping zero to GOMAXPROCS.
func (c *Config) WorkerCount() int {
	if c.Matching.Workers > 0 {
		return c.Matching.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// DefaultPath returns the config path: ZYRON_CONFIG if set, otherwise
// FileName next to the running executable.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return FileName
	}
	return filepath.Join(filepath.Dir(exe), FileName)
}
