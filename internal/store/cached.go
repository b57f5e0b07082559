package store

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ironsheep/zyron/internal/imaging"
)

const wordsKey = "words"

// CachedRepository serves reads from memory and drops entries on write.
type CachedRepository struct {
	repo  Repository
	cache *cache.Cache
}

// NewCached wraps repo. A ttl of zero keeps entries until a write drops them.
func NewCached(repo Repository, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &CachedRepository{
		repo:  repo,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func exemplarKey(letter rune) string {
	return "exemplars:" + string(letter)
}

// ListExemplars returns the cached group for letter, loading it on a miss.
// Errors, including ErrNotFound, are never cached.
func (c *CachedRepository) ListExemplars(letter rune) ([]imaging.Raster, error) {
	key := exemplarKey(letter)
	if v, ok := c.cache.Get(key); ok {
		return append([]imaging.Raster(nil), v.([]imaging.Raster)...), nil
	}

	rasters, err := c.repo.ListExemplars(letter)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, rasters, cache.DefaultExpiration)
	return append([]imaging.Raster(nil), rasters...), nil
}

// AddExemplar writes through and drops the cached group for letter.
func (c *CachedRepository) AddExemplar(letter rune, r imaging.Raster) (int, error) {
	defer c.cache.Delete(exemplarKey(letter))
	return c.repo.AddExemplar(letter, r)
}

func (c *CachedRepository) Words() ([]string, error) {
	if v, ok := c.cache.Get(wordsKey); ok {
		return append([]string(nil), v.([]string)...), nil
	}

	words, err := c.repo.Words()
	if err != nil {
		return nil, err
	}
	c.cache.Set(wordsKey, words, cache.DefaultExpiration)
	return append([]string(nil), words...), nil
}

func (c *CachedRepository) WordExists(word string) (bool, error) {
	words, err := c.Words()
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

// AddWord writes through and drops the cached dictionary.
func (c *CachedRepository) AddWord(word string) error {
	defer c.cache.Delete(wordsKey)
	return c.repo.AddWord(word)
}

// Flush drops every cached entry.
func (c *CachedRepository) Flush() {
	c.cache.Flush()
}

// Cached returns the number of entries currently held.
func (c *CachedRepository) Cached() int {
	return c.cache.ItemCount()
}
