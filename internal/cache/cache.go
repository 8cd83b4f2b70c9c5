// Package cache stores reasoning-engine answers on disk so that scoring the
// same content again skips the engine call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/judge"
)

// DefaultDir is where the CLI keeps cached answers.
const DefaultDir = ".ddbeval/cache"

// Cache is a directory of JSON entries, one per key.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// entry is the on-disk form of a cached answer.
type entry struct {
	Key           string            `json:"key"`
	Request       string            `json:"request"`
	Model         string            `json:"model"`
	RubricVersion string            `json:"rubric_version"`
	StoredAt      time.Time         `json:"stored_at"`
	Fields        map[string]string `json:"fields"`
}

// New returns a cache rooted at dir. An empty dir disables it.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) Dir() string {
	return c.dir
}

// Key hashes everything that can change the engine's answer: the judge
// model, the rubric version, and the full request.
func Key(model string, req *judge.Request) string {
	h := sha256.New()

	writeString(h, model)
	writeString(h, dimensions.RubricVersion)
	writeString(h, req.Name)
	writeString(h, req.Instructions)
	for _, in := range req.Inputs {
		writeString(h, in.Name)
		writeString(h, in.Value)
	}
	for _, out := range req.Outputs {
		writeString(h, out.Name)
		writeString(h, out.Description)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached fields for key. Unreadable or corrupt entries are
// misses.
func (c *Cache) Get(key string) (map[string]string, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key || e.Fields == nil {
		return nil, false
	}
	return e.Fields, true
}

// Put stores fields under key.
func (c *Cache) Put(key, model string, req *judge.Request, fields map[string]string) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(entry{
		Key:           key,
		Request:       req.Name,
		Model:         model,
		RubricVersion: dimensions.RubricVersion,
		StoredAt:      time.Now().UTC(),
		Fields:        fields,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	if err := os.WriteFile(c.path(key), data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Len counts the entries on disk.
func (c *Cache) Len() (int, error) {
	if c.dir == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			n++
		}
	}
	return n, nil
}

// Clear removes the cache directory. It refuses when the directory holds
// anything other than cache entries.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
		}
		if filepath.Ext(e.Name()) != ".json" {
			return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// writeString writes s with a NUL delimiter so adjacent values cannot run
// together into the same hash input.
func writeString(w io.Writer, s string) {
	_, _ = io.WriteString(w, s+"\x00")
}

type cached struct {
	next  judge.Engine
	cache *Cache
	model string
}

// Wrap answers repeated requests from c and stores fresh answers from next.
// Failed calls are never stored.
func Wrap(next judge.Engine, c *Cache, model string) judge.Engine {
	if c == nil || c.dir == "" {
		return next
	}
	return &cached{next: next, cache: c, model: model}
}

func (e *cached) Evaluate(ctx context.Context, req *judge.Request) (map[string]string, error) {
	key := Key(e.model, req)
	if fields, ok := e.cache.Get(key); ok {
		slog.Debug("Reasoning engine cache hit", "request", req.Name, "key", key[:12])
		return fields, nil
	}

	fields, err := e.next.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Put(key, e.model, req, fields); err != nil {
		slog.Warn("Failed to cache reasoning engine answer", "request", req.Name, "error", err)
	}
	return fields, nil
}
