package photos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Selection is a reviewer's decision for one theater. Selected holds
// 1-based photo numbers.
type Selection struct {
	Selected []int  `json:"selected" validate:"dive,min=1"`
	Skip     bool   `json:"skip"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// Has reports whether photo n is selected.
func (s Selection) Has(n int) bool {
	for _, v := range s.Selected {
		if v == n {
			return true
		}
	}
	return false
}

// SelectionStore persists selections keyed by theater slug.
type SelectionStore interface {
	All(ctx context.Context) (map[string]Selection, error)
	Save(ctx context.Context, slug string, sel Selection) error
}

// FileSelectionStore keeps every selection in one JSON file.
type FileSelectionStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSelectionStore stores selections at path (typically
// {PHOTOS_DIR}/selections.json).
func NewFileSelectionStore(path string) *FileSelectionStore {
	return &FileSelectionStore{path: path}
}

// All returns every saved selection; a missing file means none.
func (s *FileSelectionStore) All(_ context.Context) (map[string]Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the selection for slug.
func (s *FileSelectionStore) Save(_ context.Context, slug string, sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	all[slug] = sel
	b, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write selections: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace selections: %w", err)
	}
	return nil
}

func (s *FileSelectionStore) load() (map[string]Selection, error) {
	out := map[string]Selection{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read selections: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(s.path), err)
	}
	return out, nil
}

// RedisSelectionStore keeps selections in one Redis hash, field = slug.
type RedisSelectionStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisSelectionStore stores selections in the hash at key.
func NewRedisSelectionStore(client redis.Cmdable, key string) *RedisSelectionStore {
	return &RedisSelectionStore{client: client, key: key}
}

// All returns every saved selection.
func (s *RedisSelectionStore) All(ctx context.Context) (map[string]Selection, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", s.key, err)
	}
	out := make(map[string]Selection, len(raw))
	for slug, v := range raw {
		var sel Selection
		if err := json.Unmarshal([]byte(v), &sel); err != nil {
			return nil, fmt.Errorf("decode selection %s: %w", slug, err)
		}
		out[slug] = sel
	}
	return out, nil
}

// Save replaces the selection for slug.
func (s *RedisSelectionStore) Save(ctx context.Context, slug string, sel Selection) error {
	b, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, slug, b).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", s.key, err)
	}
	return nil
}
