package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tapvault/internal/app/ports"
)

// Store keeps one JSON snapshot file per record key. It is the
// session-scoped middle tier of the chain: cheaper than the database,
// durable across restarts, trivially inspectable.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Name() string { return "file" }

func (s *Store) Save(_ context.Context, key string, payload []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return payload, nil
}

// keySanitizer flattens every character with filesystem meaning so a
// record key always maps to a single file directly under the data dir.
var keySanitizer = strings.NewReplacer(":", "_", "/", "_", "\\", "_", "..", "_")

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, keySanitizer.Replace(key)+".json")
}
