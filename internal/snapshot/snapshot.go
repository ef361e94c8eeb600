// Package snapshot archives rendered reports on disk so earlier analyses
// can be listed and shown again.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/KaramelBytes/staffscope-cli/internal/analysis"
	"github.com/KaramelBytes/staffscope-cli/internal/utils"
)

const fileExt = ".json"

// ErrNotFound is returned when no snapshot matches an id.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one archived report.
type Snapshot struct {
	ID        string           `json:"id"`
	Source    string           `json:"source"`
	CreatedAt time.Time        `json:"created_at"`
	Report    *analysis.Report `json:"report"`
}

// Meta is the listing view of a snapshot.
type Meta struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Rows      int       `json:"rows"`
}

// Store keeps snapshots as <id>.json files in one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store { return &Store{dir: dir} }

// Dir returns the on-disk location of the store.
func (s *Store) Dir() string { return s.dir }

// Save archives rep under a fresh id.
func (s *Store) Save(source string, rep *analysis.Report) (*Snapshot, error) {
	if s.dir == "" {
		return nil, errors.New("snapshot directory not set")
	}
	if rep == nil {
		return nil, errors.New("report is nil")
	}
	if err := utils.EnsureDir(s.dir); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Report:    rep,
	}
	data, err := utils.PrettyJSON(snap)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(s.path(snap.ID), data); err != nil {
		return nil, err
	}
	return snap, nil
}

// Load reads a snapshot by full id or by a prefix matching exactly one id.
func (s *Store) Load(id string) (*Snapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	full, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(full))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", full, err)
	}
	return &snap, nil
}

// List returns every snapshot, newest first. A missing directory is an
// empty store.
func (s *Store) List() ([]Meta, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	out := make([]Meta, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		m := Meta{ID: snap.ID, Source: snap.Source, CreatedAt: snap.CreatedAt}
		if snap.Report != nil {
			m.Rows = snap.Report.Rows
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) path(id string) string { return filepath.Join(s.dir, id+fileExt) }

func (s *Store) ids() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) resolve(id string) (string, error) {
	if _, err := uuid.Parse(id); err == nil {
		return id, nil
	}
	ids, err := s.ids()
	if err != nil {
		return "", err
	}
	var match string
	for _, cand := range ids {
		if strings.HasPrefix(cand, id) {
			if match != "" {
				return "", fmt.Errorf("snapshot id %q is ambiguous", id)
			}
			match = cand
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}
