// Package state keeps the working files passed between pipeline stages and
// the lock that keeps two runs from sharing a data directory.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"go-gongkao-sync/internal/models"
)

var (
	ErrLocked   = errors.New("another run holds the data directory lock")
	ErrNotFound = errors.New("no stage file found")
)

const (
	stubsPrefix    = "job_list_"
	postingsPrefix = "postings_"
	detailsFile    = "details.json"
	lockFile       = ".lock"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Lock takes the run lock without blocking. The returned func releases it.
func (s *Store) Lock() (func() error, error) {
	fl := flock.New(filepath.Join(s.dir, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data directory: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return fl.Unlock, nil
}

// SaveStubs writes job_list_<label>.json.
func (s *Store) SaveStubs(label string, stubs []models.PostingStub) (string, error) {
	path := filepath.Join(s.dir, stubsPrefix+label+".json")
	if err := s.writeJSON(path, stubs); err != nil {
		return "", err
	}
	log.Printf("💾 Saved %d stubs to %s", len(stubs), path)
	return path, nil
}

// LatestStubs loads the most recently written stub file.
func (s *Store) LatestStubs() ([]models.PostingStub, string, error) {
	path, err := s.latest(stubsPrefix)
	if err != nil {
		return nil, "", err
	}
	var stubs []models.PostingStub
	if err := readJSON(path, &stubs); err != nil {
		return nil, "", err
	}
	return stubs, path, nil
}

// SavePostings writes postings_<label>.json.
func (s *Store) SavePostings(label string, postings []models.JobPosting) (string, error) {
	path := filepath.Join(s.dir, postingsPrefix+label+".json")
	if err := s.writeJSON(path, postings); err != nil {
		return "", err
	}
	log.Printf("💾 Saved %d postings to %s", len(postings), path)
	return path, nil
}

// LatestPostings loads the most recently written postings file.
func (s *Store) LatestPostings() ([]models.JobPosting, string, error) {
	path, err := s.latest(postingsPrefix)
	if err != nil {
		return nil, "", err
	}
	postings, err := LoadPostings(path)
	if err != nil {
		return nil, "", err
	}
	return postings, path, nil
}

// LoadPostings reads a postings file written by SavePostings.
func LoadPostings(path string) ([]models.JobPosting, error) {
	var postings []models.JobPosting
	if err := readJSON(path, &postings); err != nil {
		return nil, err
	}
	return postings, nil
}

// UpsertDetails merges details into details.json keyed by URL. An existing
// successful record is kept; a failed one is replaced. It returns how many
// records were added or replaced.
func (s *Store) UpsertDetails(details []models.PostingDetail) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadDetails()
	if err != nil {
		return 0, err
	}
	index := make(map[string]int, len(existing))
	for i, d := range existing {
		index[d.URL] = i
	}

	changed := 0
	for _, d := range details {
		if d.URL == "" {
			continue
		}
		i, ok := index[d.URL]
		switch {
		case !ok:
			index[d.URL] = len(existing)
			existing = append(existing, d)
			changed++
		case existing[i].Failed() && !d.Failed():
			existing[i] = d
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.writeJSON(s.detailsPath(), existing); err != nil {
		return 0, err
	}
	return changed, nil
}

// LoadDetails returns the stored details, or nil when there are none.
func (s *Store) LoadDetails() ([]models.PostingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDetails()
}

// ClearDetails removes details.json once a process stage has consumed it.
func (s *Store) ClearDetails() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.detailsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove details: %w", err)
	}
	return nil
}

func (s *Store) detailsPath() string {
	return filepath.Join(s.dir, detailsFile)
}

func (s *Store) loadDetails() ([]models.PostingDetail, error) {
	var details []models.PostingDetail
	err := readJSON(s.detailsPath(), &details)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return details, err
}

// latest picks the newest file with prefix by modification time, then name.
func (s *Store) latest(prefix string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, prefix+"*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s*.json in %s", ErrNotFound, prefix, s.dir)
	}

	type candidate struct {
		path string
		mod  int64
	}
	cands := make([]candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		cands = append(cands, candidate{path: m, mod: info.ModTime().UnixNano()})
	}
	if len(cands) == 0 {
		return "", fmt.Errorf("%w: %s*.json in %s", ErrNotFound, prefix, s.dir)
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].mod != cands[j].mod {
			return cands[i].mod > cands[j].mod
		}
		return cands[i].path > cands[j].path
	})
	return cands[0].path, nil
}

// writeJSON replaces path atomically through a temp file in the same dir.
func (s *Store) writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
