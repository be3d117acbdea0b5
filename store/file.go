package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MarcoClaps/vrptw"
)

// FileStore keeps instances and solutions as files in one directory:
// <id>.json for instances, <instance id>_<solution id>_sol.json for solutions.
type FileStore struct {
	Dir    string
	Format vrptw.Format

	mu sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir, Format: vrptw.FormatJSON}, nil
}

func (s *FileStore) ext() string {
	if s.Format == vrptw.FormatYAML {
		return ".yaml"
	}
	return ".json"
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: bad id %q", ErrNotFound, id)
	}
	return nil
}

func (s *FileStore) SaveInstance(_ context.Context, inst *vrptw.Instance) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := vrptw.WriteInstance(filepath.Join(s.Dir, id+s.ext()), inst); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FileStore) GetInstance(_ context.Context, id string) (*vrptw.Instance, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	inst, err := vrptw.ReadInstance(filepath.Join(s.Dir, id+s.ext()))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("instance %s: %w", id, ErrNotFound)
	}
	return inst, err
}

func (s *FileStore) SaveSolution(_ context.Context, instanceID string, sol *vrptw.Solution) error {
	if err := validID(instanceID); err != nil {
		return err
	}
	if sol.ID == "" {
		sol.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(filepath.Join(s.Dir, instanceID+s.ext())); err != nil {
		return fmt.Errorf("instance %s: %w", instanceID, ErrNotFound)
	}
	return vrptw.WriteSolution(filepath.Join(s.Dir, instanceID+"_"+sol.ID+"_sol"+s.ext()), sol)
}

func (s *FileStore) GetSolution(_ context.Context, id string) (*vrptw.Solution, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*_"+id+"_sol"+s.ext()))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("solution %s: %w", id, ErrNotFound)
	}
	return vrptw.ReadSolution(matches[0])
}

func (s *FileStore) ListSolutions(_ context.Context, instanceID string) ([]*vrptw.Solution, error) {
	if err := validID(instanceID); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(s.Dir, instanceID+"_*_sol"+s.ext()))
	if err != nil {
		return nil, err
	}
	type entry struct {
		sol  *vrptw.Solution
		mod  int64
		name string
	}
	var entries []entry
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		sol, err := vrptw.ReadSolution(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{sol: sol, mod: info.ModTime().UnixNano(), name: m})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].mod != entries[j].mod {
			return entries[i].mod < entries[j].mod
		}
		return entries[i].name < entries[j].name
	})
	out := make([]*vrptw.Solution, len(entries))
	for k, e := range entries {
		out[k] = e.sol
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }
