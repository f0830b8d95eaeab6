package archive

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runs == nil {
		s.runs = make(map[string]Run)
	}
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runs == nil {
		return errNotInitialized
	}
	run.Payload = append([]byte(nil), run.Payload...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.runs == nil {
		return Run{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	if !ok {
		return Run{}, false, nil
	}
	if err := checkVersion(run); err != nil {
		return Run{}, false, err
	}
	run.Payload = append([]byte(nil), run.Payload...)
	run.PayloadSize = int64(len(run.Payload))
	return run, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.runs == nil {
		return nil, errNotInitialized
	}
	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		run.PayloadSize = int64(len(run.Payload))
		run.Payload = nil
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.Before(runs[j].CreatedAt)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *MemoryStore) DeleteRun(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runs == nil {
		return errNotInitialized
	}
	delete(s.runs, id)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]Run)
	return nil
}
