package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cognora/checkin-pipeline/model"
)

type fileState struct {
	Entries map[string]model.DailyEntry `json:"entries"`
	Alerts  []model.AlertLog            `json:"alerts"`
}

// JSON keeps everything in one indented file, rewritten on every change.
type JSON struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
}

func NewJSON(filePath string) (*JSON, error) {
	s := &JSON{
		filePath: filePath,
		state: fileState{
			Entries: make(map[string]model.DailyEntry),
			Alerts:  make([]model.AlertLog, 0),
		},
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("json store load: %w", err)
	}
	return s, nil
}

func (s *JSON) Close() error { return nil }

func (s *JSON) SaveEntry(_ context.Context, e model.DailyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Entries[entryKey(e.UserID, e.Date)] = e
	return s.persistLocked()
}

func (s *JSON) RecentEntries(_ context.Context, userID string, max int) ([]model.DailyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DailyEntry, 0)
	if max <= 0 {
		return out, nil
	}
	for _, e := range s.state.Entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (s *JSON) AppendAlert(_ context.Context, a model.AlertLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Alerts = append(s.state.Alerts, a)
	return s.persistLocked()
}

func (s *JSON) AlertHistory(_ context.Context, userID string) ([]model.AlertLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AlertLog, 0)
	for i := len(s.state.Alerts) - 1; i >= 0; i-- {
		if a := s.state.Alerts[i]; a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *JSON) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if state.Entries == nil {
		state.Entries = make(map[string]model.DailyEntry)
	}
	if state.Alerts == nil {
		state.Alerts = make([]model.AlertLog, 0)
	}
	s.state = state
	return nil
}

func (s *JSON) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}

func entryKey(userID, date string) string {
	return userID + "/" + date
}
