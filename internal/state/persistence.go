package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultStateDir is the directory under $HOME for state files
	DefaultStateDir = ".local/state/displayhop"
	// DefaultStateFile is the state file name
	DefaultStateFile = "sim.json"
)

// GetStatePath returns the full path to the state file
func GetStatePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultStateDir, DefaultStateFile)
}

// LoadState loads state from the default path, creating new state if file doesn't exist
func LoadState() (*SimState, error) {
	return LoadStateFrom(GetStatePath())
}

// LoadStateFrom loads state from a specific path
func LoadStateFrom(path string) (*SimState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return new empty state if file doesn't exist
			return NewSimState(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state SimState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if state.Version != StateVersion {
		return migrateState(&state), nil
	}
	return &state, nil
}

// SaveTo persists state to a specific path
func (s *SimState) SaveTo(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Marshal with indentation for readability
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write atomically using temp file + rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up temp file on failure
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

// Save persists state to the default path
func (s *SimState) Save() error {
	return s.SaveTo(GetStatePath())
}

// ResetAt clears the cursor and saves to path
func (s *SimState) ResetAt(path string) error {
	s.Clear()
	return s.SaveTo(path)
}

// migrateState handles state written by other format versions. The cursor
// location is cheap to lose, so it is dropped rather than converted.
func migrateState(old *SimState) *SimState {
	fresh := NewSimState()
	fresh.LastUpdated = old.LastUpdated
	if fresh.LastUpdated.IsZero() {
		fresh.LastUpdated = time.Now()
	}
	return fresh
}
