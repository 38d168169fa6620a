package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// ErrPersistenceUnavailable is returned when the backing state file
// cannot be read or written. Callers must not fall back to defaults on
// this error; that would silently discard applied actions.
var ErrPersistenceUnavailable = errors.New("scenario state persistence unavailable")

// StateFile is the name of the state file under the data directory.
const StateFile = "sim_state.json"

// Store owns the single mutable ScenarioState of a session, backed by a
// JSON file. All mutations run read-modify-persist under one lock so
// concurrent appliers cannot lose updates.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store persisting to dataDir/sim_state.json.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, StateFile)}
}

// Get returns the current state. When no state file exists yet the
// defaults are persisted and returned.
func (s *Store) Get() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Apply resolves an action label against the rule table, mutates the
// state accordingly and persists it. On an unrecognized label the state
// is untouched and ErrUnrecognizedAction is returned.
func (s *Store) Apply(label string) (State, error) {
	rule, err := MatchRule(label)
	if err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return State{}, err
	}
	rule.Effect(&state)
	if err := s.persist(state); err != nil {
		return State{}, err
	}

	log.Info().Str("action", rule.Name).Str("label", label).Msg("Scenario action applied")
	return state, nil
}

// Reset restores and persists the default state.
func (s *Store) Reset() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := DefaultState()
	if err := s.persist(state); err != nil {
		return State{}, err
	}
	log.Info().Msg("Scenario state reset")
	return state, nil
}

func (s *Store) load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			state := DefaultState()
			if err := s.persist(state); err != nil {
				return State{}, err
			}
			return state, nil
		}
		return State{}, errors.Wrapf(ErrPersistenceUnavailable, "reading %s: %v", s.path, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, errors.Wrapf(ErrPersistenceUnavailable, "decoding %s: %v", s.path, err)
	}
	return state, nil
}

func (s *Store) persist(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "encoding state: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "creating data directory: %v", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Wrapf(ErrPersistenceUnavailable, "writing %s: %v", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(ErrPersistenceUnavailable, "renaming %s: %v", tmpPath, err)
	}
	return nil
}
