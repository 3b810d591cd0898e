package store

import "github.com/balkashynov/todo/internal/models"

// StateVersion is written into every persisted document.
const StateVersion = 1

// State is the persisted form of a TaskStore.
type State struct {
	Version int           `json:"version"`
	NextID  int           `json:"next_id"`
	Tasks   []models.Task `json:"tasks"`
}

// EmptyState is what a store starts from when nothing has been saved yet.
func EmptyState() *State {
	return &State{
		Version: StateVersion,
		NextID:  0,
		Tasks:   []models.Task{},
	}
}

// normalize raises NextID past every stored id so ids are never reused,
// even if the counter was lost or edited by hand.
func (s *State) normalize() {
	if s.Tasks == nil {
		s.Tasks = []models.Task{}
	}
	if s.Version == 0 {
		s.Version = StateVersion
	}
	for _, t := range s.Tasks {
		if t.ID >= s.NextID {
			s.NextID = t.ID + 1
		}
	}
}

// Backend loads and saves the whole State.
// Load must return EmptyState (not an error) when nothing has been stored yet.
type Backend interface {
	Load() (*State, error)
	Save(state *State) error
	Path() string
	Close() error
}
