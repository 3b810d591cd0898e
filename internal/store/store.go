// Package store owns the ordered task collection and its persistence.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/balkashynov/todo/internal/logging"
	"github.com/balkashynov/todo/internal/models"
)

// TaskStore is an ordered, in-memory collection of tasks backed by a Backend.
// Every mutation is saved immediately. It is not safe for concurrent use.
type TaskStore struct {
	backend Backend
	state   *State
	now     func() time.Time
	logger  *log.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the time source used for created/completed stamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *TaskStore) {
		s.logger = logger
	}
}

// New creates an empty store on top of backend. Call Load to read persisted state.
func New(backend Backend, opts ...Option) *TaskStore {
	s := &TaskStore{
		backend: backend,
		state:   EmptyState(),
		now:     time.Now,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store on top of backend and loads it.
func Open(backend Backend, opts ...Option) (*TaskStore, error) {
	s := New(backend, opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the persisted state.
func (s *TaskStore) Path() string {
	return s.backend.Path()
}

// Close releases the backend.
func (s *TaskStore) Close() error {
	return s.backend.Close()
}

// Load replaces the in-memory state with the persisted one.
// Missing storage yields an empty store.
func (s *TaskStore) Load() error {
	state, err := s.backend.Load()
	if err != nil {
		return &PersistenceError{Op: "load", Path: s.backend.Path(), Err: err}
	}
	if state == nil {
		state = EmptyState()
	}
	state.normalize()
	s.state = state
	s.logger.Debug("loaded tasks", "path", s.backend.Path(), "count", len(state.Tasks), "next_id", state.NextID)
	return nil
}

// Save writes the whole collection, overwriting what was stored before.
func (s *TaskStore) Save() error {
	if err := s.backend.Save(s.state); err != nil {
		return &PersistenceError{Op: "save", Path: s.backend.Path(), Err: err}
	}
	s.logger.Debug("saved tasks", "path", s.backend.Path(), "count", len(s.state.Tasks))
	return nil
}

// Add validates and appends a new task, then saves. It returns the new id.
func (s *TaskStore) Add(name string, priority int, dueDate *string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &ValidationError{Field: "name", Err: errors.New("task name must not be empty")}
	}
	if priority < models.MinPriority || priority > models.MaxPriority {
		return 0, &ValidationError{
			Field: "priority",
			Err:   fmt.Errorf("must be between %d and %d, got %d", models.MinPriority, models.MaxPriority, priority),
		}
	}
	if dueDate != nil {
		due := *dueDate
		dueDate = &due
	}

	prevNext := s.state.NextID
	prevTasks := s.state.Tasks

	task := models.NewTask(s.state.NextID, name, priority, dueDate, s.now())
	s.state.Tasks = append(s.state.Tasks, task)
	s.state.NextID++

	if err := s.Save(); err != nil {
		s.state.Tasks = prevTasks
		s.state.NextID = prevNext
		return 0, err
	}
	return task.ID, nil
}

// Delete removes the task with id and saves. An unknown id is not an error;
// removed reports whether anything was deleted.
func (s *TaskStore) Delete(id int) (bool, error) {
	prevTasks := s.state.Tasks

	kept := make([]models.Task, 0, len(s.state.Tasks))
	removed := false
	for _, t := range s.state.Tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.state.Tasks = kept

	if err := s.Save(); err != nil {
		s.state.Tasks = prevTasks
		return false, err
	}
	if !removed {
		s.logger.Debug("delete: no task with id", "id", id)
	}
	return removed, nil
}

// MarkCompleted completes the first task with id and saves.
// An unknown id is not an error; found reports whether a task matched.
func (s *TaskStore) MarkCompleted(id int) (bool, error) {
	idx := s.indexOf(id)
	var prev *time.Time
	if idx >= 0 {
		prev = s.state.Tasks[idx].CompletedAt
		s.state.Tasks[idx].CompleteAt(s.now())
	}

	if err := s.Save(); err != nil {
		if idx >= 0 {
			s.state.Tasks[idx].CompletedAt = prev
		}
		return false, err
	}
	if idx < 0 {
		s.logger.Debug("done: no task with id", "id", id)
	}
	return idx >= 0, nil
}

// Get returns a copy of the task with id.
func (s *TaskStore) Get(id int) (models.Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, false
	}
	return s.state.Tasks[idx].Clone(), true
}

// ListPending returns tasks that are not completed, in store order.
func (s *TaskStore) ListPending() []models.Task {
	return s.filter(func(t models.Task) bool {
		return !t.IsCompleted()
	})
}

// Query returns tasks whose name contains any of terms (case-sensitive).
func (s *TaskStore) Query(terms []string) []models.Task {
	return s.filter(func(t models.Task) bool {
		return MatchesAny(t.Name, terms)
	})
}

// ReportAll returns every task, in store order.
func (s *TaskStore) ReportAll() []models.Task {
	return s.filter(func(models.Task) bool { return true })
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	return len(s.state.Tasks)
}

// NextID returns the id the next Add will assign.
func (s *TaskStore) NextID() int {
	return s.state.NextID
}

// MatchesAny reports whether name contains at least one of terms.
func MatchesAny(name string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

func (s *TaskStore) indexOf(id int) int {
	for i := range s.state.Tasks {
		if s.state.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) filter(keep func(models.Task) bool) []models.Task {
	out := []models.Task{}
	for _, t := range s.state.Tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
