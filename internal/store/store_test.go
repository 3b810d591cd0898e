package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todo/internal/models"
)

// memBackend keeps the last saved state in memory.
type memBackend struct {
	saved   *State
	saves   int
	saveErr error
	loadErr error
}

func (m *memBackend) Load() (*State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return EmptyState(), nil
	}
	return cloneState(m.saved), nil
}

func (m *memBackend) Save(state *State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = cloneState(state)
	return nil
}

func (m *memBackend) Path() string { return "memory" }
func (m *memBackend) Close() error { return nil }

func cloneState(s *State) *State {
	c := &State{Version: s.Version, NextID: s.NextID, Tasks: make([]models.Task, 0, len(s.Tasks))}
	for _, t := range s.Tasks {
		c.Tasks = append(c.Tasks, t.Clone())
	}
	return c
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func strPtr(s string) *string { return &s }

func newTestStore(t *testing.T) (*TaskStore, *memBackend) {
	t.Helper()
	backend := &memBackend{}
	s, err := Open(backend, WithClock(fixedClock()))
	require.NoError(t, err)
	return s, backend
}

func ids(tasks []models.Task) []int {
	out := []int{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestAddListCompleteReport(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.Add("Buy groceries", models.DefaultPriority, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{id}, ids(s.ListPending()))

	found, err := s.MarkCompleted(id)
	require.NoError(t, err)
	assert.True(t, found)

	assert.Empty(t, s.ListPending())
	assert.Equal(t, []int{id}, ids(s.ReportAll()))
}

func TestIDsAreNeverReused(t *testing.T) {
	s, _ := newTestStore(t)

	a, err := s.Add("A", 1, nil)
	require.NoError(t, err)
	b, err := s.Add("B", 1, nil)
	require.NoError(t, err)

	_, err = s.Delete(a)
	require.NoError(t, err)

	c, err := s.Add("C", 1, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, []int{a, b, c})
	assert.Equal(t, []int{1, 2}, ids(s.ReportAll()))
}

func TestNextIDSurvivesReload(t *testing.T) {
	s, backend := newTestStore(t)

	_, err := s.Add("A", 1, nil)
	require.NoError(t, err)
	b, err := s.Add("B", 1, nil)
	require.NoError(t, err)
	_, err = s.Delete(b)
	require.NoError(t, err)

	reopened, err := Open(backend)
	require.NoError(t, err)

	c, err := reopened.Add("C", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c)
}

func TestLoadRaisesStaleCounter(t *testing.T) {
	backend := &memBackend{saved: &State{
		Version: StateVersion,
		NextID:  0,
		Tasks: []models.Task{
			models.NewTask(4, "hand edited", 1, nil, time.Now()),
		},
	}}

	s, err := Open(backend)
	require.NoError(t, err)
	assert.Equal(t, 5, s.NextID())
}

func TestConcreteScenario(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.Add("Write report", 2, strPtr("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	second, err := s.Add("Clean desk", models.DefaultPriority, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second)

	_, err = s.MarkCompleted(0)
	require.NoError(t, err)

	pending := s.ListPending()
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].ID)
	assert.Equal(t, 1, pending[0].Priority)
	assert.Nil(t, pending[0].DueDate)

	all := s.ReportAll()
	require.Len(t, all, 2)
	assert.True(t, all[0].IsCompleted())
	assert.Equal(t, "2024-01-01", *all[0].DueDate)
	assert.False(t, all[1].IsCompleted())
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name     string
		taskName string
		priority int
		field    string
	}{
		{name: "empty name", taskName: "", priority: 1, field: "name"},
		{name: "blank name", taskName: "   ", priority: 1, field: "name"},
		{name: "priority too low", taskName: "x", priority: 0, field: "priority"},
		{name: "priority too high", taskName: "x", priority: 4, field: "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newTestStore(t)

			_, err := s.Add(tt.taskName, tt.priority, nil)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)

			assert.Zero(t, backend.saves, "validation must fail before saving")
			assert.Zero(t, s.Len())
			assert.Zero(t, s.NextID())
		})
	}
}

func TestQuery(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("Buy groceries", 1, nil)
	require.NoError(t, err)
	_, err = s.Add("Call mom", 1, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		terms []string
		want  []int
	}{
		{name: "single term", terms: []string{"groceries"}, want: []int{0}},
		{name: "or semantics", terms: []string{"a", "o"}, want: []int{0, 1}},
		{name: "case sensitive", terms: []string{"buy"}, want: []int{}},
		{name: "no terms", terms: nil, want: []int{}},
		{name: "no match", terms: []string{"zzz"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(s.Query(tt.terms)))
		})
	}
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	s, backend := newTestStore(t)
	_, err := s.Add("Keep me", 1, nil)
	require.NoError(t, err)
	before := s.ReportAll()

	removed, err := s.Delete(42)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, before, s.ReportAll())
	assert.Equal(t, 2, backend.saves, "delete saves even when nothing matched")
}

func TestMarkCompletedUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("Keep me", 1, nil)
	require.NoError(t, err)

	found, err := s.MarkCompleted(7)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, s.ListPending(), 1)
}

func TestReadsReturnCopies(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("Original", 1, strPtr("soon"))
	require.NoError(t, err)

	all := s.ReportAll()
	all[0].Name = "Changed"
	*all[0].DueDate = "never"

	got, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, "Original", got.Name)
	assert.Equal(t, "soon", *got.DueDate)
}

func TestSaveFailureRollsBack(t *testing.T) {
	s, backend := newTestStore(t)
	_, err := s.Add("Stays", 1, nil)
	require.NoError(t, err)

	backend.saveErr = errors.New("disk full")

	_, err = s.Add("Lost", 1, nil)
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, backend.saveErr)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.NextID())

	_, err = s.Delete(0)
	require.Error(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = s.MarkCompleted(0)
	require.Error(t, err)
	assert.Len(t, s.ListPending(), 1)
}

func TestLoadFailureIsPersistenceError(t *testing.T) {
	backend := &memBackend{loadErr: errors.New("permission denied")}

	_, err := Open(backend)
	require.Error(t, err)

	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "load", pe.Op)
	assert.Equal(t, "memory", pe.Path)
}

func TestStoreOverJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")

	s, err := Open(NewJSONBackend(path), WithClock(fixedClock()))
	require.NoError(t, err)
	_, err = s.Add("Write report", 2, strPtr("2024-01-01"))
	require.NoError(t, err)
	_, err = s.Add("Clean desk", 1, nil)
	require.NoError(t, err)
	_, err = s.MarkCompleted(0)
	require.NoError(t, err)

	reopened, err := Open(NewJSONBackend(path))
	require.NoError(t, err)

	want := s.ReportAll()
	got := reopened.ReportAll()
	require.Len(t, got, len(want))
	for i := range want {
		assertSameTask(t, want[i], got[i])
	}
	assert.Equal(t, 2, reopened.NextID())
}

func assertSameTask(t *testing.T, want, got models.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Priority, got.Priority)
	assert.Equal(t, want.DueDate, got.DueDate)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %v, got %v", want.CreatedAt, got.CreatedAt)
	if want.CompletedAt == nil {
		assert.Nil(t, got.CompletedAt)
	} else {
		require.NotNil(t, got.CompletedAt)
		assert.True(t, want.CompletedAt.Equal(*got.CompletedAt))
	}
}
