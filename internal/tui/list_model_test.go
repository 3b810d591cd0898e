package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todo/internal/models"
)

type fakeStore struct {
	tasks   []models.Task
	saveErr error
}

func (f *fakeStore) ListPending() []models.Task {
	var out []models.Task
	for _, t := range f.tasks {
		if !t.IsCompleted() {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (f *fakeStore) ReportAll() []models.Task {
	out := make([]models.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (f *fakeStore) MarkCompleted(id int) (bool, error) {
	if f.saveErr != nil {
		return false, f.saveErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].CompleteAt(testNow)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Delete(id int) (bool, error) {
	if f.saveErr != nil {
		return false, f.saveErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newFakeStore() *fakeStore {
	due := "2024-03-11"
	return &fakeStore{tasks: []models.Task{
		models.NewTask(0, "Buy milk", 1, nil, testNow),
		models.NewTask(1, "Write report", 2, &due, testNow),
		models.NewTask(2, "Call mom", 3, nil, testNow),
	}}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m BrowseModel, keys ...tea.KeyMsg) BrowseModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(BrowseModel)
		require.True(t, ok)
	}
	return m
}

func visibleIDs(m BrowseModel) []int {
	ids := make([]int, 0, len(m.tasks))
	for _, t := range m.tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestBrowseNavigation(t *testing.T) {
	m := NewBrowseModel(newFakeStore(), func() time.Time { return testNow })
	assert.Equal(t, []int{0, 1, 2}, visibleIDs(m))

	m = press(t, m, runeKey("j"), runeKey("j"), runeKey("j"))
	assert.Equal(t, 2, m.selectedTask)

	m = press(t, m, runeKey("k"))
	assert.Equal(t, 1, m.selectedTask)
}

func TestBrowseCompleteAndToggle(t *testing.T) {
	fs := newFakeStore()
	m := NewBrowseModel(fs, func() time.Time { return testNow })

	m = press(t, m, runeKey("j"), runeKey("d"))
	assert.Equal(t, "Completed task 1", m.status)
	assert.Equal(t, 1, m.completed)
	assert.Equal(t, []int{0, 2}, visibleIDs(m))
	assert.True(t, fs.tasks[1].IsCompleted())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.showAll)
	assert.Equal(t, []int{0, 1, 2}, visibleIDs(m))

	// completing again is refused
	m = press(t, m, runeKey("j"), runeKey("d"))
	assert.Equal(t, "Task 1 is already completed", m.status)
	assert.Equal(t, 1, m.completed)
}

func TestBrowseDelete(t *testing.T) {
	fs := newFakeStore()
	m := NewBrowseModel(fs, func() time.Time { return testNow })

	m = press(t, m, runeKey("j"), runeKey("j"), runeKey("x"))
	assert.Equal(t, "Deleted task 2", m.status)
	assert.Equal(t, []int{0, 1}, visibleIDs(m))
	assert.Equal(t, 1, m.selectedTask, "cursor stays in range")
	assert.Len(t, fs.tasks, 2)
}

func TestBrowseStoreError(t *testing.T) {
	fs := newFakeStore()
	fs.saveErr = errors.New("disk full")
	m := NewBrowseModel(fs, func() time.Time { return testNow })

	m = press(t, m, runeKey("x"))
	require.Error(t, m.err)
	assert.Equal(t, 0, m.deleted)
	assert.Equal(t, []int{0, 1, 2}, visibleIDs(m))
}

func TestBrowseSearchFilter(t *testing.T) {
	m := NewBrowseModel(newFakeStore(), func() time.Time { return testNow })

	m = press(t, m, runeKey("/"))
	assert.Equal(t, FocusSearch, m.focus)

	m = press(t, m, runeKey("m"), runeKey("o"), runeKey("m"))
	assert.Equal(t, []int{2}, visibleIDs(m))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, FocusTable, m.focus)
	assert.Equal(t, []int{2}, visibleIDs(m), "filter stays applied")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []int{0, 1, 2}, visibleIDs(m))
}

func TestBrowseQuit(t *testing.T) {
	m := NewBrowseModel(newFakeStore(), nil)
	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBrowseView(t *testing.T) {
	m := NewBrowseModel(newFakeStore(), func() time.Time { return testNow })
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(BrowseModel)
	view := m.View()
	assert.Contains(t, view, "Pending tasks")
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "TOMORROW")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long...", truncate("a long name", 9))
}
