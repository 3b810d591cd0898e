package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todo/internal/models"
)

func TestJSONBackendMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	state, err := NewJSONBackend(path).Load()
	require.NoError(t, err)
	assert.Empty(t, state.Tasks)
	assert.Equal(t, 0, state.NextID)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestJSONBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo.json")
	backend := NewJSONBackend(path)

	created := time.Date(2024, 3, 1, 8, 15, 30, 123456789, time.UTC)
	done := created.Add(90 * time.Minute)
	empty := ""
	due := "2024-03-10"

	withDue := models.NewTask(0, "with due", 3, &due, created)
	withDue.CompleteAt(done)
	emptyDue := models.NewTask(2, "empty due", 2, &empty, created)
	noDue := models.NewTask(5, "no due", 1, nil, created)

	in := &State{Version: StateVersion, NextID: 6, Tasks: []models.Task{withDue, emptyDue, noDue}}
	require.NoError(t, backend.Save(in))

	out, err := backend.Load()
	require.NoError(t, err)
	assert.Equal(t, 6, out.NextID)
	require.Len(t, out.Tasks, 3)
	for i := range in.Tasks {
		assertSameTask(t, in.Tasks[i], out.Tasks[i])
	}

	// unset and empty due dates stay distinguishable
	require.NotNil(t, out.Tasks[1].DueDate)
	assert.Equal(t, "", *out.Tasks[1].DueDate)
	assert.Nil(t, out.Tasks[2].DueDate)
}

func TestJSONBackendSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.json")
	backend := NewJSONBackend(path)

	require.NoError(t, backend.Save(EmptyState()))
	require.NoError(t, backend.Save(EmptyState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "todo.json", entries[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestJSONBackendRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantPath string
	}{
		{
			name:     "priority out of range",
			content:  `{"version":1,"next_id":1,"tasks":[{"id":0,"name":"x","priority":9,"created_at":"2024-01-01T00:00:00Z"}]}`,
			wantPath: "tasks[0].priority",
		},
		{
			name:     "empty name",
			content:  `{"version":1,"next_id":1,"tasks":[{"id":0,"name":"","priority":1,"created_at":"2024-01-01T00:00:00Z"}]}`,
			wantPath: "tasks[0].name",
		},
		{
			name:    "missing tasks",
			content: `{"version":1,"next_id":0}`,
		},
		{
			name:     "bad timestamp",
			content:  `{"version":1,"next_id":1,"tasks":[{"id":0,"name":"x","priority":1,"created_at":"yesterday"}]}`,
			wantPath: "tasks[0].created_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todo.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := NewJSONBackend(path).Load()
			require.Error(t, err)

			var se *SchemaError
			require.True(t, errors.As(err, &se), "want SchemaError, got %v", err)
			require.NotEmpty(t, se.Violations)
			if tt.wantPath != "" {
				var paths []string
				for _, v := range se.Violations {
					paths = append(paths, v.Path)
				}
				assert.Contains(t, paths, tt.wantPath)
			}
		})
	}
}

func TestJSONBackendCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Open(NewJSONBackend(path))
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
}

func TestPointerToPath(t *testing.T) {
	assert.Equal(t, "", pointerToPath(""))
	assert.Equal(t, "tasks[0].name", pointerToPath("/tasks/0/name"))
	assert.Equal(t, "a/b", pointerToPath("#/a~1b"))
}
