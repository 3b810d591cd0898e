package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/todo/internal/models"
)

// TaskStore is the part of the task store the browser needs
type TaskStore interface {
	ListPending() []models.Task
	ReportAll() []models.Task
	MarkCompleted(id int) (bool, error)
	Delete(id int) (bool, error)
}

// RunBrowser starts the interactive task browser
func RunBrowser(s TaskStore, out io.Writer, now func() time.Time) error {
	model := NewBrowseModel(s, now)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(BrowseModel); ok {
		if m.completed > 0 || m.deleted > 0 {
			fmt.Fprintf(out, "Completed %d, deleted %d task(s)\n", m.completed, m.deleted)
		}
	}

	return nil
}
