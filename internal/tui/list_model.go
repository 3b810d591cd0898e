package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/parser"
	"github.com/balkashynov/todo/internal/store"
)

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
)

// BrowseModel is the bubbletea model for browsing tasks
type BrowseModel struct {
	store TaskStore
	now   func() time.Time

	width  int
	height int

	// Task data
	tasks        []models.Task // visible tasks after filtering
	selectedTask int           // index in tasks slice
	showAll      bool

	// UI state
	focus  Focus
	search textinput.Model
	status string
	err    error

	// Pagination
	currentPage  int
	tasksPerPage int

	// Counters reported after the program exits
	completed int
	deleted   int
}

// NewBrowseModel creates a browser showing pending tasks
func NewBrowseModel(s TaskStore, now func() time.Time) BrowseModel {
	if now == nil {
		now = time.Now
	}

	search := textinput.New()
	search.Placeholder = "words to match, any of them"
	search.Prompt = "Search: "
	search.CharLimit = 200
	search.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	search.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	search.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := BrowseModel{
		store:        s,
		now:          now,
		focus:        FocusTable,
		search:       search,
		tasksPerPage: 10,
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// header(2) + column headers(2) + pagination(2) + help(2) + borders(2)
		availableHeight := m.height - 10
		if availableHeight < 3 {
			availableHeight = 3
		}
		m.tasksPerPage = availableHeight
		m.currentPage = m.selectedTask / m.tasksPerPage
		return m, nil

	case tea.KeyMsg:
		if m.focus == FocusSearch {
			return m.handleSearchKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			// Clear an applied filter first, quit otherwise
			if m.search.Value() != "" {
				m.search.SetValue("")
				m.refresh()
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			return m.moveSelectionUp(), nil

		case "down", "j":
			return m.moveSelectionDown(), nil

		case "left", "h":
			return m.prevPage(), nil

		case "right", "l":
			return m.nextPage(), nil

		case "tab", "a":
			m.showAll = !m.showAll
			m.selectedTask = 0
			m.refresh()
			return m, nil

		case "/":
			m.focus = FocusSearch
			return m, m.search.Focus()

		case "d":
			return m.completeSelected(), nil

		case "x":
			return m.deleteSelected(), nil
		}
	}

	return m, nil
}

// handleSearchKeys handles key input when in search mode
func (m BrowseModel) handleSearchKeys(msg tea.KeyMsg) (BrowseModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.focus = FocusTable
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil

	case "enter":
		// Keep the filter and return to the table
		m.focus = FocusTable
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selectedTask = 0
	m.refresh()
	return m, cmd
}

// refresh reloads visible tasks from the store and applies the filter
func (m *BrowseModel) refresh() {
	var tasks []models.Task
	if m.showAll {
		tasks = m.store.ReportAll()
	} else {
		tasks = m.store.ListPending()
	}

	if terms := strings.Fields(m.search.Value()); len(terms) > 0 {
		filtered := tasks[:0]
		for _, task := range tasks {
			if store.MatchesAny(task.Name, terms) {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}
	m.tasks = tasks

	if m.selectedTask >= len(m.tasks) {
		m.selectedTask = len(m.tasks) - 1
	}
	if m.selectedTask < 0 {
		m.selectedTask = 0
	}
	if m.tasksPerPage > 0 {
		m.currentPage = m.selectedTask / m.tasksPerPage
	}
}

// selected returns the task under the cursor
func (m BrowseModel) selected() (models.Task, bool) {
	if len(m.tasks) == 0 || m.selectedTask >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.selectedTask], true
}

// completeSelected marks the selected task as completed
func (m BrowseModel) completeSelected() BrowseModel {
	task, ok := m.selected()
	if !ok {
		return m
	}
	if task.IsCompleted() {
		m.status = fmt.Sprintf("Task %d is already completed", task.ID)
		m.err = nil
		return m
	}

	if _, err := m.store.MarkCompleted(task.ID); err != nil {
		m.err = err
		m.status = ""
		return m
	}
	m.completed++
	m.err = nil
	m.status = fmt.Sprintf("Completed task %d", task.ID)
	m.refresh()
	return m
}

// deleteSelected removes the selected task
func (m BrowseModel) deleteSelected() BrowseModel {
	task, ok := m.selected()
	if !ok {
		return m
	}

	if _, err := m.store.Delete(task.ID); err != nil {
		m.err = err
		m.status = ""
		return m
	}
	m.deleted++
	m.err = nil
	m.status = fmt.Sprintf("Deleted task %d", task.ID)
	m.refresh()
	return m
}

// moveSelectionUp moves the selection up
func (m BrowseModel) moveSelectionUp() BrowseModel {
	if m.selectedTask > 0 {
		m.selectedTask--

		// Auto-pagination: if we scrolled above current page, go to previous page
		if m.selectedTask < m.currentPage*m.tasksPerPage && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

// moveSelectionDown moves the selection down
func (m BrowseModel) moveSelectionDown() BrowseModel {
	if m.selectedTask < len(m.tasks)-1 {
		m.selectedTask++

		// Auto-pagination: if we scrolled below current page, go to next page
		if m.selectedTask >= (m.currentPage+1)*m.tasksPerPage {
			m.currentPage++
		}
	}
	return m
}

func (m BrowseModel) pageCount() int {
	if m.tasksPerPage <= 0 {
		return 1
	}
	return max(1, (len(m.tasks)+m.tasksPerPage-1)/m.tasksPerPage)
}

// prevPage goes to previous page
func (m BrowseModel) prevPage() BrowseModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

// nextPage goes to next page
func (m BrowseModel) nextPage() BrowseModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

// View renders the TUI
func (m BrowseModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	var bottom string
	if m.focus == FocusSearch {
		bottom = m.renderSearchBar()
	} else {
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		m.renderStatus(),
		bottom,
	)
}

// renderTaskTable renders the left panel with the task table
func (m BrowseModel) renderTaskTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	heading := "Pending tasks"
	if m.showAll {
		heading = "All tasks"
	}
	if filter := m.search.Value(); filter != "" {
		heading += fmt.Sprintf(" matching %q", filter)
	}
	b.WriteString(headerStyle.Render(heading))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks found"))
		return m.panelStyle(width).Render(b.String())
	}

	availableWidth := width - 4
	idWidth := 5
	statusWidth := 8
	dueWidth := 10
	nameWidth := availableWidth - idWidth - statusWidth - dueWidth - 6
	if nameWidth < 20 {
		nameWidth = 20
	}

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)
	headers := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		idWidth, "ID",
		nameWidth, "NAME",
		statusWidth, "STATUS",
		dueWidth, "DUE")
	b.WriteString(columnHeaderStyle.Render(headers))
	b.WriteString("\n")

	now := m.now()
	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(m.tasks))

	for i := start; i < end; i++ {
		task := m.tasks[i]

		name := truncate(task.Name, nameWidth)
		statusText := "todo"
		statusColor := ColorSecondaryText
		if task.IsCompleted() {
			statusText = "done"
			statusColor = ColorSuccess
		}

		dueText := parser.DueLabel(task.DueDate, now)
		if dueText == "" {
			dueText = "-"
			if task.DueDate != nil {
				dueText = truncate(*task.DueDate, dueWidth)
			}
		}

		// Pad before coloring so ANSI codes don't break alignment
		row := fmt.Sprintf("%-*s %-*s %s %s",
			idWidth, fmt.Sprintf("#%d", task.ID),
			nameWidth, name,
			lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Render(fmt.Sprintf("%-*s", statusWidth, statusText)),
			dueStyle(task.DueDate, now).Render(fmt.Sprintf("%-*s", dueWidth, dueText)))

		if i == m.selectedTask {
			selectedStyle := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if m.tasksPerPage < len(m.tasks) {
		pageInfo := fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, m.pageCount(), len(m.tasks))
		pageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1)
		b.WriteString(pageStyle.Render(pageInfo))
	}

	return m.panelStyle(width).Render(b.String())
}

// renderTaskDetails renders the right panel with task details
func (m BrowseModel) renderTaskDetails(width int) string {
	var b strings.Builder

	task, ok := m.selected()
	if !ok {
		logoStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width)
		b.WriteString(logoStyle.Render("todo"))
		return m.panelStyle(width).Render(b.String())
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width - 2)
	b.WriteString(titleStyle.Render(task.Name))
	b.WriteString("\n\n")

	statusColor := ColorSecondaryText
	if task.IsCompleted() {
		statusColor = ColorSuccess
	}
	b.WriteString("Status: ")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Bold(true).Render(task.Status()))
	b.WriteString("\n")

	priorityColor := ColorSecondaryText
	switch task.Priority {
	case 3:
		priorityColor = ColorError
	case 2:
		priorityColor = ColorWarning
	}
	b.WriteString("Priority: ")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(priorityColor)).Render(models.PriorityLabel(task.Priority)))
	b.WriteString("\n")

	b.WriteString("Created: " + task.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString("\n")

	if task.DueDate != nil {
		now := m.now()
		due := *task.DueDate
		if label := parser.DueLabel(task.DueDate, now); label != "" {
			due += " (" + label + ")"
		}
		b.WriteString("Due: ")
		b.WriteString(dueStyle(task.DueDate, now).Render(due))
		b.WriteString("\n")
	}

	if task.CompletedAt != nil {
		b.WriteString("Completed: " + task.CompletedAt.Format("2006-01-02 15:04:05"))
		b.WriteString("\n")
	}

	return m.panelStyle(width).Render(b.String())
}

func (m BrowseModel) panelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)
}

// renderStatus renders the result of the last action
func (m BrowseModel) renderStatus() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.status)
	}
	return ""
}

// renderSearchBar renders the search bar when active
func (m BrowseModel) renderSearchBar() string {
	searchStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(m.width - 2)
	return searchStyle.Render(m.search.View())
}

// renderHelpBar renders the help bar with hotkey hints
func (m BrowseModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "↑/↓ nav · ←/→ page · / search · tab pending/all · d done · x delete · q quit"
	return helpStyle.Render(helpText)
}

// dueStyle colors a due date by how close it is
func dueStyle(due *string, now time.Time) lipgloss.Style {
	style := lipgloss.NewStyle()
	if due == nil {
		return style.Foreground(lipgloss.Color(ColorDisabledText))
	}
	switch label := parser.DueLabel(due, now); label {
	case "":
		return style
	case "OVERDUE":
		return style.Foreground(lipgloss.Color(ColorError))
	case "TODAY", "TOMORROW":
		return style.Foreground(lipgloss.Color(ColorWarning))
	default:
		return style.Foreground(lipgloss.Color(ColorAccentBright))
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width > 3 {
		return string(r[:width-3]) + "..."
	}
	return string(r[:width])
}
