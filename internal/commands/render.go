package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/todo/internal/config"
	"github.com/balkashynov/todo/internal/models"
)

var errEmptyQuery = errors.New("at least one search term is required")

// taskListing is the machine-readable shape of list, query and report output
type taskListing struct {
	Query []string      `json:"query,omitempty" yaml:"query,omitempty"`
	Count int           `json:"count" yaml:"count"`
	Tasks []models.Task `json:"tasks" yaml:"tasks"`
}

// renderTasks prints tasks in the configured output format
func renderTasks(a *app, tasks []models.Task, query []string) error {
	switch a.cfg.Output {
	case config.OutputJSON:
		return renderJSON(a, taskListing{Query: query, Count: len(tasks), Tasks: tasks})
	case config.OutputYAML:
		return renderYAML(a, taskListing{Query: query, Count: len(tasks), Tasks: tasks})
	default:
		renderText(a, tasks)
		return nil
	}
}

// renderText prints one line per task
func renderText(a *app, tasks []models.Task) {
	if len(tasks) == 0 {
		a.logger.Debug("no tasks to show")
		return
	}
	for _, task := range tasks {
		fmt.Fprintln(a.out, task.String())
	}
}

func renderJSON(a *app, listing taskListing) error {
	jsonBytes, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(a.out, string(jsonBytes))
	return nil
}

func renderYAML(a *app, listing taskListing) error {
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(listing); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
