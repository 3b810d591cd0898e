package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/store"
)

// taskRow is one stored task. Seq keeps insertion order and is
// independent of the task id, which may legitimately be 0.
type taskRow struct {
	Seq         uint       `gorm:"primarykey"`
	TaskID      int        `gorm:"not null;uniqueIndex"`
	Name        string     `gorm:"not null"`
	Priority    int        `gorm:"not null;default:1"`
	DueDate     *string
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	CompletedAt *time.Time
}

func (taskRow) TableName() string { return "tasks" }

// metaRow holds the id counter; there is only ever row 1.
type metaRow struct {
	ID      uint `gorm:"primarykey"`
	Version int  `gorm:"not null"`
	NextID  int  `gorm:"not null"`
}

func (metaRow) TableName() string { return "store_meta" }

const metaRowID = 1

// Load reads every task in insertion order plus the id counter
func (b *SQLiteBackend) Load() (*store.State, error) {
	ok, err := b.exists()
	if err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}
	if !ok {
		return store.EmptyState(), nil
	}

	db, err := b.connect()
	if err != nil {
		return nil, err
	}

	var rows []taskRow
	if err := db.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	state := store.EmptyState()
	var meta metaRow
	res := db.Limit(1).Find(&meta, metaRowID)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to fetch store metadata: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		state.Version = meta.Version
		state.NextID = meta.NextID
	}

	for _, row := range rows {
		state.Tasks = append(state.Tasks, row.toTask())
	}
	return state, nil
}

// Save replaces all stored tasks and the counter in one transaction
func (b *SQLiteBackend) Save(state *store.State) error {
	db, err := b.connect()
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&taskRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}

		if len(state.Tasks) > 0 {
			rows := make([]taskRow, 0, len(state.Tasks))
			for i, t := range state.Tasks {
				rows = append(rows, rowFromTask(uint(i+1), t))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to insert tasks: %w", err)
			}
		}

		meta := metaRow{ID: metaRowID, Version: state.Version, NextID: state.NextID}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&meta).Error; err != nil {
			return fmt.Errorf("failed to save store metadata: %w", err)
		}
		return nil
	})
}

func rowFromTask(seq uint, t models.Task) taskRow {
	c := t.Clone()
	return taskRow{
		Seq:         seq,
		TaskID:      c.ID,
		Name:        c.Name,
		Priority:    c.Priority,
		DueDate:     c.DueDate,
		CreatedAt:   c.CreatedAt,
		CompletedAt: c.CompletedAt,
	}
}

func (r taskRow) toTask() models.Task {
	return models.Task{
		ID:          r.TaskID,
		Name:        r.Name,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}
