package session

import (
	"fmt"
	"strings"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/pkg/models"
)

// TaskApp is the namespace of the task tracker
const TaskApp = "task-app"

// TaskFields is the column order of the tasks file
var TaskFields = []string{"serial", "title", "notes", "done"}

func (s *Session) tasks() table {
	return table{
		s:        s,
		filename: "tasks.csv",
		fields:   TaskFields,
		defaults: map[string]any{nextSerialKey: 1},
	}
}

// Tasks returns the user's tasks, newest first
func (s *Session) Tasks() ([]models.Row, error) {
	return s.tasks().rows()
}

// AddTask appends a new open task and returns it with its serial
func (s *Session) AddTask(title, notes string) (models.Row, error) {
	title, notes, err := cleanTask(title, notes)
	if err != nil {
		return nil, err
	}
	return s.tasks().add(models.Row{"title": title, "notes": notes, "done": doneValue(false)})
}

// EditTask replaces the title and notes of the task with serial. The serial
// and done state are kept.
func (s *Session) EditTask(serial, title, notes string) (models.Row, error) {
	title, notes, err := cleanTask(title, notes)
	if err != nil {
		return nil, err
	}
	return s.tasks().update(serial, func(r models.Row) {
		r["title"] = title
		r["notes"] = notes
	})
}

// SetDone marks the task with serial as done or open
func (s *Session) SetDone(serial string, done bool) error {
	_, err := s.tasks().update(serial, func(r models.Row) {
		r["done"] = doneValue(done)
	})
	return err
}

// DeleteTask removes the task with serial
func (s *Session) DeleteTask(serial string) (models.Row, error) {
	return s.tasks().remove(serial)
}

// TaskDone reports whether a task row is marked done
func TaskDone(r models.Row) bool {
	return strings.EqualFold(strings.TrimSpace(r["done"]), "true")
}

func cleanTask(title, notes string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", fmt.Errorf("%w: task title is required", kerrors.ErrInvalidInput)
	}
	return title, strings.TrimSpace(notes), nil
}

// doneValue is the on-disk encoding of the done column
func doneValue(done bool) string {
	if done {
		return "true"
	}
	return "false"
}
