// ABOUTME: Reminder mutations
// ABOUTME: New reminders always start active; completion normally comes from a record

package store

import (
	"github.com/harper/carlog/internal/models"
)

// ReminderPatch holds the fields to change on a reminder. Nil fields are kept;
// the Clear flags drop an optional due value.
type ReminderPatch struct {
	Title           *string
	Description     *string
	Items           *[]models.ReminderItem
	DueDate         *models.Date
	ClearDueDate    bool
	DueMileage      *int
	ClearDueMileage bool
	Type            *models.ReminderType
	Priority        *models.Priority
	Completed       *bool
}

func (s *Store) prepareReminder(r *models.Reminder) {
	r.Title = models.NormalizeName(r.Title)
	if r.Items == nil {
		r.Items = []models.ReminderItem{}
	}
	for i := range r.Items {
		if r.Items[i].ID == "" {
			r.Items[i].ID = s.newID()
		}
	}
	if r.Priority == "" {
		r.Priority = models.PriorityMedium
	}
	if r.Type == "" {
		r.Type = models.ReminderTime
	}
}

// AddReminder stores a new, active reminder.
func (s *Store) AddReminder(in models.Reminder) (models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := cloneReminder(in)
	r.ID = s.newID()
	r.Completed = false
	s.prepareReminder(&r)
	if err := r.Validate(); err != nil {
		return models.Reminder{}, err
	}

	next := cloneData(s.data)
	next.Reminders = append(next.Reminders, cloneReminder(r))
	if err := s.saveData(next); err != nil {
		return models.Reminder{}, err
	}
	return r, nil
}

// UpdateReminder merges patch into the reminder with id. Unknown ids are ignored.
func (s *Store) UpdateReminder(id string, patch ReminderPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.Reminders, id, reminderID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	r := &next.Reminders[i]
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.Items != nil {
		r.Items = cloneSlice(*patch.Items, cloneReminderItem)
	}
	switch {
	case patch.ClearDueDate:
		r.DueDate = nil
	case patch.DueDate != nil:
		r.DueDate = cloneDate(patch.DueDate)
	}
	switch {
	case patch.ClearDueMileage:
		r.DueMileage = nil
	case patch.DueMileage != nil:
		r.DueMileage = clonePtr(patch.DueMileage)
	}
	if patch.Type != nil {
		r.Type = *patch.Type
	}
	if patch.Priority != nil {
		r.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		r.Completed = *patch.Completed
	}
	s.prepareReminder(r)
	if err := r.Validate(); err != nil {
		return err
	}
	return s.saveData(next)
}

// RemoveReminder deletes the reminder with id. Unknown ids are ignored.
func (s *Store) RemoveReminder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.data.Reminders, id, reminderID)
	if i < 0 {
		return nil
	}
	next := cloneData(s.data)
	next.Reminders = removeAt(next.Reminders, i)
	return s.saveData(next)
}
