package store

import (
	"strings"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

// NoEntityLabel is shown for general reminders and for reminders whose
// client or case has since been deleted.
const NoEntityLabel = "لا يوجد"

// ReminderPatch carries the fields of an update; nil leaves a field unchanged.
type ReminderPatch struct {
	RelatedType *models.RelatedType
	RelatedID   *int
	Description *string
	Date        *models.Date
	IsCompleted *bool
}

// ReminderView is a reminder plus the values derived at read time.
type ReminderView struct {
	models.Reminder
	Status  models.ReminderStatus `json:"status"`
	Related string                `json:"related_label"`
}

func validateReminder(ds *models.Dataset, r models.Reminder, checkTarget bool) error {
	ve := &ValidationError{}
	if strings.TrimSpace(r.Description) == "" {
		ve.add("description", msgRequired)
	}
	if !r.RelatedType.Valid() {
		ve.add("related_type", msgNotAllowed)
	}
	if checkTarget {
		// 0 stands for "nothing to link to" and is only accepted while the
		// target table is empty
		switch r.RelatedType {
		case models.RelatedClient:
			if r.RelatedID == 0 && len(ds.Clients) > 0 {
				ve.add("related_id", msgRequired)
			} else if r.RelatedID != 0 && !hasClient(ds, r.RelatedID) {
				ve.add("related_id", msgNoClient)
			}
		case models.RelatedCase:
			if r.RelatedID == 0 && len(ds.Cases) > 0 {
				ve.add("related_id", msgRequired)
			} else if r.RelatedID != 0 && !hasCase(ds, r.RelatedID) {
				ve.add("related_id", msgNoCase)
			}
		}
	}
	return ve.orNil()
}

// Reminders lists every reminder with its derived status and related label.
func (s *Store) Reminders() []ReminderView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := utils.Today()
	out := make([]ReminderView, 0, len(s.data.Reminders))
	for _, r := range s.data.Reminders {
		out = append(out, ReminderView{
			Reminder: r,
			Status:   r.Status(today),
			Related:  relatedLabel(s.data, r),
		})
	}
	return out
}

// Reminder returns one reminder with its derived values.
func (s *Store) Reminder(id int) (ReminderView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.data.Reminders, id, reminderKey)
	if i < 0 {
		return ReminderView{}, ErrNotFound
	}
	r := s.data.Reminders[i]
	return ReminderView{Reminder: r, Status: r.Status(utils.Today()), Related: relatedLabel(s.data, r)}, nil
}

// relatedLabel resolves the display name of a reminder's target. A missing
// target is not an error.
func relatedLabel(ds *models.Dataset, r models.Reminder) string {
	switch r.RelatedType {
	case models.RelatedClient:
		if i := indexOf(ds.Clients, r.RelatedID, clientKey); i >= 0 {
			return ds.Clients[i].Name
		}
	case models.RelatedCase:
		if i := indexOf(ds.Cases, r.RelatedID, caseKey); i >= 0 {
			return ds.Cases[i].Name
		}
	}
	return NoEntityLabel
}

// InsertReminder requires a description. General reminders always carry
// related_id 0; a client/case reminder may carry 0 only while there are no
// clients/cases to link to, otherwise the target must exist. Completion
// starts false.
func (s *Store) InsertReminder(r models.Reminder) (int, error) {
	if r.RelatedType == "" {
		r.RelatedType = models.RelatedGeneral
	}
	if r.RelatedType == models.RelatedGeneral {
		r.RelatedID = 0
	}
	if r.Date.IsZero() {
		r.Date = utils.Today()
	}
	r.IsCompleted = false

	var id int
	err := s.mutate("insert reminder", func(ds *models.Dataset) error {
		if err := validateReminder(ds, r, true); err != nil {
			return err
		}
		id = nextID(ds.Reminders, reminderKey)
		r.ID = id
		ds.Reminders = append(ds.Reminders, r)
		return nil
	})
	return id, err
}

// UpdateReminder applies p to the reminder with the given id. The target is
// only re-checked when the relation itself changes.
func (s *Store) UpdateReminder(id int, p ReminderPatch) error {
	return s.mutate("update reminder", func(ds *models.Dataset) error {
		i := indexOf(ds.Reminders, id, reminderKey)
		if i < 0 {
			return ErrNotFound
		}
		r := ds.Reminders[i]
		setIf(&r.RelatedType, p.RelatedType)
		setIf(&r.RelatedID, p.RelatedID)
		setIf(&r.Description, p.Description)
		setIf(&r.Date, p.Date)
		setIf(&r.IsCompleted, p.IsCompleted)
		if r.RelatedType == models.RelatedGeneral {
			r.RelatedID = 0
		}
		relinked := p.RelatedType != nil || p.RelatedID != nil
		if err := validateReminder(ds, r, relinked); err != nil {
			return err
		}
		ds.Reminders[i] = r
		return nil
	})
}

// CompleteReminder marks a reminder done.
func (s *Store) CompleteReminder(id int) error {
	done := true
	return s.UpdateReminder(id, ReminderPatch{IsCompleted: &done})
}

// DeleteReminder removes a reminder; nothing depends on reminders.
func (s *Store) DeleteReminder(id int) error {
	return s.mutate("delete reminder", func(ds *models.Dataset) error {
		i := indexOf(ds.Reminders, id, reminderKey)
		if i < 0 {
			return ErrNotFound
		}
		ds.Reminders = removeAt(ds.Reminders, i)
		return nil
	})
}
