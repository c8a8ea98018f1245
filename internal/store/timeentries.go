package store

import (
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

// TimeEntryPatch carries the fields of an update; nil leaves a field unchanged.
type TimeEntryPatch struct {
	ClientID    *int
	CaseID      *int
	Date        *models.Date
	Hours       *float64
	Category    *models.TimeCategory
	Description *string
}

func validateTimeEntry(ds *models.Dataset, te models.TimeEntry) error {
	ve := &ValidationError{}
	if !hasClient(ds, te.ClientID) {
		ve.add("client_id", msgNoClient)
	}
	if te.CaseID != 0 && !hasCase(ds, te.CaseID) {
		ve.add("case_id", msgNoCase)
	}
	if !(te.Hours > 0) {
		ve.add("hours", msgPositive)
	}
	if !te.Category.Valid() {
		ve.add("category", msgNotAllowed)
	}
	return ve.orNil()
}

// TimeEntries lists every entry; clientID > 0 narrows to one client.
func (s *Store) TimeEntries(clientID int) []models.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if clientID <= 0 {
		return clone(s.data.TimeEntries)
	}
	out := []models.TimeEntry{}
	for _, te := range s.data.TimeEntries {
		if te.ClientID == clientID {
			out = append(out, te)
		}
	}
	return out
}

// TimeEntry returns one entry.
func (s *Store) TimeEntry(id int) (models.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.data.TimeEntries, id, timeEntryKey)
	if i < 0 {
		return models.TimeEntry{}, ErrNotFound
	}
	return s.data.TimeEntries[i], nil
}

// InsertTimeEntry requires an existing client and positive hours.
func (s *Store) InsertTimeEntry(te models.TimeEntry) (int, error) {
	if te.Date.IsZero() {
		te.Date = utils.Today()
	}
	if te.Category == "" {
		te.Category = models.TimeOther
	}

	var id int
	err := s.mutate("insert time entry", func(ds *models.Dataset) error {
		if err := validateTimeEntry(ds, te); err != nil {
			return err
		}
		id = nextID(ds.TimeEntries, timeEntryKey)
		te.ID = id
		ds.TimeEntries = append(ds.TimeEntries, te)
		return nil
	})
	return id, err
}

// UpdateTimeEntry applies p to the entry with the given id.
func (s *Store) UpdateTimeEntry(id int, p TimeEntryPatch) error {
	return s.mutate("update time entry", func(ds *models.Dataset) error {
		i := indexOf(ds.TimeEntries, id, timeEntryKey)
		if i < 0 {
			return ErrNotFound
		}
		te := ds.TimeEntries[i]
		setIf(&te.ClientID, p.ClientID)
		setIf(&te.CaseID, p.CaseID)
		setIf(&te.Date, p.Date)
		setIf(&te.Hours, p.Hours)
		setIf(&te.Category, p.Category)
		setIf(&te.Description, p.Description)
		if err := validateTimeEntry(ds, te); err != nil {
			return err
		}
		ds.TimeEntries[i] = te
		return nil
	})
}

// DeleteTimeEntry removes an entry; nothing depends on time entries.
func (s *Store) DeleteTimeEntry(id int) error {
	return s.mutate("delete time entry", func(ds *models.Dataset) error {
		i := indexOf(ds.TimeEntries, id, timeEntryKey)
		if i < 0 {
			return ErrNotFound
		}
		ds.TimeEntries = removeAt(ds.TimeEntries, i)
		return nil
	})
}
