package store

import (
	"strings"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

// CasePatch carries the fields of an update; nil leaves a field unchanged.
// The activity log is only ever extended through AppendCaseActivity.
type CasePatch struct {
	ClientID          *int
	Name              *string
	Type              *models.CaseType
	Status            *models.CaseStatus
	CourtDate         *models.Date
	OpposingParty     *string
	Description       *string
	ResponsibleLawyer *string
	Notes             *string
	Priority          *models.Priority
}

func validateCase(ds *models.Dataset, c models.Case) error {
	ve := &ValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		ve.add("case_name", msgRequired)
	}
	if !hasClient(ds, c.ClientID) {
		ve.add("client_id", msgNoClient)
	}
	if !c.Type.Valid() {
		ve.add("case_type", msgNotAllowed)
	}
	if !c.Status.Valid() {
		ve.add("status", msgNotAllowed)
	}
	if !c.Priority.Valid() {
		ve.add("priority", msgNotAllowed)
	}
	return ve.orNil()
}

// Cases lists every case in insertion order.
func (s *Store) Cases() []models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCases(s.data.Cases)
}

// Case returns one case.
func (s *Store) Case(id int) (models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.data.Cases, id, caseKey)
	if i < 0 {
		return models.Case{}, ErrNotFound
	}
	return cloneCase(s.data.Cases[i]), nil
}

// CasesOfClient lists the cases opened for one client.
func (s *Store) CasesOfClient(clientID int) []models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Case{}
	for _, c := range s.data.Cases {
		if c.ClientID == clientID {
			out = append(out, cloneCase(c))
		}
	}
	return out
}

// InsertCase requires a case name and an existing client. Unset enums take
// the first option of their list (priority defaults to medium), a zero
// court date becomes a week from today.
func (s *Store) InsertCase(c models.Case) (int, error) {
	if c.Type == "" {
		c.Type = models.CaseCivil
	}
	if c.Status == "" {
		c.Status = models.CaseActive
	}
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	}
	if c.CourtDate.IsZero() {
		c.CourtDate = utils.Today().AddDays(7)
	}
	c.ActivityLog = clone(c.ActivityLog)

	var id int
	err := s.mutate("insert case", func(ds *models.Dataset) error {
		if err := validateCase(ds, c); err != nil {
			return err
		}
		id = nextID(ds.Cases, caseKey)
		c.ID = id
		ds.Cases = append(ds.Cases, c)
		return nil
	})
	return id, err
}

// UpdateCase applies p to the case with the given id.
func (s *Store) UpdateCase(id int, p CasePatch) error {
	return s.mutate("update case", func(ds *models.Dataset) error {
		i := indexOf(ds.Cases, id, caseKey)
		if i < 0 {
			return ErrNotFound
		}
		c := cloneCase(ds.Cases[i])
		setIf(&c.ClientID, p.ClientID)
		setIf(&c.Name, p.Name)
		setIf(&c.Type, p.Type)
		setIf(&c.Status, p.Status)
		setIf(&c.CourtDate, p.CourtDate)
		setIf(&c.OpposingParty, p.OpposingParty)
		setIf(&c.Description, p.Description)
		setIf(&c.ResponsibleLawyer, p.ResponsibleLawyer)
		setIf(&c.Notes, p.Notes)
		setIf(&c.Priority, p.Priority)
		if err := validateCase(ds, c); err != nil {
			return err
		}
		ds.Cases[i] = c
		return nil
	})
}

// AppendCaseActivity adds a timestamped entry to the end of the case log.
func (s *Store) AppendCaseActivity(id int, description string) (models.ActivityEntry, error) {
	var entry models.ActivityEntry
	if strings.TrimSpace(description) == "" {
		ve := &ValidationError{}
		ve.add("description", msgRequired)
		return entry, ve
	}
	err := s.mutate("append case activity", func(ds *models.Dataset) error {
		i := indexOf(ds.Cases, id, caseKey)
		if i < 0 {
			return ErrNotFound
		}
		entry = models.ActivityEntry{Timestamp: utils.Stamp(), Description: description}
		ds.Cases[i].ActivityLog = append(ds.Cases[i].ActivityLog, entry)
		return nil
	})
	return entry, err
}

// DeleteCase removes a case that nothing references. Otherwise it returns a
// *BlockedError and the table is left untouched.
func (s *Store) DeleteCase(id int) error {
	return s.mutate("delete case", func(ds *models.Dataset) error {
		i := indexOf(ds.Cases, id, caseKey)
		if i < 0 {
			return ErrNotFound
		}
		if deps := caseDependents(ds, id); len(deps) > 0 {
			return &BlockedError{Entity: "case", ID: id, Dependents: deps}
		}
		ds.Cases = removeAt(ds.Cases, i)
		return nil
	})
}
