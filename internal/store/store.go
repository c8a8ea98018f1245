// Package store is the in-memory record store: one table per entity, ids
// allocated max+1, deletes guarded by referential checks, and the whole
// dataset handed to a Gateway after every mutation.
package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

// Gateway loads and saves the complete dataset.
type Gateway interface {
	Load() (*models.Dataset, error)
	Save(*models.Dataset) error
}

// Store owns every table for the lifetime of the process.
// All mutations, including the save that follows them, run under one lock.
type Store struct {
	mu   sync.RWMutex
	gw   Gateway
	data *models.Dataset
}

// Open loads the dataset through gw. A gateway that reports an error but
// still hands back a dataset (the fail-to-empty policy) is logged and
// accepted; only a nil dataset is fatal.
func Open(gw Gateway) (*Store, error) {
	ds, err := gw.Load()
	if err != nil {
		if ds == nil {
			return nil, err
		}
		zap.S().Warnw("dataset load failed, starting with empty tables", "error", err)
	}
	return &Store{gw: gw, data: normalize(ds)}, nil
}

// New wraps an already loaded dataset. Used by tests and tools.
func New(gw Gateway, ds *models.Dataset) *Store {
	if ds == nil {
		ds = models.NewDataset()
	}
	return &Store{gw: gw, data: normalize(ds)}
}

func normalize(ds *models.Dataset) *models.Dataset {
	if ds.Clients == nil {
		ds.Clients = []models.Client{}
	}
	if ds.Cases == nil {
		ds.Cases = []models.Case{}
	}
	if ds.Invoices == nil {
		ds.Invoices = []models.Invoice{}
	}
	if ds.Reminders == nil {
		ds.Reminders = []models.Reminder{}
	}
	if ds.Users == nil {
		ds.Users = []models.User{}
	}
	if ds.TimeEntries == nil {
		ds.TimeEntries = []models.TimeEntry{}
	}
	return ds
}

// Snapshot returns a deep copy of every table.
func (s *Store) Snapshot() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &models.Dataset{
		Clients:     clone(s.data.Clients),
		Cases:       cloneCases(s.data.Cases),
		Invoices:    clone(s.data.Invoices),
		Reminders:   clone(s.data.Reminders),
		Users:       clone(s.data.Users),
		TimeEntries: clone(s.data.TimeEntries),
	}
}

// mutate applies fn under the write lock and persists the dataset when fn
// succeeds. A failed save leaves the mutation in place.
func (s *Store) mutate(op string, fn func(ds *models.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.data); err != nil {
		return err
	}
	if err := s.gw.Save(s.data); err != nil {
		zap.S().Errorw("save failed, memory and disk now diverge", "op", op, "error", err)
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

/* ============================== ID Allocator ============================ */

// nextID returns 1 for an empty table, otherwise 1 + the largest id.
func nextID[T any](rows []T, id func(T) int) int {
	top := 0
	for _, r := range rows {
		if v := id(r); v > top {
			top = v
		}
	}
	return top + 1
}

func indexOf[T any](rows []T, id int, key func(T) int) int {
	for i, r := range rows {
		if key(r) == id {
			return i
		}
	}
	return -1
}

func removeAt[T any](rows []T, i int) []T {
	return append(rows[:i:i], rows[i+1:]...)
}

func clone[T any](rows []T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}

func cloneCase(c models.Case) models.Case {
	c.ActivityLog = clone(c.ActivityLog)
	return c
}

func cloneCases(rows []models.Case) []models.Case {
	out := make([]models.Case, len(rows))
	for i, c := range rows {
		out[i] = cloneCase(c)
	}
	return out
}

func clientKey(c models.Client) int       { return c.ID }
func caseKey(c models.Case) int           { return c.ID }
func invoiceKey(i models.Invoice) int     { return i.ID }
func reminderKey(r models.Reminder) int   { return r.ID }
func timeEntryKey(t models.TimeEntry) int { return t.ID }

/* ======================= Referential Integrity Guard ==================== */

// CanDeleteClient reports whether no case, invoice, client reminder or time
// entry references the client.
func (s *Store) CanDeleteClient(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(clientDependents(s.data, id)) == 0
}

// CanDeleteCase reports whether no invoice, case reminder or time entry
// references the case.
func (s *Store) CanDeleteCase(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(caseDependents(s.data, id)) == 0
}

func clientDependents(ds *models.Dataset, id int) []string {
	var deps []string
	for _, c := range ds.Cases {
		if c.ClientID == id {
			deps = append(deps, "cases")
			break
		}
	}
	for _, inv := range ds.Invoices {
		if inv.ClientID == id {
			deps = append(deps, "invoices")
			break
		}
	}
	for _, r := range ds.Reminders {
		if r.RelatedType == models.RelatedClient && r.RelatedID == id {
			deps = append(deps, "reminders")
			break
		}
	}
	for _, te := range ds.TimeEntries {
		if te.ClientID == id {
			deps = append(deps, "time_entries")
			break
		}
	}
	return deps
}

func caseDependents(ds *models.Dataset, id int) []string {
	var deps []string
	for _, inv := range ds.Invoices {
		if inv.CaseID == id {
			deps = append(deps, "invoices")
			break
		}
	}
	for _, r := range ds.Reminders {
		if r.RelatedType == models.RelatedCase && r.RelatedID == id {
			deps = append(deps, "reminders")
			break
		}
	}
	for _, te := range ds.TimeEntries {
		if te.CaseID == id {
			deps = append(deps, "time_entries")
			break
		}
	}
	return deps
}

func hasClient(ds *models.Dataset, id int) bool {
	return indexOf(ds.Clients, id, clientKey) >= 0
}

func hasCase(ds *models.Dataset, id int) bool {
	return indexOf(ds.Cases, id, caseKey) >= 0
}
