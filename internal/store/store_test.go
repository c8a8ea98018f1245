package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

/* ============================================================================
   Helpers
   ============================================================================ */

// memGateway keeps the last saved dataset and can be told to fail.
type memGateway struct {
	mu    sync.Mutex
	saved *models.Dataset
	saves int
	fail  error
}

func (g *memGateway) Load() (*models.Dataset, error) { return models.NewDataset(), nil }

func (g *memGateway) Save(ds *models.Dataset) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return g.fail
	}
	g.saves++
	g.saved = ds
	return nil
}

func pinClock(t *testing.T, day string) {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", day+" 10:30:00")
	require.NoError(t, err)
	prev := utils.Now
	utils.Now = func() time.Time { return ts }
	t.Cleanup(func() { utils.Now = prev })
}

func newTestStore(t *testing.T) (*Store, *memGateway) {
	t.Helper()
	gw := &memGateway{}
	s, err := Open(gw)
	require.NoError(t, err)
	return s, gw
}

func mustClient(t *testing.T, s *Store, name string) int {
	t.Helper()
	id, err := s.InsertClient(models.Client{Name: name, Phone: "0551234567"})
	require.NoError(t, err)
	return id
}

func mustCase(t *testing.T, s *Store, clientID int, name string) int {
	t.Helper()
	id, err := s.InsertCase(models.Case{ClientID: clientID, Name: name})
	require.NoError(t, err)
	return id
}

/* ============================================================================
   ID allocation
   ============================================================================ */

func TestInsertClient_IDsStartAtOneAndIncrease(t *testing.T) {
	s, gw := newTestStore(t)

	a := mustClient(t, s, "A")
	b := mustClient(t, s, "B")
	c := mustClient(t, s, "C")

	assert.Equal(t, []int{1, 2, 3}, []int{a, b, c})
	assert.Equal(t, 3, gw.saves)
}

func TestInsertClient_IDNotReusedAfterDeleteInMiddle(t *testing.T) {
	s, _ := newTestStore(t)
	mustClient(t, s, "A")
	two := mustClient(t, s, "B")
	mustClient(t, s, "C")

	require.NoError(t, s.DeleteClient(two))
	next := mustClient(t, s, "D")
	assert.Equal(t, 4, next)
}

func TestInsertClient_AllocatesFromMaxOfLoadedIDs(t *testing.T) {
	ds := models.NewDataset()
	ds.Clients = []models.Client{{ID: 1, Name: "x", Phone: "1"}, {ID: 7, Name: "y", Phone: "2"}}
	s := New(&memGateway{}, ds)

	id := mustClient(t, s, "z")
	assert.Equal(t, 8, id)
}

/* ============================================================================
   Validation and defaults
   ============================================================================ */

func TestInsertClient_RequiresNameAndPhone(t *testing.T) {
	s, gw := newTestStore(t)

	_, err := s.InsertClient(models.Client{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "name")
	assert.Contains(t, ve.Errors, "phone")
	assert.Empty(t, s.Clients())
	assert.Equal(t, 0, gw.saves)
}

func TestInsertClient_DefaultsType(t *testing.T) {
	s, _ := newTestStore(t)
	id := mustClient(t, s, "Ali")
	c, err := s.Client(id)
	require.NoError(t, err)
	assert.Equal(t, models.ClientIndividual, c.Type)
}

func TestInsertCase_Defaults(t *testing.T) {
	pinClock(t, "2024-03-01")
	s, _ := newTestStore(t)
	cl := mustClient(t, s, "Ali")

	id := mustCase(t, s, cl, "Dispute A")
	cs, err := s.Case(id)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, cs.Priority)
	assert.Equal(t, models.CaseActive, cs.Status)
	assert.Equal(t, models.CaseCivil, cs.Type)
	assert.Equal(t, "2024-03-08", cs.CourtDate.String())
	assert.Empty(t, cs.ActivityLog)
}

func TestInsertCase_UnknownClientRejected(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.InsertCase(models.Case{ClientID: 42, Name: "x"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "client_id")
}

func TestInsertInvoice_DateDefaultsAndPositiveAmount(t *testing.T) {
	pinClock(t, "2024-03-01")
	s, _ := newTestStore(t)
	cl := mustClient(t, s, "Ali")

	_, err := s.InsertInvoice(models.Invoice{ClientID: cl, Amount: 0})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "amount")

	id, err := s.InsertInvoice(models.Invoice{ClientID: cl, Amount: 500})
	require.NoError(t, err)
	inv, err := s.Invoice(id)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", inv.Date.String())
	assert.Equal(t, "2024-03-31", inv.DueDate.String())
	assert.False(t, inv.Paid)
}

func TestInsertReminder_GeneralForcesZeroRelatedID(t *testing.T) {
	s, _ := newTestStore(t)
	id, err := s.InsertReminder(models.Reminder{RelatedType: models.RelatedGeneral, RelatedID: 9, Description: "call court"})
	require.NoError(t, err)
	r, err := s.Reminder(id)
	require.NoError(t, err)
	assert.Equal(t, 0, r.RelatedID)
	assert.Equal(t, NoEntityLabel, r.Related)
	assert.False(t, r.IsCompleted)
}

func TestInsertReminder_ZeroRelatedIDOnlyWhileNothingToLink(t *testing.T) {
	s, _ := newTestStore(t)

	// empty tables: 0 means "nothing to link to"
	_, err := s.InsertReminder(models.Reminder{RelatedType: models.RelatedClient, Description: "first client"})
	require.NoError(t, err)
	_, err = s.InsertReminder(models.Reminder{RelatedType: models.RelatedCase, Description: "first case"})
	require.NoError(t, err)

	cl := mustClient(t, s, "Ali")
	var ve *ValidationError
	_, err = s.InsertReminder(models.Reminder{RelatedType: models.RelatedClient, Description: "x"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "related_id")

	// still no cases
	_, err = s.InsertReminder(models.Reminder{RelatedType: models.RelatedCase, Description: "y"})
	require.NoError(t, err)

	mustCase(t, s, cl, "Dispute")
	_, err = s.InsertReminder(models.Reminder{RelatedType: models.RelatedCase, Description: "z"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "related_id")

	// a reminder made before the client existed can still be edited
	desc := "renamed"
	require.NoError(t, s.UpdateReminder(1, ReminderPatch{Description: &desc}))
	// but re-linking it to 0 is refused now
	zero := 0
	err = s.UpdateReminder(1, ReminderPatch{RelatedID: &zero})
	require.ErrorAs(t, err, &ve)
}

func TestRelatedLabel(t *testing.T) {
	s, _ := newTestStore(t)
	cl := mustClient(t, s, "Ali Hassan")
	cs := mustCase(t, s, cl, "Dispute A")

	assert.Equal(t, "Ali Hassan", s.RelatedLabel(models.Reminder{RelatedType: models.RelatedClient, RelatedID: cl}))
	assert.Equal(t, "Dispute A", s.RelatedLabel(models.Reminder{RelatedType: models.RelatedCase, RelatedID: cs}))
	assert.Equal(t, NoEntityLabel, s.RelatedLabel(models.Reminder{RelatedType: models.RelatedGeneral}))
	assert.Equal(t, NoEntityLabel, s.RelatedLabel(models.Reminder{RelatedType: models.RelatedClient, RelatedID: 99}))
}

func TestInsertTimeEntry_RequiresPositiveHours(t *testing.T) {
	s, _ := newTestStore(t)
	cl := mustClient(t, s, "Ali")
	_, err := s.InsertTimeEntry(models.TimeEntry{ClientID: cl, Hours: -1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "hours")

	id, err := s.InsertTimeEntry(models.TimeEntry{ClientID: cl, Hours: 1.5})
	require.NoError(t, err)
	te, err := s.TimeEntry(id)
	require.NoError(t, err)
	assert.Equal(t, models.TimeOther, te.Category)
}

/* ============================================================================
   Update
   ============================================================================ */

func TestUpdate_MissingIDIsNotFound(t *testing.T) {
	s, gw := newTestStore(t)
	name := "x"
	assert.ErrorIs(t, s.UpdateClient(99, ClientPatch{Name: &name}), ErrNotFound)
	assert.ErrorIs(t, s.UpdateCase(99, CasePatch{Name: &name}), ErrNotFound)
	assert.ErrorIs(t, s.SetInvoicePaid(99, true), ErrNotFound)
	assert.ErrorIs(t, s.CompleteReminder(99), ErrNotFound)
	assert.ErrorIs(t, s.UpdateTimeEntry(99, TimeEntryPatch{Description: &name}), ErrNotFound)
	assert.Equal(t, 0, gw.saves)
}

func TestUpdateClient_InvalidPatchLeavesRowUntouched(t *testing.T) {
	s, _ := newTestStore(t)
	id := mustClient(t, s, "Ali")
	empty := ""
	err := s.UpdateClient(id, ClientPatch{Name: &empty})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	c, _ := s.Client(id)
	assert.Equal(t, "Ali", c.Name)
}

func TestAppendCaseActivity_TimestampedAndOrdered(t *testing.T) {
	pinClock(t, "2024-03-01")
	s, _ := newTestStore(t)
	cs := mustCase(t, s, mustClient(t, s, "Ali"), "Dispute A")

	_, err := s.AppendCaseActivity(cs, "filed")
	require.NoError(t, err)
	_, err = s.AppendCaseActivity(cs, "hearing set")
	require.NoError(t, err)

	got, _ := s.Case(cs)
	require.Len(t, got.ActivityLog, 2)
	assert.Equal(t, "2024-03-01 10:30:00", got.ActivityLog[0].Timestamp)
	assert.Equal(t, "filed", got.ActivityLog[0].Description)
	assert.Equal(t, "hearing set", got.ActivityLog[1].Description)
}

/* ============================================================================
   Referential integrity
   ============================================================================ */

func TestDeleteClient_BlockedByEachDependent(t *testing.T) {
	cases := map[string]func(t *testing.T, s *Store, client int){
		"cases": func(t *testing.T, s *Store, client int) {
			mustCase(t, s, client, "c")
		},
		"invoices": func(t *testing.T, s *Store, client int) {
			_, err := s.InsertInvoice(models.Invoice{ClientID: client, Amount: 1})
			require.NoError(t, err)
		},
		"reminders": func(t *testing.T, s *Store, client int) {
			_, err := s.InsertReminder(models.Reminder{RelatedType: models.RelatedClient, RelatedID: client, Description: "r"})
			require.NoError(t, err)
		},
		"time_entries": func(t *testing.T, s *Store, client int) {
			_, err := s.InsertTimeEntry(models.TimeEntry{ClientID: client, Hours: 1})
			require.NoError(t, err)
		},
	}
	for dep, seed := range cases {
		t.Run(dep, func(t *testing.T) {
			s, _ := newTestStore(t)
			cl := mustClient(t, s, "Ali")
			seed(t, s, cl)

			assert.False(t, s.CanDeleteClient(cl))
			err := s.DeleteClient(cl)
			var be *BlockedError
			require.ErrorAs(t, err, &be)
			assert.ErrorIs(t, err, ErrIntegrityBlocked)
			assert.Contains(t, be.Dependents, dep)
			assert.Len(t, s.Clients(), 1)
		})
	}
}

func TestDeleteCase_BlockedByInvoice(t *testing.T) {
	s, _ := newTestStore(t)
	cl := mustClient(t, s, "Ali")
	cs := mustCase(t, s, cl, "Dispute A")
	_, err := s.InsertInvoice(models.Invoice{ClientID: cl, CaseID: cs, Amount: 10})
	require.NoError(t, err)

	assert.False(t, s.CanDeleteCase(cs))
	assert.ErrorIs(t, s.DeleteCase(cs), ErrIntegrityBlocked)
	assert.Len(t, s.Cases(), 1)
}

func TestDeleteReminder_UnblocksClient(t *testing.T) {
	s, _ := newTestStore(t)
	cl := mustClient(t, s, "Ali")
	rid, err := s.InsertReminder(models.Reminder{RelatedType: models.RelatedClient, RelatedID: cl, Description: "r"})
	require.NoError(t, err)
	require.Error(t, s.DeleteClient(cl))

	require.NoError(t, s.DeleteReminder(rid))
	assert.True(t, s.CanDeleteClient(cl))
	require.NoError(t, s.DeleteClient(cl))
	assert.Empty(t, s.Clients())
}

func TestDelete_MissingIDIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	assert.ErrorIs(t, s.DeleteClient(5), ErrNotFound)
	assert.ErrorIs(t, s.DeleteCase(5), ErrNotFound)
	assert.ErrorIs(t, s.DeleteInvoice(5), ErrNotFound)
	assert.ErrorIs(t, s.DeleteReminder(5), ErrNotFound)
	assert.ErrorIs(t, s.DeleteTimeEntry(5), ErrNotFound)
}

/* ============================================================================
   Scenario: a client with one case and one invoice
   ============================================================================ */

func TestScenario_AliDisputeA(t *testing.T) {
	pinClock(t, "2024-03-01")
	s, gw := newTestStore(t)

	ali, err := s.InsertClient(models.Client{Name: "Ali", Phone: "0500000000"})
	require.NoError(t, err)
	require.Equal(t, 1, ali)

	dispute, err := s.InsertCase(models.Case{ClientID: ali, Name: "Dispute A"})
	require.NoError(t, err)
	require.Equal(t, 1, dispute)

	inv, err := s.InsertInvoice(models.Invoice{ClientID: ali, CaseID: dispute, Amount: 1000})
	require.NoError(t, err)
	require.Equal(t, 1, inv)

	assert.ErrorIs(t, s.DeleteClient(ali), ErrIntegrityBlocked)
	assert.ErrorIs(t, s.DeleteCase(dispute), ErrIntegrityBlocked)

	require.NoError(t, s.DeleteInvoice(inv))
	require.NoError(t, s.DeleteCase(dispute))
	require.NoError(t, s.DeleteClient(ali))

	snap := gw.saved
	require.NotNil(t, snap)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Cases)
	assert.Empty(t, snap.Invoices)
}

/* ============================================================================
   Persistence failure
   ============================================================================ */

func TestMutate_SaveFailureKeepsInMemoryChange(t *testing.T) {
	s, gw := newTestStore(t)
	gw.fail = errors.New("disk full")

	id, err := s.InsertClient(models.Client{Name: "Ali", Phone: "1"})
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "insert client", pe.Op)
	assert.Equal(t, 1, id)

	c, err := s.Client(1)
	require.NoError(t, err)
	assert.Equal(t, "Ali", c.Name)
}

/* ============================================================================
   Reads
   ============================================================================ */

func TestReminderStatusDerivation(t *testing.T) {
	pinClock(t, "2024-03-10")
	s, _ := newTestStore(t)

	past, _ := models.ParseDate("2024-03-01")
	future, _ := models.ParseDate("2024-03-20")
	old, err := s.InsertReminder(models.Reminder{Description: "old", Date: past})
	require.NoError(t, err)
	soon, err := s.InsertReminder(models.Reminder{Description: "soon", Date: future})
	require.NoError(t, err)
	done, err := s.InsertReminder(models.Reminder{Description: "done", Date: past})
	require.NoError(t, err)
	require.NoError(t, s.CompleteReminder(done))

	byID := map[int]models.ReminderStatus{}
	for _, r := range s.Reminders() {
		byID[r.ID] = r.Status
	}
	assert.Equal(t, models.ReminderOverdue, byID[old])
	assert.Equal(t, models.ReminderUpcoming, byID[soon])
	assert.Equal(t, models.ReminderCompleted, byID[done])

	st := s.Stats(utils.Today())
	assert.Equal(t, 1, st.UpcomingReminders)
}

func TestSearch(t *testing.T) {
	s, _ := newTestStore(t)
	ali := mustClient(t, s, "Ali Hassan")
	_, err := s.InsertClient(models.Client{Name: "Omar", Phone: "0599", Email: "omar@firm.sa"})
	require.NoError(t, err)
	_, err = s.InsertCase(models.Case{ClientID: ali, Name: "Dispute A", OpposingParty: "Acme"})
	require.NoError(t, err)

	assert.Len(t, s.SearchClients(""), 2)
	assert.Len(t, s.SearchClients("ALI"), 1)
	assert.Len(t, s.SearchClients("firm.sa"), 1)

	assert.Len(t, s.SearchCases("hassan"), 1)
	assert.Len(t, s.SearchCases("acme"), 1)
	assert.Len(t, s.SearchCases(string(models.CaseActive)), 1)
	assert.Empty(t, s.SearchCases("nothing"))
}

func TestInvoicesPaidFilterAndStats(t *testing.T) {
	s, _ := newTestStore(t)
	cl := mustClient(t, s, "Ali")
	a, _ := s.InsertInvoice(models.Invoice{ClientID: cl, Amount: 100})
	_, _ = s.InsertInvoice(models.Invoice{ClientID: cl, Amount: 50})
	require.NoError(t, s.SetInvoicePaid(a, true))
	_, err := s.InsertTimeEntry(models.TimeEntry{ClientID: cl, Hours: 2.5})
	require.NoError(t, err)

	paid, unpaid := true, false
	assert.Len(t, s.Invoices(nil), 2)
	assert.Len(t, s.Invoices(&paid), 1)
	assert.Len(t, s.Invoices(&unpaid), 1)

	st := s.Stats(utils.Today())
	assert.Equal(t, 1, st.Clients)
	assert.InDelta(t, 150.0, st.TotalInvoiced, 0.001)
	assert.InDelta(t, 100.0, st.TotalPaid, 0.001)
	assert.Equal(t, 1, st.InvoicesPaid)
	assert.Equal(t, 1, st.InvoicesUnpaid)
	assert.InDelta(t, 2.5, st.BillableHours, 0.001)
}

func TestUsers(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.InsertUser(models.User{Username: "admin", Password: "h1"}))
	assert.ErrorIs(t, s.InsertUser(models.User{Username: "admin", Password: "h2"}), ErrConflict)

	require.NoError(t, s.UpdateUserPassword("admin", "h3"))
	u, err := s.FindUser("admin")
	require.NoError(t, err)
	assert.Equal(t, "h3", u.Password)

	_, err = s.FindUser("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := newTestStore(t)
	cs := mustCase(t, s, mustClient(t, s, "Ali"), "Dispute A")
	_, err := s.AppendCaseActivity(cs, "filed")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Clients[0].Name = "changed"
	snap.Cases[0].ActivityLog[0].Description = "changed"

	c, _ := s.Client(1)
	k, _ := s.Case(cs)
	assert.Equal(t, "Ali", c.Name)
	assert.Equal(t, "filed", k.ActivityLog[0].Description)
}
