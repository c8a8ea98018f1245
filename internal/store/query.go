package store

import (
	"strings"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/sanitize"
)

// SearchClients matches q case-insensitively against name, phone and email.
// An empty query returns every client.
func (s *Store) SearchClients(q string) []models.Client {
	q = sanitize.Fold(q)
	if q == "" {
		return s.Clients()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Client{}
	for _, c := range s.data.Clients {
		if containsAny(q, c.Name, c.Phone, c.Email) {
			out = append(out, c)
		}
	}
	return out
}

// SearchCases matches q against case name, client name, status and
// opposing party.
func (s *Store) SearchCases(q string) []models.Case {
	q = sanitize.Fold(q)
	if q == "" {
		return s.Cases()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[int]string, len(s.data.Clients))
	for _, c := range s.data.Clients {
		names[c.ID] = c.Name
	}
	out := []models.Case{}
	for _, c := range s.data.Cases {
		if containsAny(q, c.Name, names[c.ClientID], string(c.Status), c.OpposingParty) {
			out = append(out, cloneCase(c))
		}
	}
	return out
}

func containsAny(folded string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(sanitize.Fold(f), folded) {
			return true
		}
	}
	return false
}

// RelatedLabel is the display name of the client or case a reminder points
// at, or NoEntityLabel.
func (s *Store) RelatedLabel(r models.Reminder) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return relatedLabel(s.data, r)
}

// Stats holds the dashboard figures.
type Stats struct {
	Clients           int                       `json:"clients"`
	Cases             int                       `json:"cases"`
	TotalInvoiced     float64                   `json:"total_invoiced"`
	TotalPaid         float64                   `json:"total_paid"`
	UpcomingReminders int                       `json:"upcoming_reminders"`
	CasesByStatus     map[models.CaseStatus]int `json:"cases_by_status"`
	InvoicesPaid      int                       `json:"invoices_paid"`
	InvoicesUnpaid    int                       `json:"invoices_unpaid"`
	BillableHours     float64                   `json:"billable_hours"`
}

// Stats computes the dashboard figures. Upcoming reminders are the open ones
// dated today or later.
func (s *Store) Stats(today models.Date) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Clients:       len(s.data.Clients),
		Cases:         len(s.data.Cases),
		CasesByStatus: map[models.CaseStatus]int{},
	}
	for _, c := range s.data.Cases {
		st.CasesByStatus[c.Status]++
	}
	for _, inv := range s.data.Invoices {
		st.TotalInvoiced += inv.Amount
		if inv.Paid {
			st.TotalPaid += inv.Amount
			st.InvoicesPaid++
		} else {
			st.InvoicesUnpaid++
		}
	}
	for _, r := range s.data.Reminders {
		if r.Status(today) == models.ReminderUpcoming {
			st.UpcomingReminders++
		}
	}
	for _, te := range s.data.TimeEntries {
		st.BillableHours += te.Hours
	}
	return st
}
