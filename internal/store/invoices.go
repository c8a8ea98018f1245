package store

import (
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

// InvoicePatch carries the fields of an update; nil leaves a field unchanged.
type InvoicePatch struct {
	ClientID *int
	CaseID   *int
	Amount   *float64
	Paid     *bool
	Date     *models.Date
	DueDate  *models.Date
}

func validateInvoice(ds *models.Dataset, inv models.Invoice) error {
	ve := &ValidationError{}
	if !hasClient(ds, inv.ClientID) {
		ve.add("client_id", msgNoClient)
	}
	if inv.CaseID != 0 && !hasCase(ds, inv.CaseID) {
		ve.add("case_id", msgNoCase)
	}
	if !(inv.Amount > 0) {
		ve.add("amount", msgPositive)
	}
	return ve.orNil()
}

// Invoices lists every invoice; a non-nil paid filters on payment state.
func (s *Store) Invoices(paid *bool) []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if paid == nil {
		return clone(s.data.Invoices)
	}
	out := []models.Invoice{}
	for _, inv := range s.data.Invoices {
		if inv.Paid == *paid {
			out = append(out, inv)
		}
	}
	return out
}

// Invoice returns one invoice.
func (s *Store) Invoice(id int) (models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.data.Invoices, id, invoiceKey)
	if i < 0 {
		return models.Invoice{}, ErrNotFound
	}
	return s.data.Invoices[i], nil
}

// InsertInvoice requires an existing client and a positive amount. Missing
// dates default to today and today+30.
func (s *Store) InsertInvoice(inv models.Invoice) (int, error) {
	today := utils.Today()
	if inv.Date.IsZero() {
		inv.Date = today
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = today.AddDays(30)
	}

	var id int
	err := s.mutate("insert invoice", func(ds *models.Dataset) error {
		if err := validateInvoice(ds, inv); err != nil {
			return err
		}
		id = nextID(ds.Invoices, invoiceKey)
		inv.ID = id
		ds.Invoices = append(ds.Invoices, inv)
		return nil
	})
	return id, err
}

// UpdateInvoice applies p to the invoice with the given id.
func (s *Store) UpdateInvoice(id int, p InvoicePatch) error {
	return s.mutate("update invoice", func(ds *models.Dataset) error {
		i := indexOf(ds.Invoices, id, invoiceKey)
		if i < 0 {
			return ErrNotFound
		}
		inv := ds.Invoices[i]
		setIf(&inv.ClientID, p.ClientID)
		setIf(&inv.CaseID, p.CaseID)
		setIf(&inv.Amount, p.Amount)
		setIf(&inv.Paid, p.Paid)
		setIf(&inv.Date, p.Date)
		setIf(&inv.DueDate, p.DueDate)
		if err := validateInvoice(ds, inv); err != nil {
			return err
		}
		ds.Invoices[i] = inv
		return nil
	})
}

// SetInvoicePaid flips the payment flag only.
func (s *Store) SetInvoicePaid(id int, paid bool) error {
	return s.UpdateInvoice(id, InvoicePatch{Paid: &paid})
}

// DeleteInvoice removes an invoice; nothing depends on invoices.
func (s *Store) DeleteInvoice(id int) error {
	return s.mutate("delete invoice", func(ds *models.Dataset) error {
		i := indexOf(ds.Invoices, id, invoiceKey)
		if i < 0 {
			return ErrNotFound
		}
		ds.Invoices = removeAt(ds.Invoices, i)
		return nil
	})
}
