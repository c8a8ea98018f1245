package invoices

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/internal/testhelpers"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	st, _ := testhelpers.NewStore(t)
	h := NewHandler(st)

	app := testhelpers.NewApp()
	app.Get("/api/invoices", h.List)
	app.Post("/api/invoices", h.Create)
	app.Get("/api/invoices/:id", h.Get)
	app.Put("/api/invoices/:id", h.Update)
	app.Delete("/api/invoices/:id", h.Delete)
	app.Post("/api/invoices/:id/paid", h.SetPaid)

	_, err := st.InsertClient(models.Client{Name: "Ali", Phone: "0551234567"})
	require.NoError(t, err)
	return app, st
}

func TestCreateInvoiceDefaultsAndNames(t *testing.T) {
	testhelpers.PinClock(t, "2024-03-01")
	app, _ := newTestApp(t)

	var out models.CreatedResponse
	code := testhelpers.DoJSON(t, app, "POST", "/api/invoices",
		map[string]any{"client_id": 1, "amount": 1500.5}, &out)
	require.Equal(t, fiber.StatusCreated, code)

	var it InvoiceItem
	require.Equal(t, fiber.StatusOK, testhelpers.DoJSON(t, app, "GET", "/api/invoices/1", nil, &it))
	assert.Equal(t, "2024-03-01", it.Date.String())
	assert.Equal(t, "2024-03-31", it.DueDate.String())
	assert.Equal(t, "Ali", it.ClientName)
	assert.Equal(t, store.NoEntityLabel, it.CaseName)
	assert.False(t, it.Paid)
	assert.False(t, it.Overdue)
}

func TestCreateInvoiceValidation(t *testing.T) {
	app, st := newTestApp(t)

	var out models.ValidationErrorResponse
	code := testhelpers.DoJSON(t, app, "POST", "/api/invoices",
		map[string]any{"client_id": 1, "amount": 0}, &out)
	require.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, out.Errors, "amount")

	out = models.ValidationErrorResponse{}
	code = testhelpers.DoJSON(t, app, "POST", "/api/invoices",
		map[string]any{"client_id": 1, "case_id": 7, "amount": 10}, &out)
	require.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, out.Errors, "case_id")
	assert.Empty(t, st.Invoices(nil))
}

func TestListInvoicesPaidFilter(t *testing.T) {
	app, st := newTestApp(t)
	for _, paid := range []bool{true, false, false} {
		_, err := st.InsertInvoice(models.Invoice{ClientID: 1, Amount: 100, Paid: paid})
		require.NoError(t, err)
	}

	var page utils.Page[InvoiceItem]
	testhelpers.DoJSON(t, app, "GET", "/api/invoices?paid=false", nil, &page)
	assert.Equal(t, 2, page.Total)

	page = utils.Page[InvoiceItem]{}
	testhelpers.DoJSON(t, app, "GET", "/api/invoices?paid=true", nil, &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Items[0].ID)

	page = utils.Page[InvoiceItem]{}
	testhelpers.DoJSON(t, app, "GET", "/api/invoices", nil, &page)
	assert.Equal(t, 3, page.Total)

	code, _ := testhelpers.Do(t, app, "GET", "/api/invoices?paid=maybe", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestOverdueAndMarkPaid(t *testing.T) {
	testhelpers.PinClock(t, "2024-03-01")
	app, st := newTestApp(t)
	due, _ := models.ParseDate("2024-02-01")
	_, err := st.InsertInvoice(models.Invoice{ClientID: 1, Amount: 100, DueDate: due})
	require.NoError(t, err)

	var it InvoiceItem
	testhelpers.DoJSON(t, app, "GET", "/api/invoices/1", nil, &it)
	assert.True(t, it.Overdue)

	var inv models.Invoice
	code := testhelpers.DoJSON(t, app, "POST", "/api/invoices/1/paid", nil, &inv)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, inv.Paid)

	code = testhelpers.DoJSON(t, app, "POST", "/api/invoices/1/paid", map[string]any{"paid": false}, &inv)
	require.Equal(t, fiber.StatusOK, code)
	assert.False(t, inv.Paid)

	code, _ = testhelpers.Do(t, app, "POST", "/api/invoices/5/paid", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestUpdateAndDeleteInvoice(t *testing.T) {
	app, st := newTestApp(t)
	_, err := st.InsertInvoice(models.Invoice{ClientID: 1, Amount: 100})
	require.NoError(t, err)

	var inv models.Invoice
	code := testhelpers.DoJSON(t, app, "PUT", "/api/invoices/1",
		map[string]any{"amount": 250, "due_date": "2030-01-01"}, &inv)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 250.0, inv.Amount)
	assert.Equal(t, "2030-01-01", inv.DueDate.String())

	code, _ = testhelpers.Do(t, app, "PUT", "/api/invoices/1", map[string]any{"amount": -3})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = testhelpers.Do(t, app, "DELETE", "/api/invoices/1", nil)
	assert.Equal(t, fiber.StatusNoContent, code)
	assert.Empty(t, st.Invoices(nil))
}
