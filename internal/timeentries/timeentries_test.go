package timeentries

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/internal/testhelpers"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	st, _ := testhelpers.NewStore(t)
	h := NewHandler(st)

	app := testhelpers.NewApp()
	app.Get("/api/time-entries", h.List)
	app.Post("/api/time-entries", h.Create)
	app.Get("/api/time-entries/:id", h.Get)
	app.Put("/api/time-entries/:id", h.Update)
	app.Delete("/api/time-entries/:id", h.Delete)

	for _, name := range []string{"Ali", "Omar"} {
		_, err := st.InsertClient(models.Client{Name: name, Phone: "0551234567"})
		require.NoError(t, err)
	}
	return app, st
}

func TestCreateTimeEntryDefaults(t *testing.T) {
	testhelpers.PinClock(t, "2024-03-01")
	app, _ := newTestApp(t)

	var out models.CreatedResponse
	code := testhelpers.DoJSON(t, app, "POST", "/api/time-entries",
		map[string]any{"client_id": 1, "hours": 1.5}, &out)
	require.Equal(t, fiber.StatusCreated, code)

	var te models.TimeEntry
	require.Equal(t, fiber.StatusOK, testhelpers.DoJSON(t, app, "GET", "/api/time-entries/1", nil, &te))
	assert.Equal(t, "2024-03-01", te.Date.String())
	assert.Equal(t, models.TimeOther, te.Category)
	assert.Equal(t, 1.5, te.Hours)
}

func TestCreateTimeEntryValidation(t *testing.T) {
	app, st := newTestApp(t)

	var out models.ValidationErrorResponse
	code := testhelpers.DoJSON(t, app, "POST", "/api/time-entries",
		map[string]any{"client_id": 1, "hours": 0, "category": "napping"}, &out)
	require.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, out.Errors, "hours")
	assert.Contains(t, out.Errors, "category")

	code, _ = testhelpers.Do(t, app, "POST", "/api/time-entries",
		map[string]any{"client_id": 99, "hours": 2})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Empty(t, st.TimeEntries(0))
}

func TestListTimeEntriesByClient(t *testing.T) {
	app, st := newTestApp(t)
	for _, e := range []models.TimeEntry{
		{ClientID: 1, Hours: 2},
		{ClientID: 2, Hours: 1},
		{ClientID: 1, Hours: 0.5, Category: models.TimeResearch},
	} {
		_, err := st.InsertTimeEntry(e)
		require.NoError(t, err)
	}

	var list EntryList
	testhelpers.DoJSON(t, app, "GET", "/api/time-entries?client_id=1", nil, &list)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 2.5, list.TotalHours)

	list = EntryList{}
	testhelpers.DoJSON(t, app, "GET", "/api/time-entries", nil, &list)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 3.5, list.TotalHours)
}

func TestUpdateAndDeleteTimeEntry(t *testing.T) {
	app, st := newTestApp(t)
	_, err := st.InsertTimeEntry(models.TimeEntry{ClientID: 1, Hours: 2})
	require.NoError(t, err)

	var te models.TimeEntry
	code := testhelpers.DoJSON(t, app, "PUT", "/api/time-entries/1",
		map[string]any{"hours": 3, "category": string(models.TimePleading), "client_id": 2}, &te)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 3.0, te.Hours)
	assert.Equal(t, models.TimePleading, te.Category)
	assert.Equal(t, 2, te.ClientID)

	code, _ = testhelpers.Do(t, app, "DELETE", "/api/time-entries/1", nil)
	assert.Equal(t, fiber.StatusNoContent, code)
	code, _ = testhelpers.Do(t, app, "DELETE", "/api/time-entries/1", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}
