// Package testhelpers builds throwaway stores and drives fiber apps in
// handler tests.
package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/mojaz-backend/internal/auth"
	"github.com/aldoetobex/mojaz-backend/internal/storage"
	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

// NewStore opens a store backed by a JSON file in a temp dir.
func NewStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mojaz_data.json")
	st, err := store.Open(storage.NewJSONFile(path))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st, path
}

// NewApp is a fiber app with the production error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler})
}

// PinClock fixes utils.Now to 10:30 on day (YYYY-MM-DD) for the test.
func PinClock(t *testing.T, day string) {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", day+" 10:30:00")
	if err != nil {
		t.Fatalf("bad day %q: %v", day, err)
	}
	prev := utils.Now
	utils.Now = func() time.Time { return ts }
	t.Cleanup(func() { utils.Now = prev })
}

// Do sends body (marshalled to JSON when not nil) and returns the status
// and raw response body.
func Do(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

// DoJSON is Do followed by decoding the response into out.
func DoJSON(t *testing.T, app *fiber.App, method, path string, body, out any, headers ...string) int {
	t.Helper()
	code, raw := Do(t, app, method, path, body, headers...)
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode %s %s (%d): %v; body=%s", method, path, code, err, raw)
		}
	}
	return code
}

