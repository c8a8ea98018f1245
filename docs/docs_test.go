package docs

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	BasePath    string                                `json:"basePath"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDoc(t *testing.T) (document, string) {
	t.Helper()
	raw := SwaggerInfo.ReadDoc()
	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), "served document must be valid JSON")
	return doc, raw
}

func TestDocumentsEveryRoute(t *testing.T) {
	doc, _ := readDoc(t)
	assert.Equal(t, "/api", doc.BasePath)

	want := map[string][]string{
		"/signup":                  {"post"},
		"/login":                   {"post"},
		"/me":                      {"get"},
		"/clients":                 {"get", "post"},
		"/clients/{id}":            {"get", "put", "delete"},
		"/cases":                   {"get", "post"},
		"/cases/{id}":              {"get", "put", "delete"},
		"/cases/{id}/activity":     {"post"},
		"/invoices":                {"get", "post"},
		"/invoices/{id}":           {"get", "put", "delete"},
		"/invoices/{id}/paid":      {"post"},
		"/reminders":               {"get", "post"},
		"/reminders/{id}":          {"get", "put", "delete"},
		"/reminders/{id}/complete": {"post"},
		"/time-entries":            {"get", "post"},
		"/time-entries/{id}":       {"get", "put", "delete"},
		"/dashboard":               {"get"},
		"/contracts/types":         {"get"},
		"/contracts/render":        {"post"},
		"/contracts/pdf":           {"post"},
		"/contracts/share":         {"post"},
	}
	assert.Len(t, doc.Paths, len(want))
	for path, methods := range want {
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "missing path %s", path) {
			continue
		}
		for _, m := range methods {
			assert.Contains(t, ops, m, "%s %s", strings.ToUpper(m), path)
		}
	}
}

func TestEveryReferenceIsDefined(t *testing.T) {
	doc, raw := readDoc(t)
	refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, m := range refs {
		assert.Contains(t, doc.Definitions, m[1])
	}
}
