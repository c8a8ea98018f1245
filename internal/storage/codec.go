// Package storage holds the persistence gateways of the record store: a JSON
// document on local disk and a single-row Postgres snapshot. Both share the
// document codec in this file.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

// LoadError reports a document that could not be parsed. The gateway still
// returns an empty dataset alongside it.
type LoadError struct {
	Source  string
	MovedTo string // where a corrupt file was set aside, if anywhere
	Err     error
}

func (e *LoadError) Error() string {
	if e.MovedTo != "" {
		return fmt.Sprintf("load %s (moved to %s): %v", e.Source, e.MovedTo, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

/* ================================ Encode ================================= */

// caseRow is a case as persisted: the activity log is a JSON string.
type caseRow struct {
	ID                int    `json:"case_id"`
	ClientID          int    `json:"client_id"`
	Name              string `json:"case_name"`
	Type              string `json:"case_type"`
	Status            string `json:"status"`
	CourtDate         string `json:"court_date"`
	OpposingParty     string `json:"opposing_party"`
	Description       string `json:"case_description"`
	ResponsibleLawyer string `json:"responsible_lawyer"`
	Notes             string `json:"notes"`
	Priority          string `json:"priority"`
	ActivityLog       string `json:"activity_log"`
}

type document struct {
	Clients     []models.Client    `json:"clients"`
	Cases       []caseRow          `json:"cases"`
	Invoices    []models.Invoice   `json:"invoices"`
	Reminders   []models.Reminder  `json:"reminders"`
	Users       []models.User      `json:"users"`
	TimeEntries []models.TimeEntry `json:"time_entries"`
}

// Encode renders the dataset as the persisted document: UTF-8, indented,
// no HTML escaping, dates as YYYY-MM-DD.
func Encode(ds *models.Dataset) ([]byte, error) {
	doc := document{
		Clients:     nonNil(ds.Clients),
		Cases:       make([]caseRow, 0, len(ds.Cases)),
		Invoices:    nonNil(ds.Invoices),
		Reminders:   nonNil(ds.Reminders),
		Users:       nonNil(ds.Users),
		TimeEntries: nonNil(ds.TimeEntries),
	}
	for _, c := range ds.Cases {
		log := c.ActivityLog
		if log == nil {
			log = []models.ActivityEntry{}
		}
		raw, err := marshalCompact(log)
		if err != nil {
			return nil, fmt.Errorf("encode activity log of case %d: %w", c.ID, err)
		}
		doc.Cases = append(doc.Cases, caseRow{
			ID:                c.ID,
			ClientID:          c.ClientID,
			Name:              c.Name,
			Type:              string(c.Type),
			Status:            string(c.Status),
			CourtDate:         c.CourtDate.String(),
			OpposingParty:     c.OpposingParty,
			Description:       c.Description,
			ResponsibleLawyer: c.ResponsibleLawyer,
			Notes:             c.Notes,
			Priority:          string(c.Priority),
			ActivityLog:       raw,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

/* ================================ Decode ================================= */

type row map[string]any

// Decode parses a persisted document. Tables and columns that are missing
// are back-filled; values are coerced to their column type. Only a document
// that is not a JSON object at all is an error.
func Decode(raw []byte) (*models.Dataset, error) {
	ds := models.NewDataset()
	if len(bytes.TrimSpace(raw)) == 0 {
		return ds, nil
	}

	var tables map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tables); err != nil {
		return models.NewDataset(), err
	}
	doc := make(map[string][]row, len(knownTables))
	for name, body := range tables {
		if !knownTables[name] {
			zap.S().Warnw("ignoring unknown key in data file", "key", name)
			continue
		}
		doc[name] = decodeTable(name, body)
	}

	today := utils.Today()

	for _, r := range doc["clients"] {
		id, ok := r.id("client_id")
		if !ok {
			skip("clients", r)
			continue
		}
		ds.Clients = append(ds.Clients, models.Client{
			ID:               id,
			Name:             r.str("name"),
			Phone:            r.str("phone"),
			Email:            r.str("email"),
			Notes:            r.str("notes"),
			Type:             models.ClientType(r.strOr("type", string(models.ClientIndividual))),
			Address:          r.str("address"),
			CompanyName:      r.str("company_name"),
			SecondaryContact: r.str("secondary_contact"),
		})
	}

	for _, r := range doc["cases"] {
		id, ok := r.id("case_id")
		if !ok {
			skip("cases", r)
			continue
		}
		ds.Cases = append(ds.Cases, models.Case{
			ID:                id,
			ClientID:          r.integer("client_id"),
			Name:              r.str("case_name"),
			Type:              models.CaseType(r.strOr("case_type", string(models.CaseCivil))),
			Status:            models.CaseStatus(r.strOr("status", string(models.CaseActive))),
			CourtDate:         r.date("court_date", today),
			OpposingParty:     r.str("opposing_party"),
			Description:       r.str("case_description"),
			ResponsibleLawyer: r.str("responsible_lawyer"),
			Notes:             r.str("notes"),
			Priority:          models.Priority(r.strOr("priority", string(models.PriorityMedium))),
			ActivityLog:       r.activity("activity_log"),
		})
	}

	for _, r := range doc["invoices"] {
		id, ok := r.id("invoice_id")
		if !ok {
			skip("invoices", r)
			continue
		}
		ds.Invoices = append(ds.Invoices, models.Invoice{
			ID:       id,
			ClientID: r.integer("client_id"),
			CaseID:   r.integer("case_id"),
			Amount:   r.number("amount"),
			Paid:     r.flag("paid"),
			Date:     r.date("date", today),
			DueDate:  r.date("due_date", today.AddDays(30)),
		})
	}

	for _, r := range doc["reminders"] {
		id, ok := r.id("reminder_id")
		if !ok {
			skip("reminders", r)
			continue
		}
		ds.Reminders = append(ds.Reminders, models.Reminder{
			ID:          id,
			RelatedType: models.RelatedType(r.strOr("related_type", string(models.RelatedGeneral))),
			RelatedID:   r.integer("related_id"),
			Description: r.str("description"),
			Date:        r.date("date", today),
			IsCompleted: r.flag("is_completed"),
		})
	}

	for _, r := range doc["users"] {
		name := r.str("username")
		if name == "" {
			continue
		}
		ds.Users = append(ds.Users, models.User{Username: name, Password: r.str("password")})
	}

	for _, r := range doc["time_entries"] {
		id, ok := r.id("entry_id")
		if !ok {
			skip("time_entries", r)
			continue
		}
		ds.TimeEntries = append(ds.TimeEntries, models.TimeEntry{
			ID:          id,
			ClientID:    r.integer("client_id"),
			CaseID:      r.integer("case_id"),
			Date:        r.date("date", today),
			Hours:       r.number("hours"),
			Category:    models.TimeCategory(r.strOr("category", string(models.TimeOther))),
			Description: r.str("description"),
		})
	}

	return ds, nil
}

var knownTables = map[string]bool{
	"clients": true, "cases": true, "invoices": true,
	"reminders": true, "users": true, "time_entries": true,
}

// decodeTable reads one table. A value that is not an array is treated as
// an empty table; array elements that are not objects are dropped.
func decodeTable(name string, body json.RawMessage) []row {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		if !bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			zap.S().Warnw("table is not an array, treating it as empty", "table", name)
		}
		return nil
	}
	rows := make([]row, 0, len(items))
	for _, item := range items {
		var r row
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		if err := dec.Decode(&r); err != nil || r == nil {
			zap.S().Warnw("dropping row that is not an object", "table", name)
			continue
		}
		rows = append(rows, r)
	}
	return rows
}

func skip(table string, r row) {
	zap.S().Warnw("dropping row without a usable id", "table", table, "columns", len(r))
}

// id reads the primary key column, falling back to a bare "id".
func (r row) id(col string) (int, bool) {
	for _, c := range []string{col, "id"} {
		if v, ok := toInt(r[c]); ok && v > 0 {
			return v, true
		}
	}
	return 0, false
}

func (r row) integer(col string) int {
	v, _ := toInt(r[col])
	return v
}

func (r row) number(col string) float64 {
	switch v := r[col].(type) {
	case json.Number:
		f, err := v.Float64()
		if err == nil && !math.IsNaN(f) {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func (r row) flag(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		return v != ""
	}
	return false
}

func (r row) str(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func (r row) strOr(col, def string) string {
	if s := r.str(col); s != "" {
		return s
	}
	return def
}

// date parses the column, substituting def when it is missing or invalid.
func (r row) date(col string, def models.Date) models.Date {
	return utils.DateOr(strings.TrimSpace(r.str(col)), def)
}

// activity decodes the log from its JSON string form. An already decoded
// array is accepted too; anything malformed yields an empty log.
func (r row) activity(col string) []models.ActivityEntry {
	out := []models.ActivityEntry{}
	var raw []byte
	switch v := r[col].(type) {
	case string:
		raw = []byte(v)
	case []any:
		b, err := json.Marshal(v)
		if err != nil {
			return out
		}
		raw = b
	default:
		return out
	}
	var entries []models.ActivityEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}
	return append(out, entries...)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}
