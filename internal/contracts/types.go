// Package contracts turns a contract type and a flat field map into ordered
// prose lines, and lays those lines out as a PDF that can be downloaded,
// e-mailed or shared.
package contracts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

// ContractType is the Arabic label of a supported contract.
type ContractType string

const (
	Employment ContractType = "عقد عمل"
	Lease      ContractType = "عقد إيجار"
	Agency     ContractType = "عقد وكالة"
	Sale       ContractType = "عقد بيع"
	NDA        ContractType = "عقد عدم إفشاء (NDA)"
)

// ContractTypes in the order the office lists them.
var ContractTypes = []ContractType{Employment, Lease, Agency, Sale, NDA}

var contractCodes = map[string]ContractType{
	"employment_contract": Employment,
	"lease_agreement":     Lease,
	"agency_contract":     Agency,
	"sales_contract":      Sale,
	"nda_contract":        NDA,
}

// Code is the ASCII identifier of the type, used in file names.
func (ct ContractType) Code() string {
	for code, t := range contractCodes {
		if t == ct {
			return code
		}
	}
	return "contract"
}

// ParseContractType accepts the Arabic label or its English code.
func ParseContractType(s string) (ContractType, error) {
	s = strings.TrimSpace(s)
	for _, ct := range ContractTypes {
		if string(ct) == s {
			return ct, nil
		}
	}
	if ct, ok := contractCodes[strings.ToLower(s)]; ok {
		return ct, nil
	}
	return "", fmt.Errorf("unknown contract type %q", s)
}

// Fields is the flat input of a contract. Values arrive from JSON, so
// numbers may be float64, json.Number or numeric strings.
type Fields map[string]any

// Truthy reports whether the value under key counts as set: a missing key,
// nil, "", false and 0 do not.
func (f Fields) Truthy(key string) bool {
	switch v := f[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case time.Time:
		return !v.IsZero()
	case models.Date:
		return !v.IsZero()
	}
	if n, ok := f.number(key); ok {
		return n != 0
	}
	return true
}

// String renders the value under key as text.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(models.DateLayout)
	case models.Date:
		return v.String()
	}
	if n, ok := f.number(key); ok {
		return formatNumber(n)
	}
	return fmt.Sprint(f[key])
}

// Float is the numeric value under key, 0 when absent or not a number.
func (f Fields) Float(key string) float64 {
	n, _ := f.number(key)
	return n
}

// Date renders a date value as YYYY-MM-DD. Strings that are not dates are
// returned verbatim.
func (f Fields) Date(key string) string {
	if s, ok := f[key].(string); ok {
		if d, err := models.ParseDate(strings.TrimSpace(s)); err == nil {
			return d.String()
		}
		return s
	}
	return f.String(key)
}

func (f Fields) number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil && !math.IsNaN(n)
	}
	return 0, false
}

// formatNumber prints whole numbers without a fraction (12, not 12.0).
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
