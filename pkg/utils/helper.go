package utils

import (
	"time"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

// Now is the clock every date default is computed from. Tests pin it.
var Now = time.Now

// StampLayout is the activity-log timestamp format.
const StampLayout = "2006-01-02 15:04:05"

// Today is the current calendar day.
func Today() models.Date {
	return models.DateOf(Now())
}

// Stamp formats the current time for an activity-log entry.
func Stamp() string {
	return Now().Format(StampLayout)
}

// DateOr parses s as a day, falling back to def when s is empty or invalid.
func DateOr(s string, def models.Date) models.Date {
	if s == "" {
		return def
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return def
	}
	return d
}
