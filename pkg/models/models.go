package models

import (
	"slices"
	"time"
)

/* =============================== Enums ================================== */

// ClientType classifies a client.
type ClientType string

const (
	ClientIndividual  ClientType = "فرد"
	ClientCompany     ClientType = "شركة"
	ClientInstitution ClientType = "مؤسسة"
)

// CaseType is the legal area of a case.
type CaseType string

const (
	CaseCivil          CaseType = "مدني"
	CaseCriminal       CaseType = "جنائي"
	CaseCommercial     CaseType = "تجاري"
	CaseAdministrative CaseType = "إداري"
	CasePersonalStatus CaseType = "أحوال شخصية"
	CaseRealEstate     CaseType = "عقاري"
	CaseLabor          CaseType = "عمالي"
	CaseOther          CaseType = "أخرى"
)

// CaseStatus defines lifecycle states for a case.
type CaseStatus string

const (
	CaseActive          CaseStatus = "نشطة"
	CaseClosed          CaseStatus = "مغلقة"
	CaseSuspended       CaseStatus = "معلقة"
	CasePostponed       CaseStatus = "مؤجلة"
	CaseOnAppeal        CaseStatus = "في الاستئناف"
	CaseAwaitingVerdict CaseStatus = "انتظار الحكم"
)

// Priority of a case.
type Priority string

const (
	PriorityLow    Priority = "منخفضة"
	PriorityMedium Priority = "متوسطة"
	PriorityHigh   Priority = "عالية"
	PriorityUrgent Priority = "عاجلة"
)

// RelatedType is what a reminder points at.
type RelatedType string

const (
	RelatedClient  RelatedType = "عميل"
	RelatedCase    RelatedType = "قضية"
	RelatedGeneral RelatedType = "عام"
)

// TimeCategory classifies billable work.
type TimeCategory string

const (
	TimeResearch     TimeCategory = "بحث قانوني"
	TimeConsultation TimeCategory = "استشارة"
	TimeDrafting     TimeCategory = "إعداد مستندات"
	TimePleading     TimeCategory = "مرافعة"
	TimeMeeting      TimeCategory = "اجتماع"
	TimeCorrespond   TimeCategory = "مراسلات"
	TimeOther        TimeCategory = "أخرى"
)

// ReminderStatus is derived at read time, never stored.
type ReminderStatus string

const (
	ReminderCompleted ReminderStatus = "مكتملة"
	ReminderUpcoming  ReminderStatus = "قادمة"
	ReminderOverdue   ReminderStatus = "متأخرة"
)

var (
	ClientTypes    = []ClientType{ClientIndividual, ClientCompany, ClientInstitution}
	CaseTypes      = []CaseType{CaseCivil, CaseCriminal, CaseCommercial, CaseAdministrative, CasePersonalStatus, CaseRealEstate, CaseLabor, CaseOther}
	CaseStatuses   = []CaseStatus{CaseActive, CaseClosed, CaseSuspended, CasePostponed, CaseOnAppeal, CaseAwaitingVerdict}
	Priorities     = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	RelatedTypes   = []RelatedType{RelatedClient, RelatedCase, RelatedGeneral}
	TimeCategories = []TimeCategory{TimeResearch, TimeConsultation, TimeDrafting, TimePleading, TimeMeeting, TimeCorrespond, TimeOther}
)

func (t ClientType) Valid() bool   { return slices.Contains(ClientTypes, t) }
func (t CaseType) Valid() bool     { return slices.Contains(CaseTypes, t) }
func (s CaseStatus) Valid() bool   { return slices.Contains(CaseStatuses, s) }
func (p Priority) Valid() bool     { return slices.Contains(Priorities, p) }
func (t RelatedType) Valid() bool  { return slices.Contains(RelatedTypes, t) }
func (c TimeCategory) Valid() bool { return slices.Contains(TimeCategories, c) }

/* =============================== Entities =============================== */

// Client is a person, company or institution the office represents.
type Client struct {
	ID               int        `json:"client_id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email"`
	Notes            string     `json:"notes"`
	Type             ClientType `json:"type"`
	Address          string     `json:"address"`
	CompanyName      string     `json:"company_name"`
	SecondaryContact string     `json:"secondary_contact"`
}

// ActivityEntry is one line of a case's activity log.
type ActivityEntry struct {
	Timestamp   string `json:"timestamp"` // YYYY-MM-DD HH:MM:SS
	Description string `json:"description"`
}

// Case is a legal matter handled for a client.
type Case struct {
	ID                int             `json:"case_id"`
	ClientID          int             `json:"client_id"`
	Name              string          `json:"case_name"`
	Type              CaseType        `json:"case_type"`
	Status            CaseStatus      `json:"status"`
	CourtDate         Date            `json:"court_date"`
	OpposingParty     string          `json:"opposing_party"`
	Description       string          `json:"case_description"`
	ResponsibleLawyer string          `json:"responsible_lawyer"`
	Notes             string          `json:"notes"`
	Priority          Priority        `json:"priority"`
	ActivityLog       []ActivityEntry `json:"activity_log"`
}

// Invoice is an amount billed to a client, optionally tied to a case (CaseID 0 = none).
type Invoice struct {
	ID       int     `json:"invoice_id"`
	ClientID int     `json:"client_id"`
	CaseID   int     `json:"case_id"`
	Amount   float64 `json:"amount"`
	Paid     bool    `json:"paid"`
	Date     Date    `json:"date"`
	DueDate  Date    `json:"due_date"`
}

// Reminder is a dated note, optionally attached to a client or case.
type Reminder struct {
	ID          int         `json:"reminder_id"`
	RelatedType RelatedType `json:"related_type"`
	RelatedID   int         `json:"related_id"`
	Description string      `json:"description"`
	Date        Date        `json:"date"`
	IsCompleted bool        `json:"is_completed"`
}

// Status derives completed/upcoming/overdue relative to today.
func (r Reminder) Status(today Date) ReminderStatus {
	switch {
	case r.IsCompleted:
		return ReminderCompleted
	case r.Date.Before(today.Time):
		return ReminderOverdue
	default:
		return ReminderUpcoming
	}
}

// TimeEntry records hours worked for a client (CaseID 0 = none).
type TimeEntry struct {
	ID          int          `json:"entry_id"`
	ClientID    int          `json:"client_id"`
	CaseID      int          `json:"case_id"`
	Date        Date         `json:"date"`
	Hours       float64      `json:"hours"`
	Category    TimeCategory `json:"category"`
	Description string       `json:"description"`
}

// User is an office account. Password holds a bcrypt hash once the account
// has logged in through this service at least once.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Dataset is every table of the record store.
type Dataset struct {
	Clients     []Client
	Cases       []Case
	Invoices    []Invoice
	Reminders   []Reminder
	Users       []User
	TimeEntries []TimeEntry
}

// NewDataset returns a dataset with every table present and empty.
func NewDataset() *Dataset {
	return &Dataset{
		Clients:     []Client{},
		Cases:       []Case{},
		Invoices:    []Invoice{},
		Reminders:   []Reminder{},
		Users:       []User{},
		TimeEntries: []TimeEntry{},
	}
}

/* ================================ Dates ================================= */

// DateLayout is the on-disk and on-wire day format.
const DateLayout = "2006-01-02"

// Date is a calendar day (UTC midnight).
type Date struct{ time.Time }

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string { return d.Format(DateLayout) }

// AddDays returns the day n days later.
func (d Date) AddDays(n int) Date { return Date{d.AddDate(0, 0, n)} }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
