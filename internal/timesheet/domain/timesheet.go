package domain

import "time"

// Header is the per-employee-per-week timesheet record rows attach to.
// The natural key is (EmployeeID, StartWeek); week numbers are derived
// presentation data and are never used for persistence.
type Header struct {
	ID         int64
	EmployeeID int64
	StartWeek  time.Time
	EndWeek    time.Time
}

// Row is a single line item owned by exactly one header. The whole row set
// of a header is replaced on every save; rows are never merged.
type Row struct {
	ID          int64
	TimesheetID int64
	Day         string
	Hours       float64
	Description string
}

// Timesheet is a header with its rows attached.
type Timesheet struct {
	Header Header
	Rows   []Row
}
