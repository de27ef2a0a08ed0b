package domain

import "time"

// Session is an issued, time-bounded, revocable proof of authenticated
// identity. Username and IsAdmin are snapshots taken at issuance; later
// changes to the employee do not retroactively alter issued sessions.
// Sessions are deactivated, never deleted, so the table doubles as an
// audit trail.
type Session struct {
	Token      string
	EmployeeID int64
	Username   string
	IsAdmin    bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Active     bool
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
