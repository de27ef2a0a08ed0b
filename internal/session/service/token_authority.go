package service

import (
	"context"
	"errors"

	"github.com/hamworks/timesheet-system/internal/common/clock"
	"github.com/hamworks/timesheet-system/internal/common/crypto"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	employeedomain "github.com/hamworks/timesheet-system/internal/employee/domain"
	"github.com/hamworks/timesheet-system/internal/observability/metrics"
	"github.com/hamworks/timesheet-system/internal/session/domain"
	"github.com/hamworks/timesheet-system/internal/session/repository"
)

// EmployeeFinder is the slice of the employee repository the authority
// needs: credential lookup at issuance and identity resolution at
// validation.
type EmployeeFinder interface {
	FindByUsername(ctx context.Context, username string) (employeedomain.Employee, error)
	FindByID(ctx context.Context, id int64) (employeedomain.Employee, error)
}

// TokenAuthority issues and validates opaque session tokens. An employee
// has at most one active session: issuing a new one deactivates the
// previous one inside the same transaction as the insert.
type TokenAuthority struct {
	employees EmployeeFinder
	sessions  repository.Repository
	hasher    crypto.PasswordHasher
	tokens    crypto.TokenGenerator
	clock     clock.Clock
	ttlMonths int
	log       *logger.Logger
}

func NewTokenAuthority(
	employees EmployeeFinder,
	sessions repository.Repository,
	hasher crypto.PasswordHasher,
	tokens crypto.TokenGenerator,
	clk clock.Clock,
	ttlMonths int,
	log *logger.Logger,
) *TokenAuthority {
	return &TokenAuthority{
		employees: employees,
		sessions:  sessions,
		hasher:    hasher,
		tokens:    tokens,
		clock:     clk,
		ttlMonths: ttlMonths,
		log:       log,
	}
}

// Issue authenticates the credentials and returns a fresh session. Any
// previously active session for the same employee is deactivated first.
// All credential failures collapse to ErrInvalidCredentials.
func (a *TokenAuthority) Issue(ctx context.Context, username, password string) (domain.Session, error) {
	if username == "" || password == "" {
		return domain.Session{}, commonerrors.ErrInvalidCredentials
	}

	employee, err := a.employees.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrEmployeeNotFound) {
			return domain.Session{}, commonerrors.ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if err := a.hasher.Compare(employee.PasswordHash, password); err != nil {
		return domain.Session{}, commonerrors.ErrInvalidCredentials
	}

	tx, err := a.sessions.BeginIssueTx(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	previous, err := tx.FindActiveByUsernameForUpdate(ctx, employee.Username)
	switch {
	case err == nil:
		if err := tx.Deactivate(ctx, previous.Token); err != nil {
			return domain.Session{}, err
		}
		metrics.SessionsInvalidated.Inc()
		a.log.WithFields(ctx, logger.Fields{"employee_id": employee.ID}).
			Info("deactivated previous session before issuing a new one")
	case errors.Is(err, commonerrors.ErrInvalidSession):
		// no active session to replace
	default:
		return domain.Session{}, err
	}

	now := a.clock.Now()
	session := domain.Session{
		Token:      a.tokens.NewToken(),
		EmployeeID: employee.ID,
		Username:   employee.Username,
		IsAdmin:    employee.IsAdmin,
		CreatedAt:  now,
		ExpiresAt:  now.AddDate(0, a.ttlMonths, 0),
		Active:     true,
	}

	if err := tx.Insert(ctx, session); err != nil {
		return domain.Session{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Session{}, err
	}

	metrics.SessionsIssued.Inc()
	a.log.WithFields(ctx, logger.Fields{"employee_id": employee.ID}).
		Info("session issued")
	return session, nil
}

// Validate resolves the token to an active, unexpired session. An active
// session found past its expiry is deactivated on the spot and reported
// as invalid.
func (a *TokenAuthority) Validate(ctx context.Context, token string) (domain.Session, error) {
	metrics.SessionValidationsTotal.Inc()

	if token == "" {
		metrics.SessionValidationsFailed.Inc()
		return domain.Session{}, commonerrors.ErrInvalidSession
	}

	session, err := a.sessions.FindActiveByToken(ctx, token)
	if err != nil {
		metrics.SessionValidationsFailed.Inc()
		return domain.Session{}, err
	}

	if session.Expired(a.clock.Now()) {
		if err := a.sessions.Deactivate(ctx, session.Token); err != nil {
			a.log.WithFields(ctx, logger.Fields{"employee_id": session.EmployeeID}).
				Errorf("failed to deactivate expired session: %v", err)
		}
		metrics.SessionsExpired.Inc()
		metrics.SessionValidationsFailed.Inc()
		return domain.Session{}, commonerrors.ErrInvalidSession
	}

	return session, nil
}

// ResolveEmployee loads the employee a validated session stands for. A
// session pointing at a deleted employee is a data integrity fault, not a
// client error.
func (a *TokenAuthority) ResolveEmployee(ctx context.Context, session domain.Session) (employeedomain.Employee, error) {
	employee, err := a.employees.FindByID(ctx, session.EmployeeID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrEmployeeNotFound) {
			a.log.WithFields(ctx, logger.Fields{"employee_id": session.EmployeeID}).
				Error("active session refers to a missing employee")
			return employeedomain.Employee{}, commonerrors.ErrDanglingSession.WithCause(err)
		}
		return employeedomain.Employee{}, err
	}
	return employee, nil
}
