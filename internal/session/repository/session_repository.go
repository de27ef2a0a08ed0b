package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hamworks/timesheet-system/internal/common/db"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/session/domain"
)

type Repository interface {
	FindActiveByToken(ctx context.Context, token string) (domain.Session, error)
	Deactivate(ctx context.Context, token string) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	BeginIssueTx(ctx context.Context) (IssueTx, error)
}

// IssueTx scopes the invalidate-previous plus insert-new sequence of an
// issuance to a single transaction, so concurrent issuance for the same
// identity serializes on the previous active row.
type IssueTx interface {
	FindActiveByUsernameForUpdate(ctx context.Context, username string) (domain.Session, error)
	Deactivate(ctx context.Context, token string) error
	Insert(ctx context.Context, session domain.Session) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const sessionColumns = `token, employee_id, username, is_admin, created_at, expires_at, active`

func (r *PgRepository) FindActiveByToken(ctx context.Context, token string) (domain.Session, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE token = $1 AND active`,
		token,
	)

	session, err := scanSession(row)
	if err := db.HandleQueryError(err, commonerrors.ErrInvalidSession, "find active session by token", start); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (r *PgRepository) Deactivate(ctx context.Context, token string) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`UPDATE sessions SET active = false WHERE token = $1`,
		token,
	)
	return db.HandleExecError(err, "deactivate session", start)
}

func (r *PgRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`UPDATE sessions SET active = false WHERE active AND expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, db.HandleExecError(err, "deactivate expired sessions", start)
	}
	db.MeasureQueryDuration("deactivate expired sessions", start)
	return res.RowsAffected(), nil
}

func (r *PgRepository) BeginIssueTx(ctx context.Context) (IssueTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, db.HandleExecError(err, "begin session tx", time.Now())
	}
	return &pgIssueTx{tx: tx}, nil
}

type pgIssueTx struct {
	tx pgx.Tx
}

func (t *pgIssueTx) FindActiveByUsernameForUpdate(ctx context.Context, username string) (domain.Session, error) {
	start := time.Now()
	row := t.tx.QueryRow(
		ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE username = $1 AND active
		 FOR UPDATE`,
		username,
	)

	session, err := scanSession(row)
	if err := db.HandleQueryError(err, commonerrors.ErrInvalidSession, "find active session in tx", start); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (t *pgIssueTx) Deactivate(ctx context.Context, token string) error {
	start := time.Now()
	_, err := t.tx.Exec(
		ctx,
		`UPDATE sessions SET active = false WHERE token = $1`,
		token,
	)
	return db.HandleExecError(err, "deactivate session in tx", start)
}

func (t *pgIssueTx) Insert(ctx context.Context, session domain.Session) error {
	start := time.Now()
	_, err := t.tx.Exec(
		ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.Token,
		session.EmployeeID,
		session.Username,
		session.IsAdmin,
		session.CreatedAt,
		session.ExpiresAt,
		session.Active,
	)
	return db.HandleExecError(err, "insert session", start)
}

func (t *pgIssueTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgIssueTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func scanSession(row pgx.Row) (domain.Session, error) {
	var session domain.Session
	err := row.Scan(
		&session.Token,
		&session.EmployeeID,
		&session.Username,
		&session.IsAdmin,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.Active,
	)
	return session, err
}
