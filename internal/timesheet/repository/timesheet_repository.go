package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hamworks/timesheet-system/internal/common/db"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/timesheet/domain"
)

type Repository interface {
	FindHeader(ctx context.Context, employeeID int64, startWeek time.Time) (domain.Header, error)
	ListHeaders(ctx context.Context, employeeID int64) ([]domain.Header, error)
	ListRows(ctx context.Context, timesheetID int64) ([]domain.Row, error)
	BeginSaveTx(ctx context.Context) (SaveTx, error)
}

// SaveTx scopes one save to a single transaction: header creation when
// absent, the bulk row delete and the row insert either all commit or none
// do. The header row is locked so concurrent saves of the same week
// serialize.
type SaveTx interface {
	FindHeaderForUpdate(ctx context.Context, employeeID int64, startWeek time.Time) (domain.Header, error)
	InsertHeader(ctx context.Context, header domain.Header) (domain.Header, error)
	DeleteRows(ctx context.Context, timesheetID int64) (int64, error)
	InsertRows(ctx context.Context, timesheetID int64, rows []domain.Row) ([]domain.Row, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) FindHeader(ctx context.Context, employeeID int64, startWeek time.Time) (domain.Header, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, employee_id, start_week, end_week
		 FROM timesheets
		 WHERE employee_id = $1 AND start_week = $2`,
		employeeID,
		startWeek,
	)

	header, err := scanHeader(row)
	if err := db.HandleQueryError(err, commonerrors.ErrTimesheetNotFound, "find timesheet header", start); err != nil {
		return domain.Header{}, err
	}
	return header, nil
}

func (r *PgRepository) ListHeaders(ctx context.Context, employeeID int64) ([]domain.Header, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, employee_id, start_week, end_week
		 FROM timesheets
		 WHERE employee_id = $1
		 ORDER BY start_week`,
		employeeID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list timesheet headers", start)
	}
	defer rows.Close()

	headers := make([]domain.Header, 0)
	for rows.Next() {
		header, err := scanHeader(rows)
		if err != nil {
			return nil, db.HandleExecError(err, "list timesheet headers", start)
		}
		headers = append(headers, header)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list timesheet headers", start)
	}
	db.MeasureQueryDuration("list timesheet headers", start)
	return headers, nil
}

func (r *PgRepository) ListRows(ctx context.Context, timesheetID int64) ([]domain.Row, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, timesheet_id, day, hours, description
		 FROM timesheet_rows
		 WHERE timesheet_id = $1
		 ORDER BY id`,
		timesheetID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list timesheet rows", start)
	}
	defer rows.Close()

	items := make([]domain.Row, 0)
	for rows.Next() {
		var item domain.Row
		err := rows.Scan(&item.ID, &item.TimesheetID, &item.Day, &item.Hours, &item.Description)
		if err != nil {
			return nil, db.HandleExecError(err, "list timesheet rows", start)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list timesheet rows", start)
	}
	db.MeasureQueryDuration("list timesheet rows", start)
	return items, nil
}

func (r *PgRepository) BeginSaveTx(ctx context.Context) (SaveTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, db.HandleExecError(err, "begin timesheet tx", time.Now())
	}
	return &pgSaveTx{tx: tx}, nil
}

type pgSaveTx struct {
	tx pgx.Tx
}

func (t *pgSaveTx) FindHeaderForUpdate(ctx context.Context, employeeID int64, startWeek time.Time) (domain.Header, error) {
	start := time.Now()
	row := t.tx.QueryRow(
		ctx,
		`SELECT id, employee_id, start_week, end_week
		 FROM timesheets
		 WHERE employee_id = $1 AND start_week = $2
		 FOR UPDATE`,
		employeeID,
		startWeek,
	)

	header, err := scanHeader(row)
	if err := db.HandleQueryError(err, commonerrors.ErrTimesheetNotFound, "find timesheet header in tx", start); err != nil {
		return domain.Header{}, err
	}
	return header, nil
}

func (t *pgSaveTx) InsertHeader(ctx context.Context, header domain.Header) (domain.Header, error) {
	start := time.Now()
	row := t.tx.QueryRow(
		ctx,
		`INSERT INTO timesheets (employee_id, start_week, end_week)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		header.EmployeeID,
		header.StartWeek,
		header.EndWeek,
	)

	if err := row.Scan(&header.ID); err != nil {
		return domain.Header{}, db.HandleExecError(err, "insert timesheet header", start)
	}
	db.MeasureQueryDuration("insert timesheet header", start)
	return header, nil
}

func (t *pgSaveTx) DeleteRows(ctx context.Context, timesheetID int64) (int64, error) {
	start := time.Now()
	res, err := t.tx.Exec(
		ctx,
		`DELETE FROM timesheet_rows WHERE timesheet_id = $1`,
		timesheetID,
	)
	if err != nil {
		return 0, db.HandleExecError(err, "delete timesheet rows", start)
	}
	db.MeasureQueryDuration("delete timesheet rows", start)
	return res.RowsAffected(), nil
}

func (t *pgSaveTx) InsertRows(ctx context.Context, timesheetID int64, rows []domain.Row) ([]domain.Row, error) {
	start := time.Now()
	inserted := make([]domain.Row, 0, len(rows))
	for _, item := range rows {
		item.TimesheetID = timesheetID
		row := t.tx.QueryRow(
			ctx,
			`INSERT INTO timesheet_rows (timesheet_id, day, hours, description)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			item.TimesheetID,
			item.Day,
			item.Hours,
			item.Description,
		)
		if err := row.Scan(&item.ID); err != nil {
			return nil, db.HandleExecError(err, "insert timesheet row", start)
		}
		inserted = append(inserted, item)
	}
	db.MeasureQueryDuration("insert timesheet row", start)
	return inserted, nil
}

func (t *pgSaveTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgSaveTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func scanHeader(row pgx.Row) (domain.Header, error) {
	var header domain.Header
	err := row.Scan(&header.ID, &header.EmployeeID, &header.StartWeek, &header.EndWeek)
	return header, err
}
