package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hamworks/timesheet-system/internal/common/db"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/employee/domain"
)

type Repository interface {
	Create(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	FindByUsername(ctx context.Context, username string) (domain.Employee, error)
	FindByID(ctx context.Context, id int64) (domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO employees (name, username, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		employee.Name,
		employee.Username,
		employee.PasswordHash,
		employee.IsAdmin,
		employee.CreatedAt,
	)

	if err := row.Scan(&employee.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Employee{}, commonerrors.ErrUsernameAlreadyExists
		}
		return domain.Employee{}, db.HandleExecError(err, "create employee", start)
	}
	db.MeasureQueryDuration("create employee", start)
	return employee, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.Employee, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, username, password_hash, is_admin, created_at
		 FROM employees
		 WHERE username = $1`,
		username,
	)

	var employee domain.Employee
	err := row.Scan(
		&employee.ID,
		&employee.Name,
		&employee.Username,
		&employee.PasswordHash,
		&employee.IsAdmin,
		&employee.CreatedAt,
	)
	if err := db.HandleQueryError(err, commonerrors.ErrEmployeeNotFound, "find employee by username", start); err != nil {
		return domain.Employee{}, err
	}
	return employee, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Employee, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, username, password_hash, is_admin, created_at
		 FROM employees
		 WHERE id = $1`,
		id,
	)

	var employee domain.Employee
	err := row.Scan(
		&employee.ID,
		&employee.Name,
		&employee.Username,
		&employee.PasswordHash,
		&employee.IsAdmin,
		&employee.CreatedAt,
	)
	if err := db.HandleQueryError(err, commonerrors.ErrEmployeeNotFound, "find employee by id", start); err != nil {
		return domain.Employee{}, err
	}
	return employee, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Employee, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, username, password_hash, is_admin, created_at
		 FROM employees
		 ORDER BY id`,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list employees", start)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		var employee domain.Employee
		err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Username,
			&employee.PasswordHash,
			&employee.IsAdmin,
			&employee.CreatedAt,
		)
		if err != nil {
			return nil, db.HandleExecError(err, "list employees", start)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list employees", start)
	}
	db.MeasureQueryDuration("list employees", start)
	return employees, nil
}
