package service

import (
	"context"
	"errors"

	"github.com/hamworks/timesheet-system/internal/common/clock"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/observability/metrics"
	"github.com/hamworks/timesheet-system/internal/timesheet/domain"
	"github.com/hamworks/timesheet-system/internal/timesheet/repository"
	"github.com/hamworks/timesheet-system/internal/timesheet/week"
)

// Service resolves timesheets by employee and week. Reads return what is
// stored; Save is find-or-create on the header followed by a wholesale
// replacement of its rows, all in one transaction.
type Service struct {
	timesheets repository.Repository
	clock      clock.Clock
	log        *logger.Logger
}

func NewService(timesheets repository.Repository, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		timesheets: timesheets,
		clock:      clk,
		log:        log,
	}
}

// Get returns the stored timesheet of the employee for the given week
// number, or for the current week when weekNumber is nil. A week nobody
// ever saved yields ErrTimesheetNotFound rather than an empty sheet.
func (s *Service) Get(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error) {
	boundary := s.resolveBoundary(weekNumber)

	header, err := s.timesheets.FindHeader(ctx, employeeID, boundary.Start)
	if err != nil {
		return domain.Timesheet{}, err
	}

	rows, err := s.timesheets.ListRows(ctx, header.ID)
	if err != nil {
		return domain.Timesheet{}, err
	}

	return domain.Timesheet{Header: header, Rows: rows}, nil
}

// ListAll returns every stored timesheet of the employee, rows included,
// ordered by week start.
func (s *Service) ListAll(ctx context.Context, employeeID int64) ([]domain.Timesheet, error) {
	headers, err := s.timesheets.ListHeaders(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	sheets := make([]domain.Timesheet, 0, len(headers))
	for _, header := range headers {
		rows, err := s.timesheets.ListRows(ctx, header.ID)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, domain.Timesheet{Header: header, Rows: rows})
	}
	return sheets, nil
}

// Save stores the given rows as the complete content of the employee's
// timesheet for the week. The header is created on first save; existing
// rows are deleted and the new set inserted in the same transaction, so a
// reader never observes a partially replaced sheet.
func (s *Service) Save(ctx context.Context, employeeID int64, weekNumber *int, rows []domain.Row) (domain.Timesheet, error) {
	boundary := s.resolveBoundary(weekNumber)

	tx, err := s.timesheets.BeginSaveTx(ctx)
	if err != nil {
		return domain.Timesheet{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	header, err := tx.FindHeaderForUpdate(ctx, employeeID, boundary.Start)
	switch {
	case err == nil:
		if _, err := tx.DeleteRows(ctx, header.ID); err != nil {
			return domain.Timesheet{}, err
		}
	case isNotFound(err):
		header, err = tx.InsertHeader(ctx, domain.Header{
			EmployeeID: employeeID,
			StartWeek:  boundary.Start,
			EndWeek:    boundary.End,
		})
		if err != nil {
			return domain.Timesheet{}, err
		}
		metrics.TimesheetHeadersCreated.Inc()
	default:
		return domain.Timesheet{}, err
	}

	inserted, err := tx.InsertRows(ctx, header.ID, rows)
	if err != nil {
		return domain.Timesheet{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Timesheet{}, err
	}

	metrics.TimesheetSaves.Inc()
	metrics.TimesheetRowsReplaced.Add(float64(len(inserted)))
	s.log.WithFields(ctx, logger.Fields{
		"employee_id": employeeID,
		"start_week":  boundary.Start.Format("2006-01-02"),
		"rows":        len(inserted),
	}).Info("timesheet saved")

	return domain.Timesheet{Header: header, Rows: inserted}, nil
}

// resolveBoundary maps an optional week number onto a concrete week: nil
// means the week containing now, an explicit number is taken within the
// current year.
func (s *Service) resolveBoundary(weekNumber *int) week.Boundary {
	now := s.clock.Now()
	if weekNumber == nil {
		return week.Current(now)
	}
	return week.ForNumber(*weekNumber, now.Year())
}

func isNotFound(err error) bool {
	return errors.Is(err, commonerrors.ErrTimesheetNotFound)
}
