package service

import (
	"context"

	"github.com/hamworks/timesheet-system/internal/common/clock"
	"github.com/hamworks/timesheet-system/internal/common/constants"
	"github.com/hamworks/timesheet-system/internal/common/crypto"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/employee/domain"
	"github.com/hamworks/timesheet-system/internal/employee/repository"
)

type Service struct {
	employees repository.Repository
	hasher    crypto.PasswordHasher
	clock     clock.Clock
	log       *logger.Logger
}

func NewService(employees repository.Repository, hasher crypto.PasswordHasher, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		employees: employees,
		hasher:    hasher,
		clock:     clk,
		log:       log,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Employee, error) {
	return s.employees.FindByID(ctx, id)
}

// Create validates the credentials, hashes the password and stores the new
// employee. Password confirmation is the handler's concern; by the time
// the request reaches here it carries a single password.
func (s *Service) Create(ctx context.Context, name, username, password string, isAdmin bool) (domain.Employee, error) {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return domain.Employee{}, commonerrors.ErrValidation
	}
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return domain.Employee{}, commonerrors.ErrValidation
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.Employee{}, commonerrors.ErrInternalError.WithCause(err)
	}

	employee, err := s.employees.Create(ctx, domain.Employee{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		return domain.Employee{}, err
	}

	s.log.WithFields(ctx, logger.Fields{"employee_id": employee.ID}).
		Info("employee created")
	return employee, nil
}
