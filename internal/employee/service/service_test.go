package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hamworks/timesheet-system/internal/common/clock"
	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/employee/domain"
)

type mockRepository struct {
	CreateFunc         func(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	FindByUsernameFunc func(ctx context.Context, username string) (domain.Employee, error)
	FindByIDFunc       func(ctx context.Context, id int64) (domain.Employee, error)
	ListFunc           func(ctx context.Context) ([]domain.Employee, error)
}

func (m *mockRepository) Create(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	return m.CreateFunc(ctx, employee)
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (domain.Employee, error) {
	return m.FindByUsernameFunc(ctx, username)
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (domain.Employee, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockRepository) List(ctx context.Context) ([]domain.Employee, error) {
	return m.ListFunc(ctx)
}

type mockHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return m.HashFunc(password)
}

func (m *mockHasher) Compare(hash, password string) error {
	return m.CompareFunc(hash, password)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

var testNow = time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)

func TestCreateHashesPasswordAndStampsCreation(t *testing.T) {
	var stored domain.Employee
	repo := &mockRepository{
		CreateFunc: func(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
			stored = employee
			employee.ID = 8
			return employee, nil
		},
	}
	hasher := &mockHasher{
		HashFunc: func(password string) (string, error) {
			return "hashed:" + password, nil
		},
	}
	svc := NewService(repo, hasher, clock.NewMockClock(testNow), testLogger(t))

	created, err := svc.Create(context.Background(), "New Hire", "newhire", "long enough", false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID != 8 {
		t.Errorf("created id = %d, want 8", created.ID)
	}
	if stored.PasswordHash != "hashed:long enough" {
		t.Errorf("stored hash = %q", stored.PasswordHash)
	}
	if strings.Contains(stored.PasswordHash, "long enough") && !strings.HasPrefix(stored.PasswordHash, "hashed:") {
		t.Error("plaintext password stored")
	}
	if !stored.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", stored.CreatedAt, testNow)
	}
}

func TestCreateValidatesCredentialLengths(t *testing.T) {
	repo := &mockRepository{
		CreateFunc: func(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
			t.Error("Create reached the repository despite invalid input")
			return domain.Employee{}, nil
		},
	}
	hasher := &mockHasher{
		HashFunc: func(password string) (string, error) {
			return "hash", nil
		},
	}
	svc := NewService(repo, hasher, clock.NewMockClock(testNow), testLogger(t))

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "ab", "long enough"},
		{"username too long", strings.Repeat("a", 33), "long enough"},
		{"password too short", "newhire", "short"},
		{"password too long", "newhire", strings.Repeat("a", 73)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "New Hire", tc.username, tc.password, false)
			if !errors.Is(err, commonerrors.ErrValidation) {
				t.Errorf("Create = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreatePropagatesDuplicateUsername(t *testing.T) {
	repo := &mockRepository{
		CreateFunc: func(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
			return domain.Employee{}, commonerrors.ErrUsernameAlreadyExists
		},
	}
	hasher := &mockHasher{
		HashFunc: func(password string) (string, error) {
			return "hash", nil
		},
	}
	svc := NewService(repo, hasher, clock.NewMockClock(testNow), testLogger(t))

	_, err := svc.Create(context.Background(), "New Hire", "newhire", "long enough", false)
	if !errors.Is(err, commonerrors.ErrUsernameAlreadyExists) {
		t.Errorf("Create = %v, want ErrUsernameAlreadyExists", err)
	}
}

func TestGetPropagatesNotFound(t *testing.T) {
	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id int64) (domain.Employee, error) {
			return domain.Employee{}, commonerrors.ErrEmployeeNotFound
		},
	}
	svc := NewService(repo, &mockHasher{}, clock.NewMockClock(testNow), testLogger(t))

	if _, err := svc.Get(context.Background(), 404); !errors.Is(err, commonerrors.ErrEmployeeNotFound) {
		t.Errorf("Get = %v, want ErrEmployeeNotFound", err)
	}
}
