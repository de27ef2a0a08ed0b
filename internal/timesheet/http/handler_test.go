package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/sessionauth"
	sessiondomain "github.com/hamworks/timesheet-system/internal/session/domain"
	"github.com/hamworks/timesheet-system/internal/timesheet/domain"
)

type mockService struct {
	GetFunc     func(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error)
	ListAllFunc func(ctx context.Context, employeeID int64) ([]domain.Timesheet, error)
	SaveFunc    func(ctx context.Context, employeeID int64, weekNumber *int, rows []domain.Row) (domain.Timesheet, error)
}

func (m *mockService) Get(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error) {
	return m.GetFunc(ctx, employeeID, weekNumber)
}

func (m *mockService) ListAll(ctx context.Context, employeeID int64) ([]domain.Timesheet, error) {
	return m.ListAllFunc(ctx, employeeID)
}

func (m *mockService) Save(ctx context.Context, employeeID int64, weekNumber *int, rows []domain.Row) (domain.Timesheet, error) {
	return m.SaveFunc(ctx, employeeID, weekNumber, rows)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

func authenticated(r *http.Request, employeeID int64) *http.Request {
	principal := sessionauth.Principal{
		Session: sessiondomain.Session{Token: "tok", EmployeeID: employeeID, Active: true},
	}
	return r.WithContext(sessionauth.WithPrincipal(r.Context(), principal))
}

func sampleSheet() domain.Timesheet {
	// 2026-08-22 starts week number 34 of 2026.
	return domain.Timesheet{
		Header: domain.Header{
			ID:         3,
			EmployeeID: 7,
			StartWeek:  time.Date(2026, time.August, 22, 0, 0, 0, 0, time.UTC),
			EndWeek:    time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		},
		Rows: []domain.Row{{ID: 1, TimesheetID: 3, Day: "Monday", Hours: 8, Description: "reviews"}},
	}
}

func TestGetByWeekNumberReturnsSheet(t *testing.T) {
	var gotWeek *int
	service := &mockService{
		GetFunc: func(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error) {
			gotWeek = weekNumber
			return sampleSheet(), nil
		},
	}
	handler := NewHandler(service, testLogger(t))

	req := authenticated(httptest.NewRequest(http.MethodGet, "/timesheet?weekNumber=34", nil), 7)
	rec := httptest.NewRecorder()
	handler.Timesheet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if gotWeek == nil || *gotWeek != 34 {
		t.Errorf("service received weekNumber %v, want 34", gotWeek)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got["timesheetId"] != float64(3) || got["employeeId"] != float64(7) {
		t.Errorf("ids = (%v, %v)", got["timesheetId"], got["employeeId"])
	}
	if got["startWeek"] != "2026-08-22" || got["endWeek"] != "2026-08-28" {
		t.Errorf("week bounds = (%v, %v)", got["startWeek"], got["endWeek"])
	}
	if got["weekNumber"] != float64(34) {
		t.Errorf("weekNumber = %v, want 34", got["weekNumber"])
	}
}

func TestGetUnsavedWeekIsNoContent(t *testing.T) {
	service := &mockService{
		GetFunc: func(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error) {
			return domain.Timesheet{}, commonerrors.ErrTimesheetNotFound
		},
	}
	handler := NewHandler(service, testLogger(t))

	req := authenticated(httptest.NewRequest(http.MethodGet, "/timesheet?weekNumber=11", nil), 7)
	rec := httptest.NewRecorder()
	handler.Timesheet(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("204 response carries a body: %s", rec.Body.String())
	}
}

func TestGetRejectsMalformedWeekNumber(t *testing.T) {
	service := &mockService{
		GetFunc: func(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error) {
			t.Error("service called with a malformed week number")
			return domain.Timesheet{}, nil
		},
	}
	handler := NewHandler(service, testLogger(t))

	req := authenticated(httptest.NewRequest(http.MethodGet, "/timesheet?weekNumber=abc", nil), 7)
	rec := httptest.NewRecorder()
	handler.Timesheet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_WEEK_NUMBER") {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}

func TestGetWithoutWeekNumberListsAllSheets(t *testing.T) {
	service := &mockService{
		ListAllFunc: func(ctx context.Context, employeeID int64) ([]domain.Timesheet, error) {
			return []domain.Timesheet{sampleSheet()}, nil
		},
		GetFunc: func(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error) {
			t.Error("Get called for a listing request")
			return domain.Timesheet{}, nil
		},
	}
	handler := NewHandler(service, testLogger(t))

	req := authenticated(httptest.NewRequest(http.MethodGet, "/timesheet", nil), 7)
	rec := httptest.NewRecorder()
	handler.Timesheet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("listing returned %d sheets, want 1", len(got))
	}
}

func TestGetWithoutWeekNumberAndNoSheetsIsEmptyArray(t *testing.T) {
	service := &mockService{
		ListAllFunc: func(ctx context.Context, employeeID int64) ([]domain.Timesheet, error) {
			return nil, nil
		},
	}
	handler := NewHandler(service, testLogger(t))

	req := authenticated(httptest.NewRequest(http.MethodGet, "/timesheet", nil), 7)
	rec := httptest.NewRecorder()
	handler.Timesheet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestPutReplacesRows(t *testing.T) {
	var savedRows []domain.Row
	var savedEmployee int64
	service := &mockService{
		SaveFunc: func(ctx context.Context, employeeID int64, weekNumber *int, rows []domain.Row) (domain.Timesheet, error) {
			savedEmployee = employeeID
			savedRows = rows
			return sampleSheet(), nil
		},
	}
	handler := NewHandler(service, testLogger(t))

	body := `{"rows":[{"day":"Monday","hours":8,"description":"reviews"}]}`
	req := authenticated(httptest.NewRequest(http.MethodPut, "/timesheet?weekNumber=34", strings.NewReader(body)), 7)
	rec := httptest.NewRecorder()
	handler.Timesheet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if savedEmployee != 7 {
		t.Errorf("saved for employee %d, want 7", savedEmployee)
	}
	if len(savedRows) != 1 || savedRows[0].Day != "Monday" || savedRows[0].Hours != 8 {
		t.Errorf("saved rows = %+v", savedRows)
	}
}

func TestPutRejectsInvalidRows(t *testing.T) {
	service := &mockService{
		SaveFunc: func(ctx context.Context, employeeID int64, weekNumber *int, rows []domain.Row) (domain.Timesheet, error) {
			t.Error("Save called with invalid rows")
			return domain.Timesheet{}, nil
		},
	}
	handler := NewHandler(service, testLogger(t))

	cases := []struct {
		name string
		body string
	}{
		{"negative hours", `{"rows":[{"day":"Monday","hours":-1}]}`},
		{"hours above daily maximum", `{"rows":[{"day":"Monday","hours":25}]}`},
		{"missing day", `{"rows":[{"hours":8}]}`},
		{"malformed json", `{"rows":[`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authenticated(httptest.NewRequest(http.MethodPut, "/timesheet", strings.NewReader(tc.body)), 7)
			rec := httptest.NewRecorder()
			handler.Timesheet(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCurrentResolvesCallersWeek(t *testing.T) {
	gotWeek := new(int)
	service := &mockService{
		GetFunc: func(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error) {
			gotWeek = weekNumber
			return sampleSheet(), nil
		},
	}
	handler := NewHandler(service, testLogger(t))

	req := authenticated(httptest.NewRequest(http.MethodGet, "/timesheet/current", nil), 7)
	rec := httptest.NewRecorder()
	handler.Current(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotWeek != nil {
		t.Errorf("current week request passed weekNumber %d, want nil", *gotWeek)
	}
}

func TestUnsupportedMethodIsRejected(t *testing.T) {
	handler := NewHandler(&mockService{}, testLogger(t))

	req := authenticated(httptest.NewRequest(http.MethodDelete, "/timesheet", nil), 7)
	rec := httptest.NewRecorder()
	handler.Timesheet(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
