package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	commonhttp "github.com/hamworks/timesheet-system/internal/common/http"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/sessionauth"
	"github.com/hamworks/timesheet-system/internal/timesheet/domain"
	"github.com/hamworks/timesheet-system/internal/timesheet/week"
)

const dateLayout = "2006-01-02"

type Service interface {
	Get(ctx context.Context, employeeID int64, weekNumber *int) (domain.Timesheet, error)
	ListAll(ctx context.Context, employeeID int64) ([]domain.Timesheet, error)
	Save(ctx context.Context, employeeID int64, weekNumber *int, rows []domain.Row) (domain.Timesheet, error)
}

type Handler struct {
	service  Service
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

type rowPayload struct {
	Day         string  `json:"day" validate:"required"`
	Hours       float64 `json:"hours" validate:"gte=0,lte=24"`
	Description string  `json:"description" validate:"max=256"`
}

type savePayload struct {
	Rows []rowPayload `json:"rows" validate:"required,max=64,dive"`
}

type rowResponse struct {
	ID          int64   `json:"id"`
	Day         string  `json:"day"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

type timesheetResponse struct {
	TimesheetID int64         `json:"timesheetId"`
	EmployeeID  int64         `json:"employeeId"`
	StartWeek   string        `json:"startWeek"`
	EndWeek     string        `json:"endWeek"`
	WeekNumber  int           `json:"weekNumber"`
	Rows        []rowResponse `json:"rows"`
}

// Timesheet serves GET and PUT on /timesheet. GET with a weekNumber query
// returns that week's sheet and 204 when nothing was ever saved for it;
// GET without a query lists every stored sheet. PUT replaces the addressed
// week's rows wholesale.
func (h *Handler) Timesheet(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.save(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed,
			commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

// Current serves GET /timesheet/current: the caller's sheet for the week
// containing now.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	principal, ok := sessionauth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteDomainError(w, commonerrors.ErrInvalidSession)
		return
	}

	sheet, err := h.service.Get(r.Context(), principal.Session.EmployeeID, nil)
	if err != nil {
		if errors.Is(err, commonerrors.ErrTimesheetNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		commonhttp.WriteDomainError(w, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toTimesheetResponse(sheet))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	principal, ok := sessionauth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteDomainError(w, commonerrors.ErrInvalidSession)
		return
	}

	weekNumber, ok := parseWeekNumber(w, r)
	if !ok {
		return
	}

	if weekNumber == nil {
		sheets, err := h.service.ListAll(r.Context(), principal.Session.EmployeeID)
		if err != nil {
			commonhttp.WriteDomainError(w, err)
			return
		}
		responses := make([]timesheetResponse, 0, len(sheets))
		for _, sheet := range sheets {
			responses = append(responses, toTimesheetResponse(sheet))
		}
		commonhttp.WriteJSON(w, http.StatusOK, responses)
		return
	}

	sheet, err := h.service.Get(r.Context(), principal.Session.EmployeeID, weekNumber)
	if err != nil {
		if errors.Is(err, commonerrors.ErrTimesheetNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		commonhttp.WriteDomainError(w, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toTimesheetResponse(sheet))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	principal, ok := sessionauth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteDomainError(w, commonerrors.ErrInvalidSession)
		return
	}

	weekNumber, ok := parseWeekNumber(w, r)
	if !ok {
		return
	}

	var payload savePayload
	if err := commonhttp.DecodeJSON(r, &payload); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidJSON, "invalid request body", nil, "")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeBadRequest, "invalid timesheet rows", nil, "")
		return
	}

	rows := make([]domain.Row, 0, len(payload.Rows))
	for _, item := range payload.Rows {
		rows = append(rows, domain.Row{
			Day:         item.Day,
			Hours:       item.Hours,
			Description: item.Description,
		})
	}

	sheet, err := h.service.Save(r.Context(), principal.Session.EmployeeID, weekNumber, rows)
	if err != nil {
		commonhttp.WriteDomainError(w, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toTimesheetResponse(sheet))
}

// parseWeekNumber reads the optional weekNumber query parameter. A present
// but non-integer value is a client error; absence means nil.
func parseWeekNumber(w http.ResponseWriter, r *http.Request) (*int, bool) {
	raw := r.URL.Query().Get("weekNumber")
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidWeekNumber, "weekNumber must be an integer", nil, "")
		return nil, false
	}
	return &n, true
}

func toTimesheetResponse(sheet domain.Timesheet) timesheetResponse {
	rows := make([]rowResponse, 0, len(sheet.Rows))
	for _, item := range sheet.Rows {
		rows = append(rows, rowResponse{
			ID:          item.ID,
			Day:         item.Day,
			Hours:       item.Hours,
			Description: item.Description,
		})
	}
	return timesheetResponse{
		TimesheetID: sheet.Header.ID,
		EmployeeID:  sheet.Header.EmployeeID,
		StartWeek:   sheet.Header.StartWeek.Format(dateLayout),
		EndWeek:     sheet.Header.EndWeek.Format(dateLayout),
		WeekNumber:  week.NumberOf(sheet.Header.StartWeek),
		Rows:        rows,
	}
}
