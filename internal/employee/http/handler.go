package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	commonhttp "github.com/hamworks/timesheet-system/internal/common/http"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/employee/domain"
	"github.com/hamworks/timesheet-system/internal/sessionauth"
)

type Service interface {
	List(ctx context.Context) ([]domain.Employee, error)
	Get(ctx context.Context, id int64) (domain.Employee, error)
	Create(ctx context.Context, name, username, password string, isAdmin bool) (domain.Employee, error)
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

type createEmployeeRequest struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"userName" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	IsAdmin         bool   `json:"isAdmin"`
}

type employeeResponse struct {
	EmployeeID  int64     `json:"employeeId"`
	Name        string    `json:"name"`
	Username    string    `json:"userName"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedDate time.Time `json:"createdDate"`
}

// Status confirms the service is reachable. No authentication; it is the
// endpoint monitors probe before anything else works.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// Users serves GET (admin-only listing) and POST (admin-only creation) on
// /user.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sessionauth.RequireAdmin(h.list)(w, r)
	case http.MethodPost:
		sessionauth.RequireAdmin(h.create)(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed,
			commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

// UserByID serves GET /user/{id}. Admins may read anyone; everyone else
// only their own record.
func (h *Handler) UserByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed,
			commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	principal, ok := sessionauth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteDomainError(w, commonerrors.ErrInvalidSession)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/user/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidPath, "employee id must be a positive integer", nil, "")
		return
	}

	if !sessionauth.CanAccessEmployee(principal, id) {
		commonhttp.WriteDomainError(w, commonerrors.ErrForbidden)
		return
	}

	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		commonhttp.WriteDomainError(w, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		commonhttp.WriteDomainError(w, err)
		return
	}

	responses := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		responses = append(responses, toEmployeeResponse(employee))
	}
	commonhttp.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidJSON, "invalid request body", nil, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeBadRequest, "name, userName, password and confirmPassword are required", nil, "")
		return
	}
	if req.Password != req.ConfirmPassword {
		commonhttp.WriteDomainError(w, commonerrors.ErrPasswordMismatch)
		return
	}

	employee, err := h.service.Create(r.Context(), req.Name, req.Username, req.Password, req.IsAdmin)
	if err != nil {
		commonhttp.WriteDomainError(w, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, toEmployeeResponse(employee))
}

func toEmployeeResponse(employee domain.Employee) employeeResponse {
	return employeeResponse{
		EmployeeID:  employee.ID,
		Name:        employee.Name,
		Username:    employee.Username,
		IsAdmin:     employee.IsAdmin,
		CreatedDate: employee.CreatedAt,
	}
}
