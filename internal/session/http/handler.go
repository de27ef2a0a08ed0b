package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	commonhttp "github.com/hamworks/timesheet-system/internal/common/http"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/session/domain"
)

type Authority interface {
	Issue(ctx context.Context, username, password string) (domain.Session, error)
}

type Handler struct {
	authority Authority
	validate  *validator.Validate
	log       *logger.Logger
}

func NewHandler(authority Authority, log *logger.Logger) *Handler {
	return &Handler{
		authority: authority,
		validate:  validator.New(),
		log:       log,
	}
}

type registrationRequest struct {
	Username string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token       string    `json:"token"`
	EmployeeID  int64     `json:"employeeId"`
	DateCreated time.Time `json:"dateCreated"`
	ExpiryDate  time.Time `json:"expiryDate"`
	IsAdmin     bool      `json:"isAdmin"`
	Username    string    `json:"userName"`
	IsActive    bool      `json:"isActive"`
}

// Registration exchanges credentials for a fresh session token.
func (h *Handler) Registration(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidJSON, "invalid request body", nil, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeBadRequest, "userName and password are required", nil, "")
		return
	}

	session, err := h.authority.Issue(r.Context(), req.Username, req.Password)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{"username": req.Username}).
			Warnf("registration rejected: %v", err)
		commonhttp.WriteDomainError(w, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

func toSessionResponse(session domain.Session) sessionResponse {
	return sessionResponse{
		Token:       session.Token,
		EmployeeID:  session.EmployeeID,
		DateCreated: session.CreatedAt,
		ExpiryDate:  session.ExpiresAt,
		IsAdmin:     session.IsAdmin,
		Username:    session.Username,
		IsActive:    session.Active,
	}
}
