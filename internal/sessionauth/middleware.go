package sessionauth

import (
	"context"
	"net/http"
	"strings"

	commonerrors "github.com/hamworks/timesheet-system/internal/common/errors"
	commonhttp "github.com/hamworks/timesheet-system/internal/common/http"
	employeedomain "github.com/hamworks/timesheet-system/internal/employee/domain"
	sessiondomain "github.com/hamworks/timesheet-system/internal/session/domain"
)

// Authority is the slice of the token authority the middleware needs.
type Authority interface {
	Validate(ctx context.Context, token string) (sessiondomain.Session, error)
	ResolveEmployee(ctx context.Context, session sessiondomain.Session) (employeedomain.Employee, error)
}

// Principal is the authenticated caller attached to the request context:
// the validated session plus the employee it resolves to.
type Principal struct {
	Session  sessiondomain.Session
	Employee employeedomain.Employee
}

type contextKey string

const principalKey contextKey = "sessionauth.principal"

const bearerPrefix = "Bearer "

// Middleware authenticates every request via the Authorization header. The
// header may carry the token bare or with a "Bearer " prefix; both resolve
// to the same session.
func Middleware(authority Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r.Header.Get("Authorization"))
			if token == "" {
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized,
					commonhttp.CodeMissingAuthorization, "authorization header is required", nil, "")
				return
			}

			session, err := authority.Validate(r.Context(), token)
			if err != nil {
				commonhttp.WriteDomainError(w, err)
				return
			}

			employee, err := authority.ResolveEmployee(r.Context(), session)
			if err != nil {
				commonhttp.WriteDomainError(w, err)
				return
			}

			principal := Principal{Session: session, Employee: employee}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken strips an optional "Bearer " prefix from the Authorization
// header value. Anything else is treated as a bare token.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return header
}

// FromContext returns the principal attached by Middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}

// WithPrincipal attaches a principal to ctx. Intended for handler tests.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// RequireAdmin rejects non-admin principals. Admin status comes from the
// session snapshot, so a privilege change takes effect on the next issued
// session rather than mid-session.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := FromContext(r.Context())
		if !ok {
			commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized,
				commonhttp.CodeInvalidSession, "no authenticated session", nil, "")
			return
		}
		if !principal.Session.IsAdmin {
			commonhttp.WriteDomainError(w, commonerrors.ErrForbidden)
			return
		}
		next(w, r)
	}
}

// CanAccessEmployee reports whether the principal may read the target
// employee's data: admins may read anyone, everyone else only themselves.
func CanAccessEmployee(principal Principal, targetID int64) bool {
	return principal.Session.IsAdmin || principal.Session.EmployeeID == targetID
}
