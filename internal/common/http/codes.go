package http

const (
	CodeUnknown              = "UNKNOWN"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON          = "INVALID_JSON"
	CodeBadRequest           = "BAD_REQUEST"
	CodeInvalidPath          = "INVALID_PATH"
	CodeInvalidWeekNumber    = "INVALID_WEEK_NUMBER"
	CodeMissingAuthorization = "MISSING_AUTHORIZATION"
	CodeInvalidSession       = "INVALID_SESSION"
	CodeRateLimited          = "RATE_LIMITED"
)
