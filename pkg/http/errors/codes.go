package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeLoginFailed            = "login_failed"
	ErrCodeRefreshFailed          = "refresh_failed"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// User management errors
	ErrCodeUserFetchFailed    = "user_fetch_failed"
	ErrCodeUserCreationFailed = "user_creation_failed"
	ErrCodeUserUpdateFailed   = "user_update_failed"
	ErrCodeUserDeleteFailed   = "user_delete_failed"
	ErrCodeUserNotFound       = "user_not_found"

	// Question / import errors
	ErrCodeQuestionFetchFailed = "question_fetch_failed"
	ErrCodeImportFailed        = "import_failed"
	ErrCodeImportEmpty         = "import_empty"

	// Quiz session errors
	ErrCodeSessionNotFound     = "session_not_found"
	ErrCodeSessionStartFailed  = "session_start_failed"
	ErrCodeSessionUpdateFailed = "session_update_failed"
	ErrCodeIndexOutOfRange     = "index_out_of_range"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"

	// OAuth errors
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthStartFailed    = "oauth_start_failed"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"
)
