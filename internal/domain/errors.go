package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP коды в transport/web/v1)
var (
	ErrBadParams         = errors.New("bad_params")         // 400
	ErrUnauth            = errors.New("unauthorized")       // 401
	ErrResetTokenInvalid = errors.New("reset_token_bad")    // 401
	ErrResetTokenExpired = errors.New("reset_token_expiry") // 401
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not_found")          // 404
	ErrMethodNotAllowed  = errors.New("method_not_allowed") // 405
	ErrConflict          = errors.New("conflict")           // 409
	ErrUpstream          = errors.New("upstream")           // 500, детали наружу не раскрываем
	ErrRetriesExhausted  = errors.New("retries_exhausted")  // 500
	ErrUnexpected        = errors.New("unexpected")         // 500
)
