package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/mw"
)

type errorBody struct {
	Error string `json:"error"`
}

// MapDomainError решает HTTP-статус и клиентский текст ошибки.
// Всё, что не распознано, уходит наружу как generic 500 — детали
// остаются в серверных логах.
func MapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return http.StatusUnauthorized, "invalid reset token"
	case errors.Is(err, domain.ErrResetTokenExpired):
		return http.StatusUnauthorized, "reset token expired"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method not allowed"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, domain.ErrRetriesExhausted):
		return http.StatusInternalServerError, "failed to generate unique short id"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if reqID := mw.RequestIDFromCtx(r.Context()); reqID != "" {
		w.Header().Set("X-Request-ID", reqID)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteOK(w http.ResponseWriter, r *http.Request, payload any) {
	WriteJSON(w, r, http.StatusOK, payload)
}

func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := MapDomainError(err)
	WriteJSON(w, r, status, errorBody{Error: msg})
}
