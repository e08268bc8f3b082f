package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/logx"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/mw"
	v1 "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1"
)

type Pinger interface {
	Ping(context.Context) error
}

type statusBody struct {
	Status string `json:"status"`
}

// Handler — пробы живости и готовности. Необязательные зависимости
// (Cache, Storage) допускают nil.
type Handler struct {
	Log     *log.Logger
	DB      Pinger
	Cache   Pinger
	Storage Pinger
}

// Liveness не зависит от внешних систем: жив процесс — жив сервис.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	const op = "health.liveness"
	reqID := mw.RequestIDFromCtx(r.Context())

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOK(w, r, statusBody{Status: "ok"})
}

// Readiness пингует всё, что сконфигурировано.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	const op = "health.readiness"
	reqID := mw.RequestIDFromCtx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			logx.Error(h.Log, reqID, op, "db ping failed", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}
	if h.Cache != nil {
		if err := h.Cache.Ping(ctx); err != nil {
			logx.Error(h.Log, reqID, op, "cache ping failed", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}
	if h.Storage != nil {
		if err := h.Storage.Ping(ctx); err != nil {
			logx.Error(h.Log, reqID, op, "storage ping failed", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}

	logx.Info(h.Log, reqID, op, "ready")
	v1.WriteOK(w, r, statusBody{Status: "ready"})
}
