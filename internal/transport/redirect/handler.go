package redirect

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/shortlink"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/logx"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/mw"
	v1 "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1"
)

const notFoundPage = `<!DOCTYPE html>
<html>
<head><title>Not Found</title></head>
<body><h1>404 - Short link not found</h1></body>
</html>`

// Handler — публичная сторона коротких ссылок: создание и редирект.
type Handler struct {
	Log   *log.Logger
	Links *shortlink.Service
}

type shortenRequest struct {
	LongURL string `json:"longUrl"`
}

type shortenResponse struct {
	ShortURL string `json:"shortUrl"`
	ShortID  string `json:"shortId"`
}

// Shorten — POST /shorten.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	const op = "redirect.shorten"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req shortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	link, err := h.Links.Create(r.Context(), req.LongURL)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "created", "short_id", link.ShortID)
	v1.WriteOK(w, r, shortenResponse{
		ShortURL: h.Links.ShortURL(link.ShortID),
		ShortID:  link.ShortID,
	})
}

// Resolve — GET /s/{shortId}: 302 на исходный URL либо HTML-страница 404.
// Редирект не кешируем на клиенте: ссылка может протухнуть раньше.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	const op = "redirect.resolve"
	reqID := mw.RequestIDFromCtx(r.Context())

	shortID := r.PathValue("shortId")
	if len(shortID) != shortlink.IDLength {
		h.writeNotFound(w)
		return
	}

	longURL, err := h.Links.Resolve(r.Context(), shortID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logx.Error(h.Log, reqID, op, "resolve failed", err, "short_id", shortID)
		}
		h.writeNotFound(w)
		return
	}

	logx.Info(h.Log, reqID, op, "redirect", "short_id", shortID)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	http.Redirect(w, r, longURL, http.StatusFound)
}

func (h *Handler) writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundPage))
}
