package web

import (
	"log"
	"net/http"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/mw"
	v1 "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/health"
)

func newRouter(d *v1.Dispatcher, hh *health.Handler, corsOrigin string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /api/healthz", hh.Liveness)
	mux.HandleFunc("GET /api/readyz", hh.Readiness)

	// единая точка входа; метод и OPTIONS разбирает сам диспетчер,
	// поэтому маршрут без метода
	mux.Handle("/api/actions", limitBody(1<<20, d.ServeHTTP)) // 1MB лимит

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mw.CORS(corsOrigin)(mux)))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
