package redirect

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/config"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/shortlink"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/mw"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/health"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, links *shortlink.Service, db, cache health.Pinger) *Server {
	handlerLog := log.New(logger.Writer(), logger.Prefix()+"[links] ", logger.Flags())
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())

	handler := &Handler{Log: handlerLog, Links: links}
	healthHandler := &health.Handler{Log: healthLog, DB: db, Cache: cache}

	srv := &http.Server{
		Addr:              cfg.RedirectPort,
		Handler:           newRouter(handler, healthHandler, cfg.CORSOrigin, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func newRouter(h *Handler, hh *health.Handler, corsOrigin string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", hh.Liveness)
	mux.HandleFunc("GET /readyz", hh.Readiness)

	mux.HandleFunc("POST /shorten", h.Shorten)
	mux.HandleFunc("GET /s/{shortId}", h.Resolve)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mw.CORS(corsOrigin)(mux)))
}

func (rs *Server) Run() {
	rs.log.Printf("started on %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		rs.log.Fatalf("error: %v", err)
	}
}

func (rs *Server) Close(ctx context.Context) {
	if err := rs.server.Shutdown(ctx); err != nil {
		rs.log.Printf("forced to shutdown: %v", err)
	}
	rs.log.Println("exited gracefully")
}
