package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/config"
	v1 "github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/auth"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/health"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/links"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/v1/photos"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, deps Deps) *Server {
	authLog := log.New(logger.Writer(), logger.Prefix()+"[auth] ", logger.Flags())
	photosLog := log.New(logger.Writer(), logger.Prefix()+"[photos] ", logger.Flags())
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	dispatchLog := log.New(logger.Writer(), logger.Prefix()+"[dispatch] ", logger.Flags())

	authHandler := &auth.Handler{
		Log:    authLog,
		Users:  deps.Users,
		Hasher: deps.Hasher,
		Scopes: deps.Scopes,
		Broker: deps.Broker,
		Resets: deps.Resets,
	}
	photosHandler := &photos.Handler{
		Log:     photosLog,
		Users:   deps.Users,
		Storage: deps.Storage,
	}
	dispatcher := &v1.Dispatcher{
		Log:    dispatchLog,
		Auth:   authHandler,
		Photos: photosHandler,
	}
	if deps.Links != nil {
		dispatcher.Links = &links.Handler{Links: deps.Links}
	}
	healthHandler := &health.Handler{
		Log:     healthLog,
		DB:      deps.Users,
		Cache:   deps.Cache,
		Storage: deps.Storage,
	}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(dispatcher, healthHandler, cfg.CORSOrigin, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
