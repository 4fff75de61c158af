package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/core/vpn"
	"github.com/seckatie/urlrota/internal/logger"
)

// Options wires the server to the rest of the application.
type Options struct {
	DB      *db.DB
	Runs    *core.RunManager
	Sampler *core.Sampler
	VPN     vpn.Gate
	Log     logger.Logger
	// Pacing is used when a run request does not give its own bounds.
	Pacing core.Pacing
	// DefaultOrder is used when a run request does not give an order.
	DefaultOrder string
}

type Server struct {
	db           *db.DB
	runs         *core.RunManager
	sampler      *core.Sampler
	vpn          vpn.Gate
	log          logger.Logger
	pacing       core.Pacing
	defaultOrder string
	started      time.Time

	// baseCtx parents every batch run so a run outlives the request that
	// started it but stops with the server.
	baseCtx context.Context
	router  chi.Router
}

func NewServer(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.VPN == nil {
		opts.VPN = vpn.AlwaysConnected{}
	}
	if opts.Sampler == nil {
		opts.Sampler = core.NewSampler(nil)
	}
	ws := &Server{
		db:           opts.DB,
		runs:         opts.Runs,
		sampler:      opts.Sampler,
		vpn:          opts.VPN,
		log:          opts.Log,
		pacing:       opts.Pacing,
		defaultOrder: opts.DefaultOrder,
		started:      time.Now(),
		baseCtx:      context.Background(),
	}
	ws.router = ws.routes()
	return ws
}

func (ws *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests(ws.log))

	r.Get("/healthz", ws.handleHealthz)
	r.Get("/domains", ws.handleDomains)
	r.Get("/browsers", ws.handleBrowsers)
	r.Get("/urls", ws.handleURLs)
	r.Get("/history", ws.handleHistory)
	r.Get("/vpn", ws.handleVPNStatus)

	r.Route("/runs", func(r chi.Router) {
		r.Post("/", ws.handleStartRun)
		r.Get("/current", ws.handleCurrentRun)
		r.Delete("/current", ws.handleCancelRun)
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Handler returns the root HTTP handler.
func (ws *Server) Handler() http.Handler {
	return ws.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully and
// waits for any active run to stop.
func (ws *Server) Start(ctx context.Context, addr string) error {
	ws.baseCtx = ctx
	srv := &http.Server{
		Addr:              addr,
		Handler:           ws.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		ws.log.Info("starting web server", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	ws.log.Info("web server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if ws.runs != nil {
		if stopErr := ws.runs.Stop(shutdownCtx); stopErr != nil {
			ws.log.Error("batch run did not stop before shutdown deadline", logger.Error(stopErr))
			err = errors.Join(err, stopErr)
		}
	}
	return err
}
