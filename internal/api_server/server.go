package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/solosphere/marketplace/internal/auth"
	"github.com/solosphere/marketplace/internal/config"
	"github.com/solosphere/marketplace/internal/events"
	handlers "github.com/solosphere/marketplace/internal/handlers/v1alpha1"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/solosphere/marketplace/internal/store"
	"github.com/solosphere/marketplace/pkg/log"
	"github.com/solosphere/marketplace/pkg/metrics"
	"github.com/solosphere/marketplace/pkg/middleware"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
	welcomeMessage          = "Hello from SoloSphere Server...."
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of a marketplace server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

// NewRouter wires the middleware chain and the marketplace handlers on a chi router.
// The metrics middleware and the event writer are optional.
func NewRouter(cfg *config.Config, s store.Store, metricMiddleware *metrics.Middleware, eventWriter service.EventWriter) (chi.Router, error) {
	authenticator, err := auth.NewCookieAuthenticator(cfg.Service.Auth, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	router := chi.NewRouter()

	if cfg.Service.GatewayPrefix != "" {
		router.Use(middleware.GatewayRewrite(cfg.Service.GatewayPrefix))
	}

	if metricMiddleware != nil {
		router.Use(metricMiddleware.Handler)
	}

	router.Use(
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Origins(),
			AllowedMethods:   []string{"GET", "PUT", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		chiMiddleware.RequestID,
		middleware.RequestID,
		log.Logger(zap.L(), "http"),
		chiMiddleware.Recoverer,
	)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, welcomeMessage)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.PlainText(w, r, "ok")
	})

	bidOpts := []service.BidServiceOption{service.WithStrictTransitions(cfg.Service.StrictTransitions)}
	if eventWriter != nil {
		bidOpts = append(bidOpts, service.WithEventWriter(eventWriter))
	}

	h := handlers.NewServiceHandler(
		service.NewJobService(s),
		service.NewBidService(s, bidOpts...),
		authenticator,
	)
	h.Routes(router)

	return router, nil
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	var eventWriter service.EventWriter
	var reconcilerOpts []service.ReconcilerOption
	if s.cfg.Service.EventsEnabled {
		producer := events.NewEventProducer(&events.StdoutWriter{})
		defer func() { _ = producer.Close() }()
		eventWriter = producer
		reconcilerOpts = append(reconcilerOpts, service.WithReconcilerEventWriter(producer))
	}

	router, err := NewRouter(s.cfg, s.store, metricMiddleware, eventWriter)
	if err != nil {
		return err
	}

	if interval := s.cfg.Service.ReconcileInterval; interval > 0 {
		go service.NewReconciler(s.store, reconcilerOpts...).Run(ctx, interval)
	}

	srv := http.Server{Addr: s.cfg.ListenAddress(), Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
