package rest

import (
	"context"
	"net/http"
	"price-estimator-service/internal/core/port"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты API.
func NewRouter(
	estimateHandler *EstimateHandler,
	valuationHandler *ValuationHandler,
	locationsHandler *LocationsHandler,
	authHandler *AuthHandler,
	authMiddleware *AuthMiddleware,
	allowedOrigins []string,
	baseLogger port.LoggerPort,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders: []string{"X-Trace-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predict", estimateHandler.Predict)
		r.Get("/health", estimateHandler.Health)

		r.Post("/auth/token", authHandler.IssueToken)

		// заявки на оценку доступны только клиентам с токеном
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/valuations", valuationHandler.Submit)
			r.Get("/valuations/{valuationID}", valuationHandler.Get)
		})

		r.Get("/locations", locationsHandler.List)
		r.Get("/search-locations", locationsHandler.Search)
	})

	return r
}

func NewServer(httpPort string, handler http.Handler, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + httpPort,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
