package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/eventlog"
	"github.com/osse101/PotSettle_Go/internal/handler"
	"github.com/osse101/PotSettle_Go/internal/ledger"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/metrics"
	"github.com/osse101/PotSettle_Go/internal/outcome"
	"github.com/osse101/PotSettle_Go/internal/penalty"
	"github.com/osse101/PotSettle_Go/internal/pot"
	"github.com/osse101/PotSettle_Go/internal/prediction"
	"github.com/osse101/PotSettle_Go/internal/settlement"
	"github.com/osse101/PotSettle_Go/internal/sse"
)

// Options configures the HTTP listener and middleware stack
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	RequestTimeout time.Duration
	// RateLimit falls back to DefaultGuardLimits when its window is zero
	RateLimit GuardLimits
}

// Services are the domain services exposed over HTTP. Sweeper may be nil
// when the sweep worker is disabled.
type Services struct {
	Pots        pot.Service
	Ledger      ledger.Service
	Eligibility handler.EligibilityReader
	Predictions prediction.Service
	Penalties   penalty.Service
	Outcomes    outcome.Service
	Settlements settlement.Service
	EventLog    eventlog.Service
	Sweeper     handler.SweepTrigger
	Stream      *sse.Hub
}

type Server struct {
	httpServer *http.Server
	store      handler.Pinger
}

// NewServer creates a new Server instance
func NewServer(opts Options, store handler.Pinger, cal *calendar.Calendar, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, store, cal, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		store: store,
	}
}

// NewRouter builds the chi router with the full middleware stack
func NewRouter(opts Options, store handler.Pinger, cal *calendar.Calendar, svc Services) http.Handler {
	r := chi.NewRouter()

	limits := opts.RateLimit
	if limits.Window <= 0 {
		limits = DefaultGuardLimits()
	}
	guard := NewClientGuard(limits, opts.TrustedProxies)

	r.Use(chimiddleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(guard))
	r.Use(loggingMiddleware)
	r.Use(AuthMiddleware(opts.APIKey, guard))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz(cal))
	r.Get("/readyz", handler.HandleReadyz(handler.PingCheck("store", store)))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	potHandlers := handler.NewPotHandlers(svc.Pots)
	ledgerHandlers := handler.NewLedgerHandlers(svc.Ledger, cal)
	eligibilityHandlers := handler.NewEligibilityHandlers(svc.Eligibility, cal)
	predictionHandlers := handler.NewPredictionHandlers(svc.Predictions, cal)
	penaltyHandlers := handler.NewPenaltyHandlers(svc.Penalties)
	outcomeHandlers := handler.NewOutcomeHandlers(svc.Outcomes)
	settlementHandlers := handler.NewSettlementHandlers(svc.Settlements, cal)

	r.Route("/api/v1", func(r chi.Router) {
		// Live event stream; long-lived so it sits outside the request timeout
		if svc.Stream != nil {
			r.Get("/stream", sse.Handler(svc.Stream))
		}

		r.Group(func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(chimiddleware.Timeout(opts.RequestTimeout))
			}

			r.Route("/pots", func(r chi.Router) {
				r.Post("/", potHandlers.HandleCreatePot())
				r.Get("/", potHandlers.HandleListPots())

				r.Route("/{potID}", func(r chi.Router) {
					r.Use(potLogContext)
					r.Get("/", potHandlers.HandleGetPot())
					r.Patch("/", potHandlers.HandleUpdatePot())
					r.Delete("/", potHandlers.HandleTeardownPot())

					// Participation ledger
					r.Route("/ledger", func(r chi.Router) {
						r.Post("/entry", ledgerHandlers.HandleRecordEntry())
						r.Post("/reentry", ledgerHandlers.HandleRecordReEntry())
						r.Post("/exit", ledgerHandlers.HandleRecordExit())
						r.Get("/{participant}", ledgerHandlers.HandleHistory())
						r.Delete("/", ledgerHandlers.HandleClearHistory())
					})

					r.Route("/eligibility", func(r chi.Router) {
						r.Get("/", eligibilityHandlers.HandleEligibleParticipants())
						r.Get("/{participant}", eligibilityHandlers.HandleIsActiveOn())
					})

					r.Route("/predictions", func(r chi.Router) {
						r.Put("/", predictionHandlers.HandleSubmitPrediction())
						r.Get("/", predictionHandlers.HandleGetPredictions())
					})

					r.Route("/penalties", func(r chi.Router) {
						r.Get("/", penaltyHandlers.HandleListPenalties())
						r.Post("/check", penaltyHandlers.HandleCheckPenalty())
						r.Post("/sweep", penaltyHandlers.HandleSweepPot())
						r.Get("/{participant}", penaltyHandlers.HandleGetPenaltyStatus())
					})

					r.Route("/outcome", func(r chi.Router) {
						r.Get("/", outcomeHandlers.HandleGetStatus())
						r.Put("/votes", outcomeHandlers.HandleCastVote())
					})

					r.Route("/settlement", func(r chi.Router) {
						r.Get("/", settlementHandlers.HandleGetSettlement())
						r.Post("/winners", settlementHandlers.HandleComputeWinners())
						r.Post("/distribute", settlementHandlers.HandleDistribute())
					})
				})
			})

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				metricsHandler := handler.NewAdminMetricsHandler(nil, svc.Stream)
				r.Get("/metrics", metricsHandler.HandleGetMetrics)
				if svc.Stream != nil {
					streamHandler := handler.NewAdminSSEHandler(svc.Stream)
					r.Get("/stream", streamHandler.HandleStatus)
					r.Post("/stream/broadcast", streamHandler.HandleBroadcast)
				}
				if svc.EventLog != nil {
					eventsHandler := handler.NewAdminEventsHandler(svc.EventLog)
					r.Get("/events", eventsHandler.HandleGetEvents)
				}
				if svc.Sweeper != nil {
					sweepHandler := handler.NewAdminSweepHandler(svc.Sweeper)
					r.Route("/sweep", func(r chi.Router) {
						r.Post("/", sweepHandler.HandleTriggerSweep)
						r.Get("/last", sweepHandler.HandleLastSweep)
					})
				}
			})
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps streaming responses working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isQuietPath(path string) bool {
	for _, prefix := range quietPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// requestID reuses a caller supplied X-Request-ID when it is a sane token
func requestID(r *http.Request) string {
	id := r.Header.Get(HeaderRequestID)
	if id == "" || len(id) > MaxRequestIDLength {
		return logger.GenerateRequestID()
	}
	for _, c := range id {
		if c <= ' ' || c > '~' {
			return logger.GenerateRequestID()
		}
	}
	return id
}

// redactHeaders copies h with credential values masked
func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range []string{HeaderAPIKey, HeaderAuthorization} {
		if out.Get(name) != "" {
			out.Set(name, RedactedValue)
		}
	}
	return out
}

// potLogContext tags the request logger with the pot being addressed
func potLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.With(r.Context(), logger.AttrKeyPotID, chi.URLParam(r, "potID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware attaches a request-scoped logger and logs each request
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestID(r)
		w.Header().Set(HeaderRequestID, id)

		ctx := logger.WithRequestID(r.Context(), id)
		if ip := clientIPFrom(ctx); ip != "" {
			ctx = logger.With(ctx, logger.AttrKeyClientIP, ip)
		}
		r = r.WithContext(ctx)

		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
