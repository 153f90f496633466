package http

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"timesheet/internal/events"
	"timesheet/internal/log"
	"timesheet/internal/middleware/ratelimit"
	"timesheet/internal/middleware/security"
	"timesheet/internal/middleware/trace"
	"timesheet/internal/services"
	appweb "timesheet/web"
)

// Pinger is checked by /readyz when the backend supports it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the application services the handlers call into.
type Services struct {
	Timesheet *services.TimesheetService
	Accounts  *services.AccountService
	Career    *services.CareerService
	Stats     *services.Aggregator
	Broker    *events.Broker
	// Pinger is optional.
	Pinger Pinger
}

// Config holds the server knobs that come from the application config.
type Config struct {
	Addr               string
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	svc    Services
	logger *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	hub              *wsHub

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, svc Services, logger *log.Logger) (*Server, error) {
	if svc.Timesheet == nil || svc.Accounts == nil || svc.Career == nil || svc.Stats == nil || svc.Broker == nil {
		return nil, errors.New("http: missing service")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	rlCfg := ratelimit.DefaultConfig()
	rlCfg.RequestsPerMinute = cfg.RateLimitPerMinute

	s := &Server{
		svc:              svc,
		logger:           logger,
		rateLimiter:      ratelimit.NewLimiter(rlCfg),
		securityDetector: security.NewDetector(logger),
		started:          time.Now(),
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)
	s.hub = newWSHub(svc.Broker, logger)

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		s.rateLimiter.Stop()
		s.hub.Close()
		return nil, err
	}

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimited)(h)
	h = s.securityDetector.Middleware(h)
	h = security.Headers(security.DefaultPolicy())(h)
	h = s.traceMiddleware.Middleware(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return err
	}
	mux.Handle("GET /static/", security.CacheFor(time.Hour)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /ws", s.handleWS)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts/active", s.handleActiveAccounts)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("PUT /api/accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("PUT /api/accounts/{id}/group", s.handleMoveAccount)
	mux.HandleFunc("PUT /api/accounts/{id}/active", s.handleSetAccountActive)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/weeks/{week}", s.handleWeek)
	mux.HandleFunc("PUT /api/weeks/{week}/slots/{slot}", s.handleAssignSlot)
	mux.HandleFunc("DELETE /api/weeks/{week}/slots/{slot}", s.handleClearSlot)
	mux.HandleFunc("DELETE /api/weeks/{week}/slots", s.handleClearWeek)
	mux.HandleFunc("POST /api/weeks/{week}/complete", s.handleCompleteWeek)
	mux.HandleFunc("GET /api/weeks/{week}/stats", s.handleWeekStats)
	mux.HandleFunc("GET /api/weeks/{week}/accounts/{id}/hours", s.handleAccountHours)
	mux.HandleFunc("GET /api/weeks/{week}/report", s.handleWeekReport)
	mux.HandleFunc("GET /api/weeks/{week}/notes", s.handleGetWeekNote)
	mux.HandleFunc("PUT /api/weeks/{week}/notes", s.handleSaveWeekNote)

	mux.HandleFunc("GET /api/months/{year}/{month}/stats", s.handleMonthStats)
	mux.HandleFunc("GET /api/months/{year}/{month}/report", s.handleMonthReport)
	mux.HandleFunc("GET /api/years/{year}/stats", s.handleYearStats)
	mux.HandleFunc("GET /api/years/{year}/accounts", s.handleYearAccounts)
	mux.HandleFunc("GET /api/years/{year}/report", s.handleYearReport)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals/{id}", s.handleGetGoal)
	mux.HandleFunc("PUT /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/actions/{item}/toggle", s.handleToggleAction)
	mux.HandleFunc("POST /api/goals/{id}/milestones/{item}/toggle", s.handleToggleMilestone)

	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/events", s.handleAddEvent)
	mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)

	mux.HandleFunc("GET /api/roles/{role}/categories/{category}/items", s.handleListItems)
	mux.HandleFunc("POST /api/roles/{role}/categories/{category}/items", s.handleAddItem)
	mux.HandleFunc("POST /api/roles/{role}/categories/{category}/init", s.handleInitCategory)
	mux.HandleFunc("PUT /api/items/{id}", s.handleUpdateItem)
	mux.HandleFunc("PUT /api/items/{id}/rating", s.handleRateItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)

	mux.HandleFunc("GET /api/resources", s.handleListResources)
	mux.HandleFunc("POST /api/resources", s.handleAddResource)
	mux.HandleFunc("PUT /api/resources/{id}", s.handleUpdateResource)
	mux.HandleFunc("DELETE /api/resources/{id}", s.handleDeleteResource)

	mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/profile", s.handleUpdateProfile)
	return nil
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}

// Shutdown closes websocket sessions, stops background loops and drains
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.hub.Close()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
