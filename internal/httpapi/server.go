package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/observability"
	"github.com/testhr/llamagate/internal/service/generate"
	"github.com/testhr/llamagate/pkg/log"
)

// Generator is the generation orchestrator surface the HTTP layer needs.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (generate.Response, error)
	Conversation(ctx context.Context, sessionID string) ([]core.Turn, error)
	ConversationsByDate(ctx context.Context, day string) ([]core.Turn, error)
}

// Accounts is the account-management surface the HTTP layer needs.
type Accounts interface {
	Signup(ctx context.Context, name, email, password string) (core.User, error)
	Login(ctx context.Context, email, password string) (core.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// Server exposes the generation, history and account endpoints. It
// implements srv.Service for the shared lifecycle runner.
type Server struct {
	addr      string
	generator Generator
	accounts  Accounts
	httpSrv   *http.Server
}

func NewServer(addr string, generator Generator, accounts Accounts) *Server {
	return &Server{addr: addr, generator: generator, accounts: accounts}
}

func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(ctx))

	r.Get("/", s.handleWelcome)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/generate", s.handleGenerate)
	r.Get("/conversation/{session_id}", s.handleConversation)
	r.Get("/conversations_by_date/{date}", s.handleConversationsByDate)

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.Post("/forgot-password", s.handleForgotPassword)

	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("http server listening")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	log.FromCtx(ctx).Info().Msg("http server shutting down")
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]any{
		"service": core.ServiceName,
		"version": core.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// requestLogger injects the process logger into every request context and
// emits one line per request.
func requestLogger(ctx context.Context) func(http.Handler) http.Handler {
	logger := log.FromCtx(ctx)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqCtx := logger.WithContext(r.Context())
			next.ServeHTTP(ww, r.WithContext(reqCtx))

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
