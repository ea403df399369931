package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/store"
)

// Practice is the pipeline the HTTP layer drives.
type Practice interface {
	Start(ctx context.Context, userID int64, topic string, level leveling.Level) (*practice.Session, error)
	Load(ctx context.Context, userID, textID int64) (*practice.Session, error)
	Submit(ctx context.Context, userID, textID int64, answers []string) (*practice.Outcome, error)
	Progress(ctx context.Context, userID int64, limit int) (*practice.Report, error)
}

// Options configures the router.
type Options struct {
	Auth     *auth.Service
	Users    store.UserRepo
	Practice Practice

	CORSOrigins []string
	Timeout     time.Duration

	// Logger enables chi's request logger.
	Logger bool
}

// NewRouter builds the HTTP handler.
func NewRouter(o Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if o.Logger {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	if o.Timeout > 0 {
		r.Use(middleware.Timeout(o.Timeout))
	}
	if len(o.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   o.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	h := &handlers{auth: o.Auth, users: o.Users, practice: o.Practice}

	r.Get("/healthz", h.health)
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(o.Auth.Middleware)
		pr.Get("/me", h.me)
		pr.Get("/progress", h.progress)
		pr.Post("/practice", h.startPractice)
		pr.Get("/practice/{textID}", h.getPractice)
		pr.Post("/practice/{textID}/submit", h.submitPractice)
	})

	return r
}
