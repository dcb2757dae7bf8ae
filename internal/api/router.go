package api

import (
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions configures the HTTP surface
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// TokenAuth enables bearer-token authentication on /api/v1 when set
	TokenAuth *jwtauth.JWTAuth
}

func NewRouter(h *PayrollHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		if opts.TokenAuth != nil {
			r.Use(jwtauth.Verifier(opts.TokenAuth))
			r.Use(AuthRequired)
		}

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/calculate", h.Calculate)
			r.Post("/validate", h.Validate)
			r.Post("/runs", h.RunPayroll)
		})
		r.Get("/ledger/{taxYear}/{employeeID}", h.GetLedger)
		r.Get("/tax-years/default", h.DefaultTaxYear)
	})
	return r
}

// NewRequestLogger builds the JSON slog logger used for request logging
func NewRequestLogger(w io.Writer, level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ukpayroll"),
		slog.String("env", env),
	)
}
