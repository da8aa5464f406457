package http

import (
	"net/http"

	"wellspring/internal/auth"
	"wellspring/internal/config"
	"wellspring/internal/http/handler"
	mw "wellspring/internal/http/middleware"
	"wellspring/internal/insight"
	"wellspring/internal/jobs"
	"wellspring/internal/record"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, svc *insight.Service, jobsRepo *jobs.Repo) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	recH := &handler.RecordHandler{DB: db}
	r.Route("/records", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/checkins", recH.CreateCheckin)
		r.Post("/journals", recH.CreateJournal)
	})

	insH := &handler.InsightHandler{
		DB:     db,
		Svc:    svc,
		Loader: &record.Loader{DB: db},
		Jobs:   jobsRepo,
	}
	r.Route("/insights", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", insH.List)
		r.Get("/{id}", insH.Get)
		r.Post("/compute", insH.Compute)
		r.Post("/refresh", insH.Refresh)
		r.Post("/run", insH.RunBatch)
	})

	return r
}
