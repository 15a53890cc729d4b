package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/soaringjerry/fitpages/internal/middleware"
	"github.com/soaringjerry/fitpages/internal/services"
	"github.com/soaringjerry/fitpages/internal/utils"
)

const nutritionForm = "nutrition"

type QuoteSource interface {
	Random(ctx context.Context) (*services.Quote, services.BatchOutcome, error)
}

type ExerciseSource interface {
	List(ctx context.Context, bodyPart string) ([]*services.Exercise, error)
	Localize(ctx context.Context, records []*services.Exercise) services.LocalizeReport
}

type NutritionSource interface {
	Lookup(ctx context.Context, food string) ([]services.Nutrient, error)
}

// Deps holds everything the page handlers need; it is built once in main.
type Deps struct {
	Quotes     QuoteSource
	Exercises  ExerciseSource
	Nutrition  NutritionSource
	Forms      *middleware.FormTokens
	SourceLang string
	Commit     string
	BuildTime  string
}

type Router struct {
	deps  Deps
	pages *pageTemplates
}

func NewRouter(deps Deps) (*Router, error) {
	pages, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	if deps.SourceLang == "" {
		deps.SourceLang = "en"
	}
	if deps.Forms == nil {
		if deps.Forms, err = middleware.NewFormTokens("", 0); err != nil {
			return nil, err
		}
	}
	return &Router{deps: deps, pages: pages}, nil
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LocaleMiddleware)

	r.Get("/healthz", rt.handleHealth)
	r.Get("/version", rt.handleVersion)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/", rt.handleHome)
		r.Get("/ejercicios", rt.handleExercises)
		r.Get("/exercises", rt.handleExercises)

		nut := r.With(rt.deps.Forms.CheckFormToken(nutritionForm))
		for _, path := range []string{"/nutricion", "/nutrition"} {
			nut.Get(path, rt.handleNutrition)
			nut.Post(path, rt.handleNutrition)
		}
	})
	return r
}

// GET /healthz
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, map[string]any{
		"ok":     true,
		"name":   "fitpages",
		"locale": locale,
		"msg":    utils.T(locale, "health.ok"),
	})
}

// GET /version
func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"commit":     rt.deps.Commit,
		"build_time": rt.deps.BuildTime,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
