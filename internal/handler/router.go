package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/person-registry/backend/internal/handler/person"
	"github.com/zhouzirui/person-registry/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/person-registry/backend/internal/middleware"
	personModel "github.com/zhouzirui/person-registry/backend/internal/model/person"
	"github.com/zhouzirui/person-registry/backend/pkg/utils"
)

// Deps carries everything the router needs. RequestLog and Metrics may be nil.
type Deps struct {
	Persons        personModel.Store
	RequestLog     *middlewarePkg.RequestLog
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to the person registry.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middlewarePkg.Metrics(deps.Metrics))
	}

	personHandler := person.New(deps.Persons, deps.Metrics, deps.RequestLog.Middleware)
	personHandler.RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"persons": deps.Persons.Len(),
		})
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
