package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/payroll-management/api"
	"github.com/frahmantamala/payroll-management/internal/department"
	"github.com/frahmantamala/payroll-management/internal/employee"
	"github.com/frahmantamala/payroll-management/internal/payroll"
	"github.com/frahmantamala/payroll-management/internal/transport/middleware"
	"github.com/frahmantamala/payroll-management/internal/transport/swagger"
)

type Handlers struct {
	Department *department.Handler
	Employee   *employee.Handler
	Payroll    *payroll.Handler
	Health     *HealthHandler
}

type Options struct {
	AllowedOrigins    []string
	RequestsPerMinute int
	RequestTimeout    time.Duration
	Development       bool
}

func RegisterAllRoutes(router *chi.Mux, handlers Handlers, opts Options, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.SecureHeaders(opts.Development))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPISpec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	if handlers.Health != nil {
		router.Get("/health", handlers.Health.healthCheckHandler)
		router.Get("/ping", handlers.Health.pingHandler)
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(opts.AllowedOrigins))
		r.Use(middleware.RateLimit(opts.RequestsPerMinute))
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		if h := handlers.Department; h != nil {
			r.Route("/departments", func(dr chi.Router) {
				dr.Get("/", h.ListDepartments)
				dr.Post("/", h.CreateDepartment)
				dr.Get("/{id}", h.GetDepartment)
				dr.Put("/{id}", h.UpdateDepartment)
				dr.Delete("/{id}", h.DeleteDepartment)
			})
		}

		if h := handlers.Employee; h != nil {
			r.Route("/employees", func(er chi.Router) {
				er.Get("/", h.ListEmployees)
				er.Post("/", h.CreateEmployee)
				er.Get("/{id}", h.GetEmployee)
				er.Put("/{id}", h.UpdateEmployee)
				er.Delete("/{id}", h.DeleteEmployee)
			})
		}

		if h := handlers.Payroll; h != nil {
			r.Route("/payroll-records", func(pr chi.Router) {
				pr.Get("/", h.ListRecords)
				pr.Post("/", h.CreateRecord)
				pr.Get("/{id}", h.GetRecord)
			})
			r.Route("/payroll-periods", func(pr chi.Router) {
				pr.Get("/", h.ListPeriods)
				pr.Patch("/{id}/status", h.UpdatePeriodStatus)
				pr.Delete("/{id}", h.DeletePeriod)
			})
			r.Get("/summary", h.Summary)
		}
	})
}
