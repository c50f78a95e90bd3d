package cmd

import (
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/cache"
	"github.com/frahmantamala/payroll-management/internal/core/database"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/department"
	departmentPostgres "github.com/frahmantamala/payroll-management/internal/department/postgres"
	"github.com/frahmantamala/payroll-management/internal/employee"
	employeePostgres "github.com/frahmantamala/payroll-management/internal/employee/postgres"
	"github.com/frahmantamala/payroll-management/internal/payroll"
	payrollPostgres "github.com/frahmantamala/payroll-management/internal/payroll/postgres"
)

// Services is the wired domain layer shared by every command.
type Services struct {
	DB          *database.Handles
	Cache       *cache.JSONCache
	Bus         *events.EventBus
	Departments *department.Service
	Employees   *employee.Service
	Payroll     *payroll.Service
}

func openServices(cfg *internal.Config, lg *slog.Logger) (*Services, error) {
	handles, err := database.Open(cfg.Database, lg)
	if err != nil {
		return nil, err
	}
	return newServices(handles, cache.New(cfg.Cache, lg), lg), nil
}

func newServices(handles *database.Handles, summaryCache *cache.JSONCache, lg *slog.Logger) *Services {
	bus := events.NewEventBus(lg)
	summaryCache.InvalidateOn(bus, []string{payroll.SummaryCacheKey}, events.ChangeTypes...)

	// a nil *JSONCache would still satisfy the interface
	var payrollCache payroll.SummaryCache
	if summaryCache.Enabled() {
		payrollCache = summaryCache
	}

	return &Services{
		DB:          handles,
		Cache:       summaryCache,
		Bus:         bus,
		Departments: department.NewService(departmentPostgres.NewDepartmentRepository(handles.Gorm), bus, lg),
		Employees:   employee.NewService(employeePostgres.NewEmployeeRepository(handles.Gorm), bus, lg),
		Payroll: payroll.NewService(
			payrollPostgres.NewPayrollRepository(handles.Gorm),
			payrollPostgres.NewSummaryRepository(handles.SQLX),
			payrollCache,
			bus,
			lg,
		),
	}
}

func (s *Services) Close() {
	if err := s.Cache.Close(); err != nil {
		slog.Error("cache close error", "error", err)
	}
	if err := s.DB.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}
}
