package employee

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/payroll-management/internal/core/events"
)

type RepositoryAPI interface {
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI) error) error
	GetAll(ctx context.Context, filter ListFilter) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	DepartmentExists(ctx context.Context, departmentID int64) (bool, error)
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
	Update(ctx context.Context, employee *employeeDatamodel.Employee) error
	DeletePayrollRecords(ctx context.Context, employeeID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Employee, error) {
	filter.Search = strings.ToLower(strings.TrimSpace(filter.Search))

	rows, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row))
	}
	return employees, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	emp, appErr := dto.ToEmployee()
	if appErr != nil {
		return nil, appErr
	}

	var created *Employee
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		if err := ensureDepartment(ctx, repo, emp.DepartmentID); err != nil {
			return err
		}

		row := ToDataModel(emp)
		if err := repo.Create(ctx, row); err != nil {
			if database.IsDuplicateKey(err) {
				return internal.ErrEmailExists.WithCause(err)
			}
			return internal.NewInternalError("failed to create employee", err)
		}

		saved, err := repo.GetByID(ctx, row.ID)
		if err != nil {
			return internal.NewInternalError("failed to reload employee", err)
		}
		created = FromDataModel(saved)
		return nil
	})
	if err != nil {
		s.logFailure("create employee", 0, err)
		return nil, err
	}

	s.logger.Info("employee created",
		"employee_id", created.ID,
		"department_id", created.DepartmentID,
		"employment_type", created.EmploymentType)
	s.publish(ctx, events.NewEmployeeChangedEvent(created.ID, events.ActionCreated))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	var updated *Employee
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to get employee", err)
		}
		if row == nil {
			return internal.ErrEmployeeNotFound
		}

		emp := FromDataModel(row)
		dto.Apply(emp)

		if dto.DepartmentID != nil {
			if err := ensureDepartment(ctx, repo, emp.DepartmentID); err != nil {
				return err
			}
		}

		if err := repo.Update(ctx, ToDataModel(emp)); err != nil {
			if database.IsDuplicateKey(err) {
				return internal.ErrEmailExists.WithCause(err)
			}
			return internal.NewInternalError("failed to update employee", err)
		}

		saved, err := repo.GetByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to reload employee", err)
		}
		updated = FromDataModel(saved)
		return nil
	})
	if err != nil {
		s.logFailure("update employee", id, err)
		return nil, err
	}

	s.logger.Info("employee updated", "employee_id", id)
	s.publish(ctx, events.NewEmployeeChangedEvent(id, events.ActionUpdated))
	return updated, nil
}

// Delete removes the employee's payroll records before the employee itself.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var records int64
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to get employee", err)
		}
		if row == nil {
			return internal.ErrEmployeeNotFound
		}

		if records, err = repo.DeletePayrollRecords(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete payroll records", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete employee", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete employee", id, err)
		return err
	}

	s.logger.Info("employee deleted", "employee_id", id, "records_deleted", records)
	s.publish(ctx, events.NewEmployeeChangedEvent(id, events.ActionDeleted))
	return nil
}

func ensureDepartment(ctx context.Context, repo RepositoryAPI, departmentID int64) error {
	exists, err := repo.DepartmentExists(ctx, departmentID)
	if err != nil {
		return internal.NewInternalError("failed to check department", err)
	}
	if !exists {
		return internal.ErrDepartmentNotFound
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func (s *Service) logFailure(op string, id int64, err error) {
	if internal.IsType(err, internal.ErrorTypeInternal) {
		s.logger.Error("failed to "+op, "employee_id", id, "error", err)
		return
	}
	s.logger.Warn("could not "+op, "employee_id", id, "error", err)
}
