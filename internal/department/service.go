package department

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/database"
	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
	"github.com/frahmantamala/payroll-management/internal/core/events"
)

type RepositoryAPI interface {
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI) error) error
	GetAll(ctx context.Context) ([]*departmentDatamodel.DepartmentWithCount, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.DepartmentWithCount, error)
	Create(ctx context.Context, department *departmentDatamodel.Department) error
	Update(ctx context.Context, department *departmentDatamodel.Department) error
	DeletePayrollRecords(ctx context.Context, departmentID int64) (int64, error)
	DeleteEmployees(ctx context.Context, departmentID int64) (int64, error)
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

func (s *Service) List(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}

	departments := make([]*Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, FromDataModel(row))
	}
	return departments, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get department", "department_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dept := NewDepartment(dto.Name, dto.Description)
	row := ToDataModel(dept)
	if err := s.repo.Create(ctx, row); err != nil {
		if database.IsDuplicateKey(err) {
			s.logger.Warn("department name already taken", "name", dept.Name)
			return nil, internal.ErrDepartmentExists.WithCause(err)
		}
		s.logger.Error("failed to create department", "name", dept.Name, "error", err)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	dept.ID = row.ID
	dept.CreatedAt = row.CreatedAt
	dept.UpdatedAt = row.UpdatedAt

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	s.publish(ctx, events.NewDepartmentChangedEvent(dept.ID, events.ActionCreated))
	return dept, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *Department
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to get department", err)
		}
		if row == nil {
			return internal.ErrDepartmentNotFound
		}

		dept := FromDataModel(row)
		if dto.Name != nil {
			dept.Rename(*dto.Name)
		}
		if dto.Description != nil {
			dept.Describe(dto.Description)
		}

		if err := repo.Update(ctx, ToDataModel(dept)); err != nil {
			if database.IsDuplicateKey(err) {
				return internal.ErrDepartmentExists.WithCause(err)
			}
			return internal.NewInternalError("failed to update department", err)
		}
		updated = dept
		return nil
	})
	if err != nil {
		s.logFailure("update department", id, err)
		return nil, err
	}

	s.logger.Info("department updated", "department_id", id)
	s.publish(ctx, events.NewDepartmentChangedEvent(id, events.ActionUpdated))
	return updated, nil
}

// Delete removes the department together with its employees and their payroll records.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var employees, records int64
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to get department", err)
		}
		if row == nil {
			return internal.ErrDepartmentNotFound
		}

		if records, err = repo.DeletePayrollRecords(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete payroll records", err)
		}
		if employees, err = repo.DeleteEmployees(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete employees", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete department", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete department", id, err)
		return err
	}

	s.logger.Info("department deleted",
		"department_id", id,
		"employees_deleted", employees,
		"records_deleted", records)
	s.publish(ctx, events.NewDepartmentChangedEvent(id, events.ActionDeleted))
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
		s.logger.Error("failed to "+op, "department_id", id, "error", err)
		return
	}
	s.logger.Warn("could not "+op, "department_id", id, "error", err)
}
