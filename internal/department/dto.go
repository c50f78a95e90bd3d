package department

import (
	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 255
)

type CreateDepartmentDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (dto CreateDepartmentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(maxNameLength)
	v.Field("description", dto.Description).MaxLength(maxDescriptionLength)
	return v.Validate()
}

// UpdateDepartmentDTO applies only the fields that are present.
type UpdateDepartmentDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (dto UpdateDepartmentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", dto.Name).Required().MaxLength(maxNameLength)
	}
	v.Field("description", dto.Description).MaxLength(maxDescriptionLength)
	return v.Validate()
}

type DepartmentResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	EmployeeCount int64   `json:"employee_count"`
}
