package department

import (
	"strings"
	"time"

	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
)

type Department struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	EmployeeCount int64     `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewDepartment(name string, description *string) *Department {
	now := time.Now()
	return &Department{
		Name:        strings.TrimSpace(name),
		Description: normalizeDescription(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (d *Department) ToResponse() DepartmentResponse {
	return DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		EmployeeCount: d.EmployeeCount,
	}
}

func (d *Department) Rename(name string) {
	d.Name = strings.TrimSpace(name)
	d.UpdatedAt = time.Now()
}

func (d *Department) Describe(description *string) {
	d.Description = normalizeDescription(description)
	d.UpdatedAt = time.Now()
}

// blank descriptions are stored as NULL
func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func FromDataModel(d *departmentDatamodel.DepartmentWithCount) *Department {
	return &Department{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		EmployeeCount: d.EmployeeCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
