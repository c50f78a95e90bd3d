package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

const (
	maxNameLength  = 80
	maxEmailLength = 120
)

type CreateEmployeeDTO struct {
	FirstName      *string          `json:"first_name"`
	LastName       *string          `json:"last_name"`
	Email          *string          `json:"email"`
	BaseRate       *decimal.Decimal `json:"base_rate"`
	DepartmentID   *int64           `json:"department_id"`
	EmploymentType *string          `json:"employment_type"`
	HireDate       *string          `json:"hire_date"`
}

// MissingFields lists the absent required fields in request order.
func (dto CreateEmployeeDTO) MissingFields() []string {
	var missing []string
	if dto.FirstName == nil {
		missing = append(missing, "first_name")
	}
	if dto.LastName == nil {
		missing = append(missing, "last_name")
	}
	if dto.Email == nil {
		missing = append(missing, "email")
	}
	if dto.BaseRate == nil {
		missing = append(missing, "base_rate")
	}
	if dto.DepartmentID == nil {
		missing = append(missing, "department_id")
	}
	if dto.EmploymentType == nil {
		missing = append(missing, "employment_type")
	}
	if dto.HireDate == nil {
		missing = append(missing, "hire_date")
	}
	return missing
}

// ToEmployee validates the payload and builds an unsaved employee.
func (dto CreateEmployeeDTO) ToEmployee() (*Employee, *internal.AppError) {
	if missing := dto.MissingFields(); len(missing) > 0 {
		return nil, internal.NewMissingFieldsError(missing)
	}

	email := NormalizeEmail(*dto.Email)
	baseRate := RoundRate(*dto.BaseRate)
	v := validation.NewValidator()
	v.Field("first_name", dto.FirstName).Required().MaxLength(maxNameLength)
	v.Field("last_name", dto.LastName).Required().MaxLength(maxNameLength)
	v.Field("email", email).Required().MaxLength(maxEmailLength).Email()
	v.Field("base_rate", baseRate).Positive(internal.ErrCodeInvalidRate)
	v.Field("hire_date", dto.HireDate).Required().Date()
	if err := v.Validate(); err != nil {
		return nil, err
	}

	employmentType, err := ParseEmploymentType(*dto.EmploymentType)
	if err != nil {
		return nil, err
	}
	hireDate, appErr := validation.ParseDate("hire_date", *dto.HireDate)
	if appErr != nil {
		return nil, appErr
	}

	now := time.Now()
	return &Employee{
		FirstName:      strings.TrimSpace(*dto.FirstName),
		LastName:       strings.TrimSpace(*dto.LastName),
		Email:          email,
		BaseRate:       baseRate,
		DepartmentID:   *dto.DepartmentID,
		HireDate:       hireDate,
		EmploymentType: employmentType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateEmployeeDTO applies only the fields that are present.
type UpdateEmployeeDTO struct {
	FirstName      *string          `json:"first_name,omitempty"`
	LastName       *string          `json:"last_name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	BaseRate       *decimal.Decimal `json:"base_rate,omitempty"`
	DepartmentID   *int64           `json:"department_id,omitempty"`
	EmploymentType *string          `json:"employment_type,omitempty"`
	HireDate       *string          `json:"hire_date,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.FirstName != nil {
		v.Field("first_name", dto.FirstName).Required().MaxLength(maxNameLength)
	}
	if dto.LastName != nil {
		v.Field("last_name", dto.LastName).Required().MaxLength(maxNameLength)
	}
	if dto.Email != nil {
		v.Field("email", NormalizeEmail(*dto.Email)).Required().MaxLength(maxEmailLength).Email()
	}
	if dto.BaseRate != nil {
		v.Field("base_rate", RoundRate(*dto.BaseRate)).Positive(internal.ErrCodeInvalidRate)
	}
	if dto.HireDate != nil {
		v.Field("hire_date", dto.HireDate).Required().Date()
	}
	if dto.EmploymentType != nil {
		v.Field("employment_type", dto.EmploymentType).Custom(func(value interface{}) *internal.AppError {
			_, err := ParseEmploymentType(*dto.EmploymentType)
			return err
		})
	}
	return v.Validate()
}

// Apply copies the present fields onto e. Validate must have passed.
func (dto UpdateEmployeeDTO) Apply(e *Employee) {
	if dto.FirstName != nil {
		e.FirstName = strings.TrimSpace(*dto.FirstName)
	}
	if dto.LastName != nil {
		e.LastName = strings.TrimSpace(*dto.LastName)
	}
	if dto.Email != nil {
		e.Email = NormalizeEmail(*dto.Email)
	}
	if dto.BaseRate != nil {
		e.BaseRate = RoundRate(*dto.BaseRate)
	}
	if dto.DepartmentID != nil {
		e.DepartmentID = *dto.DepartmentID
	}
	if dto.EmploymentType != nil {
		e.EmploymentType, _ = ParseEmploymentType(*dto.EmploymentType)
	}
	if dto.HireDate != nil {
		e.HireDate, _ = validation.ParseDate("hire_date", *dto.HireDate)
	}
	e.UpdatedAt = time.Now()
}

type ListFilter struct {
	DepartmentID *int64
	Search       string
}

type EmployeeResponse struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	BaseRate       float64 `json:"base_rate"`
	Department     *string `json:"department"`
	DepartmentID   int64   `json:"department_id"`
	EmploymentType string  `json:"employment_type"`
	HireDate       string  `json:"hire_date"`
}
