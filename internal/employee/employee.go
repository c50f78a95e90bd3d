package employee

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
)

type EmploymentType string

const (
	FullTime EmploymentType = "FULL_TIME"
	PartTime EmploymentType = "PART_TIME"
	Contract EmploymentType = "CONTRACT"
)

var employmentTypes = []EmploymentType{FullTime, PartTime, Contract}

// ParseEmploymentType accepts the enum names case-insensitively.
func ParseEmploymentType(s string) (EmploymentType, *internal.AppError) {
	candidate := EmploymentType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range employmentTypes {
		if candidate == t {
			return t, nil
		}
	}
	return "", internal.NewValidationFieldError("employment_type",
		fmt.Sprintf("employment_type must be one of %s", EmploymentTypeNames()),
		internal.ErrCodeInvalidEmploymentType)
}

func EmploymentTypeNames() string {
	names := make([]string, len(employmentTypes))
	for i, t := range employmentTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

type Employee struct {
	ID             int64           `json:"id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	BaseRate       decimal.Decimal `json:"base_rate"`
	DepartmentID   int64           `json:"department_id"`
	DepartmentName *string         `json:"department"`
	HireDate       time.Time       `json:"hire_date"`
	EmploymentType EmploymentType  `json:"employment_type"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// NormalizeEmail trims and lowercases so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoundRate brings a rate to the two places it is stored with.
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(2)
}

func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		FullName:       e.FullName(),
		Email:          e.Email,
		BaseRate:       e.BaseRate.InexactFloat64(),
		Department:     e.DepartmentName,
		DepartmentID:   e.DepartmentID,
		EmploymentType: string(e.EmploymentType),
		HireDate:       e.HireDate.Format(validation.DateLayout),
	}
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:             e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		BaseRate:       e.BaseRate,
		DepartmentID:   e.DepartmentID,
		HireDate:       e.HireDate,
		EmploymentType: string(e.EmploymentType),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	out := &Employee{
		ID:             e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		BaseRate:       e.BaseRate,
		DepartmentID:   e.DepartmentID,
		HireDate:       e.HireDate,
		EmploymentType: EmploymentType(e.EmploymentType),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.Department != nil {
		name := e.Department.Name
		out.DepartmentName = &name
	}
	return out
}
