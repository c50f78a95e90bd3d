package employee

import (
	"time"

	"github.com/shopspring/decimal"

	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
)

type Employee struct {
	ID             int64                           `gorm:"primaryKey"`
	FirstName      string                          `gorm:"column:first_name;size:80;not null"`
	LastName       string                          `gorm:"column:last_name;size:80;not null;index"`
	Email          string                          `gorm:"column:email;size:120;uniqueIndex;not null"`
	BaseRate       decimal.Decimal                 `gorm:"column:base_rate;type:numeric(10,2);not null"`
	DepartmentID   int64                           `gorm:"column:department_id;not null;index"`
	Department     *departmentDatamodel.Department `gorm:"foreignKey:DepartmentID"`
	HireDate       time.Time                       `gorm:"column:hire_date;type:date;not null"`
	EmploymentType string                          `gorm:"column:employment_type;size:20;not null"`
	CreatedAt      time.Time                       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
