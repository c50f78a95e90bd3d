package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
)

const StatusOpen = "OPEN"

type Period struct {
	ID        int64     `gorm:"primaryKey"`
	Label     string    `gorm:"column:label;size:100;uniqueIndex;not null"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null;check:ck_period_dates,end_date >= start_date"`
	Status    string    `gorm:"column:status;size:20;not null;default:'OPEN'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Period) TableName() string {
	return "payroll_periods"
}

type Record struct {
	ID              int64                       `gorm:"primaryKey"`
	EmployeeID      int64                       `gorm:"column:employee_id;not null;uniqueIndex:uq_employee_period,priority:1"`
	PayrollPeriodID int64                       `gorm:"column:payroll_period_id;not null;uniqueIndex:uq_employee_period,priority:2;index"`
	HoursWorked     decimal.Decimal             `gorm:"column:hours_worked;type:numeric(8,2);not null"`
	GrossPay        decimal.Decimal             `gorm:"column:gross_pay;type:numeric(12,2);not null"`
	TaxAmount       decimal.Decimal             `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	OtherDeductions decimal.Decimal             `gorm:"column:other_deductions;type:numeric(12,2);not null"`
	NetPay          decimal.Decimal             `gorm:"column:net_pay;type:numeric(12,2);not null"`
	Notes           *string                     `gorm:"column:notes;type:text"`
	Employee        *employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID"`
	Period          *Period                     `gorm:"foreignKey:PayrollPeriodID"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Record) TableName() string {
	return "payroll_records"
}
