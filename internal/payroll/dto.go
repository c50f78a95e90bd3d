package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
	"github.com/frahmantamala/payroll-management/internal/employee"
)

type CreateRecordDTO struct {
	EmployeeID      *int64           `json:"employee_id"`
	PeriodLabel     *string          `json:"period_label"`
	PeriodStart     *string          `json:"period_start"`
	PeriodEnd       *string          `json:"period_end"`
	HoursWorked     *decimal.Decimal `json:"hours_worked"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`
	OtherDeductions *decimal.Decimal `json:"other_deductions,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (dto CreateRecordDTO) MissingFields() []string {
	var missing []string
	if dto.EmployeeID == nil {
		missing = append(missing, "employee_id")
	}
	if dto.PeriodLabel == nil {
		missing = append(missing, "period_label")
	}
	if dto.PeriodStart == nil {
		missing = append(missing, "period_start")
	}
	if dto.PeriodEnd == nil {
		missing = append(missing, "period_end")
	}
	if dto.HoursWorked == nil {
		missing = append(missing, "hours_worked")
	}
	if dto.TaxRate == nil {
		missing = append(missing, "tax_rate")
	}
	return missing
}

// Deductions defaults to zero when omitted.
func (dto CreateRecordDTO) Deductions() decimal.Decimal {
	if dto.OtherDeductions == nil {
		return decimal.Zero
	}
	return *dto.OtherDeductions
}

// Period checks presence, dates and numeric ranges, in that order, and
// returns the period the record should be filed under if none exists yet.
func (dto CreateRecordDTO) Period() (*Period, *internal.AppError) {
	if missing := dto.MissingFields(); len(missing) > 0 {
		return nil, internal.NewMissingFieldsError(missing)
	}

	start, err := validation.ParseDate("period_start", *dto.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := validation.ParseDate("period_end", *dto.PeriodEnd)
	if err != nil {
		return nil, err
	}
	period, err := NewPeriod(*dto.PeriodLabel, start, end)
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator()
	v.Field("hours_worked", RoundHours(*dto.HoursWorked)).Positive(internal.ErrCodeInvalidHours)
	v.Field("tax_rate", dto.TaxRate).Between(decimal.Zero, maxTaxRate, internal.ErrCodeInvalidTaxRate)
	v.Field("other_deductions", dto.OtherDeductions).NonNegative(internal.ErrCodeInvalidDeductions)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return period, nil
}

type UpdatePeriodStatusDTO struct {
	Status *string `json:"status"`
}

type RecordFilter struct {
	EmployeeID *int64
	PeriodID   *int64
}

type PeriodResponse struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type RecordResponse struct {
	ID              int64                      `json:"id"`
	Employee        *employee.EmployeeResponse `json:"employee"`
	EmployeeID      int64                      `json:"employee_id"`
	PeriodID        int64                      `json:"payroll_period_id"`
	Period          *PeriodResponse            `json:"period"`
	HoursWorked     float64                    `json:"hours_worked"`
	GrossPay        float64                    `json:"gross_pay"`
	TaxAmount       float64                    `json:"tax_amount"`
	OtherDeductions float64                    `json:"other_deductions"`
	NetPay          float64                    `json:"net_pay"`
	Notes           *string                    `json:"notes"`
	CreatedAt       string                     `json:"created_at"`
}

// SummaryResponse keeps the camelCase keys the dashboard reads.
type SummaryResponse struct {
	TotalEmployees   int64   `json:"totalEmployees"`
	TotalDepartments int64   `json:"totalDepartments"`
	TotalNetPay      float64 `json:"totalNetPay"`
	Periods          int64   `json:"periods"`
}
