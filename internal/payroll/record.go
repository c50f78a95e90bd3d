package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/employee"
)

// Record is append-only; its amounts are computed once at creation.
type Record struct {
	ID              int64
	EmployeeID      int64
	PeriodID        int64
	HoursWorked     decimal.Decimal
	GrossPay        decimal.Decimal
	TaxAmount       decimal.Decimal
	OtherDeductions decimal.Decimal
	NetPay          decimal.Decimal
	Notes           *string
	Employee        *employee.Employee
	Period          *Period
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewRecord(employeeID, periodID int64, b Breakdown, notes *string) *Record {
	now := time.Now()
	return &Record{
		EmployeeID:      employeeID,
		PeriodID:        periodID,
		HoursWorked:     b.HoursWorked,
		GrossPay:        b.GrossPay,
		TaxAmount:       b.TaxAmount,
		OtherDeductions: b.OtherDeductions,
		NetPay:          b.NetPay,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (r *Record) ToResponse() RecordResponse {
	resp := RecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		PeriodID:        r.PeriodID,
		HoursWorked:     r.HoursWorked.InexactFloat64(),
		GrossPay:        r.GrossPay.InexactFloat64(),
		TaxAmount:       r.TaxAmount.InexactFloat64(),
		OtherDeductions: r.OtherDeductions.InexactFloat64(),
		NetPay:          r.NetPay.InexactFloat64(),
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Employee != nil {
		e := r.Employee.ToResponse()
		resp.Employee = &e
	}
	if r.Period != nil {
		p := r.Period.ToResponse()
		resp.Period = &p
	}
	return resp
}

func RecordToDataModel(r *Record) *payrollDatamodel.Record {
	return &payrollDatamodel.Record{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		PayrollPeriodID: r.PeriodID,
		HoursWorked:     r.HoursWorked,
		GrossPay:        r.GrossPay,
		TaxAmount:       r.TaxAmount,
		OtherDeductions: r.OtherDeductions,
		NetPay:          r.NetPay,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func RecordFromDataModel(r *payrollDatamodel.Record) *Record {
	out := &Record{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		PeriodID:        r.PayrollPeriodID,
		HoursWorked:     r.HoursWorked,
		GrossPay:        r.GrossPay,
		TaxAmount:       r.TaxAmount,
		OtherDeductions: r.OtherDeductions,
		NetPay:          r.NetPay,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Employee != nil {
		out.Employee = employee.FromDataModel(r.Employee)
	}
	if r.Period != nil {
		out.Period = PeriodFromDataModel(r.Period)
	}
	return out
}

// Summary is the dashboard aggregate over the whole data set.
type Summary struct {
	TotalEmployees   int64           `json:"total_employees"`
	TotalDepartments int64           `json:"total_departments"`
	TotalNetPay      decimal.Decimal `json:"total_net_pay"`
	Periods          int64           `json:"periods"`
}

func (s *Summary) ToResponse() SummaryResponse {
	return SummaryResponse{
		TotalEmployees:   s.TotalEmployees,
		TotalDepartments: s.TotalDepartments,
		TotalNetPay:      s.TotalNetPay.InexactFloat64(),
		Periods:          s.Periods,
	}
}
