package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
)

type PeriodStatus string

const (
	StatusOpen      PeriodStatus = payrollDatamodel.StatusOpen
	StatusProcessed PeriodStatus = "PROCESSED"
	StatusPaid      PeriodStatus = "PAID"
)

// statuses are listed in lifecycle order
var periodStatuses = []PeriodStatus{StatusOpen, StatusProcessed, StatusPaid}

func ParsePeriodStatus(s string) (PeriodStatus, *internal.AppError) {
	candidate := PeriodStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range periodStatuses {
		if candidate == st {
			return st, nil
		}
	}
	names := make([]string, len(periodStatuses))
	for i, st := range periodStatuses {
		names[i] = string(st)
	}
	return "", internal.NewValidationFieldError("status",
		fmt.Sprintf("status must be one of %s", strings.Join(names, ", ")),
		internal.ErrCodeInvalidPeriodStatus)
}

func (s PeriodStatus) rank() int {
	for i, st := range periodStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo allows staying put or moving forward through OPEN, PROCESSED, PAID.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to >= from
}

type Period struct {
	ID        int64        `json:"id"`
	Label     string       `json:"label"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    PeriodStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewPeriod builds an OPEN period, rejecting an end date before the start.
func NewPeriod(label string, start, end time.Time) (*Period, *internal.AppError) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, internal.NewValidationFieldError("period_label", "period_label is required", internal.ErrCodeMissingFields)
	}
	if end.Before(start) {
		return nil, internal.NewValidationFieldError("period_end", "End date must be after start date", internal.ErrCodeInvalidDate)
	}
	return &Period{
		Label:     label,
		StartDate: start,
		EndDate:   end,
		Status:    StatusOpen,
	}, nil
}

func (p *Period) ToResponse() PeriodResponse {
	return PeriodResponse{
		ID:        p.ID,
		Label:     p.Label,
		StartDate: p.StartDate.Format(validation.DateLayout),
		EndDate:   p.EndDate.Format(validation.DateLayout),
		Status:    string(p.Status),
	}
}

func PeriodToDataModel(p *Period) *payrollDatamodel.Period {
	return &payrollDatamodel.Period{
		ID:        p.ID,
		Label:     p.Label,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func PeriodFromDataModel(p *payrollDatamodel.Period) *Period {
	return &Period{
		ID:        p.ID,
		Label:     p.Label,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    PeriodStatus(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
