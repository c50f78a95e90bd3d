package payroll

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/core/events"
)

const SummaryCacheKey = "payroll:summary"

type RepositoryAPI interface {
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI) error) error
	GetEmployeeByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	// GetOrCreatePeriod fills period with the stored row for its label and reports whether it was inserted.
	GetOrCreatePeriod(ctx context.Context, period *payrollDatamodel.Period) (bool, error)
	CreateRecord(ctx context.Context, record *payrollDatamodel.Record) error
	GetRecordByID(ctx context.Context, id int64) (*payrollDatamodel.Record, error)
	GetRecords(ctx context.Context, filter RecordFilter) ([]*payrollDatamodel.Record, error)
	GetPeriods(ctx context.Context) ([]*payrollDatamodel.Period, error)
	GetPeriodByID(ctx context.Context, id int64) (*payrollDatamodel.Period, error)
	UpdatePeriodStatus(ctx context.Context, id int64, status string) error
	DeletePeriodRecords(ctx context.Context, periodID int64) (int64, error)
	DeletePeriod(ctx context.Context, id int64) error
}

type SummaryRepositoryAPI interface {
	GetSummary(ctx context.Context) (*Summary, error)
}

// SummaryCache stores JSON snapshots. A miss is (false, nil). SetJSONAt skips the
// write when the cache was invalidated after Version was read.
type SummaryCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	Version(ctx context.Context) (int64, error)
	SetJSONAt(ctx context.Context, key string, value interface{}, version int64) (bool, error)
}

type Service struct {
	repo      RepositoryAPI
	summaries SummaryRepositoryAPI
	cache     SummaryCache
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, summaries SummaryRepositoryAPI, cache SummaryCache, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		summaries: summaries,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateRecord validates the entry, resolves the employee and period, computes pay
// and stores the record. Period creation and record insert share one transaction.
func (s *Service) CreateRecord(ctx context.Context, dto CreateRecordDTO) (*Record, error) {
	period, appErr := dto.Period()
	if appErr != nil {
		return nil, appErr
	}

	var (
		created       *Record
		periodCreated bool
	)
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		emp, err := repo.GetEmployeeByID(ctx, *dto.EmployeeID)
		if err != nil {
			return internal.NewInternalError("failed to get employee", err)
		}
		if emp == nil {
			return internal.ErrEmployeeNotFound
		}

		rate := EffectiveRate(dto.HourlyRate, emp.BaseRate)
		breakdown, err := Calculate(*dto.HoursWorked, rate, *dto.TaxRate, dto.Deductions())
		if err != nil {
			return err
		}

		periodRow := PeriodToDataModel(period)
		if periodCreated, err = repo.GetOrCreatePeriod(ctx, periodRow); err != nil {
			return internal.NewInternalError("failed to resolve payroll period", err)
		}

		row := RecordToDataModel(NewRecord(emp.ID, periodRow.ID, breakdown, dto.Notes))
		if err := repo.CreateRecord(ctx, row); err != nil {
			if database.IsDuplicateKey(err) {
				return internal.ErrRecordExists.WithCause(err)
			}
			return internal.NewInternalError("failed to create payroll record", err)
		}

		saved, err := repo.GetRecordByID(ctx, row.ID)
		if err != nil {
			return internal.NewInternalError("failed to reload payroll record", err)
		}
		created = RecordFromDataModel(saved)
		return nil
	})
	if err != nil {
		s.logFailure("create payroll record", "employee_id", *dto.EmployeeID, err)
		return nil, err
	}

	s.logger.Info("payroll record created",
		"record_id", created.ID,
		"employee_id", created.EmployeeID,
		"payroll_period_id", created.PeriodID,
		"period_created", periodCreated,
		"net_pay", created.NetPay.StringFixed(currencyPlaces))
	s.publish(ctx, events.NewPayrollRecordCreatedEvent(created.ID, created.EmployeeID, created.PeriodID, periodCreated, created.NetPay.String()))
	return created, nil
}

// ListRecords returns newest records first, optionally narrowed by employee or period.
func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) ([]*Record, error) {
	rows, err := s.repo.GetRecords(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list payroll records", "error", err)
		return nil, internal.NewInternalError("failed to list payroll records", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, RecordFromDataModel(row))
	}
	return records, nil
}

func (s *Service) GetRecord(ctx context.Context, id int64) (*Record, error) {
	row, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get payroll record", "record_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get payroll record", err)
	}
	if row == nil {
		return nil, internal.ErrRecordNotFound
	}
	return RecordFromDataModel(row), nil
}

func (s *Service) ListPeriods(ctx context.Context) ([]*Period, error) {
	rows, err := s.repo.GetPeriods(ctx)
	if err != nil {
		s.logger.Error("failed to list payroll periods", "error", err)
		return nil, internal.NewInternalError("failed to list payroll periods", err)
	}

	periods := make([]*Period, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, PeriodFromDataModel(row))
	}
	return periods, nil
}

// UpdatePeriodStatus moves a period forward. Setting the current status again is a no-op.
func (s *Service) UpdatePeriodStatus(ctx context.Context, id int64, dto UpdatePeriodStatusDTO) (*Period, error) {
	if dto.Status == nil {
		return nil, internal.NewMissingFieldsError([]string{"status"})
	}
	next, appErr := ParsePeriodStatus(*dto.Status)
	if appErr != nil {
		return nil, appErr
	}

	var (
		updated *Period
		changed bool
	)
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetPeriodByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to get payroll period", err)
		}
		if row == nil {
			return internal.ErrPeriodNotFound
		}

		period := PeriodFromDataModel(row)
		if !period.Status.CanTransitionTo(next) {
			return internal.NewValidationFieldError("status",
				"cannot move period from "+string(period.Status)+" to "+string(next),
				internal.ErrCodeInvalidStatusTransition)
		}
		if period.Status == next {
			updated = period
			return nil
		}

		if err := repo.UpdatePeriodStatus(ctx, id, string(next)); err != nil {
			return internal.NewInternalError("failed to update payroll period", err)
		}
		reloaded, err := repo.GetPeriodByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to reload payroll period", err)
		}
		updated = PeriodFromDataModel(reloaded)
		changed = true
		return nil
	})
	if err != nil {
		s.logFailure("update payroll period status", "payroll_period_id", id, err)
		return nil, err
	}

	if changed {
		s.logger.Info("payroll period status updated", "payroll_period_id", id, "status", updated.Status)
		s.publish(ctx, events.NewPeriodChangedEvent(id, events.ActionUpdated))
	}
	return updated, nil
}

// DeletePeriod removes the period's records before the period itself.
func (s *Service) DeletePeriod(ctx context.Context, id int64) error {
	var records int64
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI) error {
		row, err := repo.GetPeriodByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to get payroll period", err)
		}
		if row == nil {
			return internal.ErrPeriodNotFound
		}

		if records, err = repo.DeletePeriodRecords(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete payroll records", err)
		}
		if err := repo.DeletePeriod(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete payroll period", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete payroll period", "payroll_period_id", id, err)
		return err
	}

	s.logger.Info("payroll period deleted", "payroll_period_id", id, "records_deleted", records)
	s.publish(ctx, events.NewPeriodChangedEvent(id, events.ActionDeleted))
	return nil
}

// Summary serves the aggregate from cache when one is configured. Cache failures only cost a query.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		var cached Summary
		hit, err := s.cache.GetJSON(ctx, SummaryCacheKey, &cached)
		if err != nil {
			s.logger.Warn("summary cache read failed", "error", err)
		} else if hit {
			return &cached, nil
		}
		// read before the aggregates so a write committed meanwhile keeps this snapshot out
		if version, err = s.cache.Version(ctx); err != nil {
			s.logger.Warn("summary cache version read failed", "error", err)
		} else {
			cacheable = true
		}
	}

	summary, err := s.summaries.GetSummary(ctx)
	if err != nil {
		s.logger.Error("failed to compute payroll summary", "error", err)
		return nil, internal.NewInternalError("failed to compute payroll summary", err)
	}

	if cacheable {
		stored, err := s.cache.SetJSONAt(ctx, SummaryCacheKey, summary, version)
		switch {
		case err != nil:
			s.logger.Warn("summary cache write failed", "error", err)
		case !stored:
			s.logger.Debug("summary changed while computing, not cached")
		}
	}
	return summary, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func (s *Service) logFailure(op, idKey string, id int64, err error) {
	if internal.IsType(err, internal.ErrorTypeInternal) {
		s.logger.Error("failed to "+op, idKey, id, "error", err)
		return
	}
	s.logger.Warn("could not "+op, idKey, id, "error", err)
}
