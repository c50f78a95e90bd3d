package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/payroll"
)

type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) payroll.RepositoryAPI {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) WithinTransaction(ctx context.Context, fn func(repo payroll.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PayrollRepository{db: tx})
	})
}

func (r *PayrollRepository) GetEmployeeByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

// GetOrCreatePeriod inserts with ON CONFLICT (label) DO NOTHING, then reads the
// winning row back, so concurrent creators of one label share a single period.
func (r *PayrollRepository) GetOrCreatePeriod(ctx context.Context, period *payrollDatamodel.Period) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "label"}},
			DoNothing: true,
		}).
		Create(period)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 && period.ID != 0 {
		return true, nil
	}

	var existing payrollDatamodel.Period
	if err := r.db.WithContext(ctx).Where("label = ?", period.Label).First(&existing).Error; err != nil {
		return false, err
	}
	*period = existing
	return false, nil
}

func (r *PayrollRepository) CreateRecord(ctx context.Context, record *payrollDatamodel.Record) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *PayrollRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Department").
		Preload("Period")
}

func (r *PayrollRepository) GetRecordByID(ctx context.Context, id int64) (*payrollDatamodel.Record, error) {
	var rec payrollDatamodel.Record
	err := r.withAssociations(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PayrollRepository) GetRecords(ctx context.Context, filter payroll.RecordFilter) ([]*payrollDatamodel.Record, error) {
	query := r.withAssociations(ctx).Order("created_at DESC, id DESC")
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.PeriodID != nil {
		query = query.Where("payroll_period_id = ?", *filter.PeriodID)
	}

	var records []*payrollDatamodel.Record
	err := query.Find(&records).Error
	return records, err
}

func (r *PayrollRepository) GetPeriods(ctx context.Context) ([]*payrollDatamodel.Period, error) {
	var periods []*payrollDatamodel.Period
	err := r.db.WithContext(ctx).Order("start_date DESC, id DESC").Find(&periods).Error
	return periods, err
}

func (r *PayrollRepository) GetPeriodByID(ctx context.Context, id int64) (*payrollDatamodel.Period, error) {
	var period payrollDatamodel.Period
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&period).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

func (r *PayrollRepository) UpdatePeriodStatus(ctx context.Context, id int64, status string) error {
	res := r.db.WithContext(ctx).
		Model(&payrollDatamodel.Period{ID: id}).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PayrollRepository) DeletePeriodRecords(ctx context.Context, periodID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("payroll_period_id = ?", periodID).
		Delete(&payrollDatamodel.Record{})
	return res.RowsAffected, res.Error
}

func (r *PayrollRepository) DeletePeriod(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&payrollDatamodel.Period{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
