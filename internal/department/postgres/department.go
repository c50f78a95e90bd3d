package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal/department"
	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
)

const selectWithCount = "departments.*, (SELECT COUNT(*) FROM employees WHERE employees.department_id = departments.id) AS employee_count"

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) WithinTransaction(ctx context.Context, fn func(repo department.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DepartmentRepository{db: tx})
	})
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*departmentDatamodel.DepartmentWithCount, error) {
	var rows []*departmentDatamodel.DepartmentWithCount
	err := r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Select(selectWithCount).
		Order("departments.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.DepartmentWithCount, error) {
	var rows []*departmentDatamodel.DepartmentWithCount
	err := r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Select(selectWithCount).
		Where("departments.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{ID: dept.ID}).
		Select("name", "description", "updated_at").
		Updates(dept).Error
}

func (r *DepartmentRepository) DeletePayrollRecords(ctx context.Context, departmentID int64) (int64, error) {
	employeeIDs := r.db.Model(&employeeDatamodel.Employee{}).Select("id").Where("department_id = ?", departmentID)
	res := r.db.WithContext(ctx).
		Where("employee_id IN (?)", employeeIDs).
		Delete(&payrollDatamodel.Record{})
	return res.RowsAffected, res.Error
}

func (r *DepartmentRepository) DeleteEmployees(ctx context.Context, departmentID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Delete(&employeeDatamodel.Employee{})
	return res.RowsAffected, res.Error
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&departmentDatamodel.Department{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
