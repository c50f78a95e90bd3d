package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/employee"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) WithinTransaction(ctx context.Context, fn func(repo employee.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&EmployeeRepository{db: tx})
	})
}

func (r *EmployeeRepository) GetAll(ctx context.Context, filter employee.ListFilter) ([]*employeeDatamodel.Employee, error) {
	query := r.db.WithContext(ctx).Preload("Department").Order("last_name ASC, id ASC")

	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		query = query.Where(
			`(LOWER(first_name || ' ' || last_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}

	var employees []*employeeDatamodel.Employee
	err := query.Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Preload("Department").Where("id = ?", id).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(emp).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, emp *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{ID: emp.ID}).
		Select("first_name", "last_name", "email", "base_rate", "department_id", "hire_date", "employment_type", "updated_at").
		Updates(emp).Error
}

func (r *EmployeeRepository) DeletePayrollRecords(ctx context.Context, employeeID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&payrollDatamodel.Record{})
	return res.RowsAffected, res.Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&employeeDatamodel.Employee{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
