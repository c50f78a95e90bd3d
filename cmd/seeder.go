package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal"
	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/department"
	"github.com/frahmantamala/payroll-management/internal/employee"
	"github.com/frahmantamala/payroll-management/internal/payroll"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.InitWithConfig(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
		svc, err := openServices(cfg, lg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer svc.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if clearData {
			if err := clearTables(ctx, svc.DB.Gorm); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		seeded, err := seedDemoData(ctx, svc)
		if err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		if seeded {
			fmt.Println("Database seeded with demo data.")
		} else {
			fmt.Println("Database already seeded.")
		}

		if fakeCount > 0 {
			created, err := seedFakeEmployees(ctx, svc, fakeCount)
			if err != nil {
				log.Fatalf("failed to seed fake employees: %v", err)
			}
			fmt.Printf("Seeded %d generated employees\n", created)
		}
	},
}

type demoEmployee struct {
	FirstName      string
	LastName       string
	Email          string
	BaseRate       int64
	Department     string
	EmploymentType employee.EmploymentType
	HireDate       string
}

type demoRecord struct {
	Email       string
	HoursWorked int64
	Deductions  int64
	Notes       string
}

const (
	demoPeriodLabel = "Week 48 - 2025"
	demoPeriodStart = "2025-11-24"
	demoPeriodEnd   = "2025-11-30"
	demoTaxRate     = "0.2"
)

var (
	demoDepartments = []department.CreateDepartmentDTO{
		{Name: "Finance", Description: strPtr("Budgeting and reporting")},
		{Name: "Human Resources", Description: strPtr("People operations")},
		{Name: "Engineering", Description: strPtr("Product development")},
	}

	demoEmployees = []demoEmployee{
		{"Ava", "Lopez", "ava.lopez@example.com", 420, "Engineering", employee.FullTime, "2022-03-14"},
		{"Noah", "Garcia", "noah.garcia@example.com", 380, "Finance", employee.FullTime, "2021-09-02"},
		{"Mia", "Santos", "mia.santos@example.com", 280, "Human Resources", employee.PartTime, "2023-01-05"},
	}

	demoRecords = []demoRecord{
		{"ava.lopez@example.com", 40, 500, "Includes gadget allowance"},
		{"noah.garcia@example.com", 38, 300, "Standard payout"},
	}
)

// seedDemoData loads the demo data set through the services. It does nothing when departments already exist.
func seedDemoData(ctx context.Context, svc *Services) (bool, error) {
	existing, err := svc.Departments.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	departmentIDs := make(map[string]int64, len(demoDepartments))
	for _, dto := range demoDepartments {
		dept, err := svc.Departments.Create(ctx, dto)
		if err != nil {
			return false, fmt.Errorf("department %s: %w", dto.Name, err)
		}
		departmentIDs[dept.Name] = dept.ID
	}

	employeeIDs := make(map[string]int64, len(demoEmployees))
	for _, e := range demoEmployees {
		rate := decimal.NewFromInt(e.BaseRate)
		deptID := departmentIDs[e.Department]
		emp, err := svc.Employees.Create(ctx, employee.CreateEmployeeDTO{
			FirstName:      strPtr(e.FirstName),
			LastName:       strPtr(e.LastName),
			Email:          strPtr(e.Email),
			BaseRate:       &rate,
			DepartmentID:   &deptID,
			EmploymentType: strPtr(string(e.EmploymentType)),
			HireDate:       strPtr(e.HireDate),
		})
		if err != nil {
			return false, fmt.Errorf("employee %s: %w", e.Email, err)
		}
		employeeIDs[emp.Email] = emp.ID
	}

	taxRate := decimal.RequireFromString(demoTaxRate)
	var periodID int64
	for _, r := range demoRecords {
		empID := employeeIDs[r.Email]
		hours := decimal.NewFromInt(r.HoursWorked)
		deductions := decimal.NewFromInt(r.Deductions)
		rec, err := svc.Payroll.CreateRecord(ctx, payroll.CreateRecordDTO{
			EmployeeID:      &empID,
			PeriodLabel:     strPtr(demoPeriodLabel),
			PeriodStart:     strPtr(demoPeriodStart),
			PeriodEnd:       strPtr(demoPeriodEnd),
			HoursWorked:     &hours,
			TaxRate:         &taxRate,
			OtherDeductions: &deductions,
			Notes:           strPtr(r.Notes),
		})
		if err != nil {
			return false, fmt.Errorf("payroll record for %s: %w", r.Email, err)
		}
		periodID = rec.PeriodID
	}

	status := string(payroll.StatusProcessed)
	if _, err := svc.Payroll.UpdatePeriodStatus(ctx, periodID, payroll.UpdatePeriodStatusDTO{Status: &status}); err != nil {
		return false, fmt.Errorf("mark %s processed: %w", demoPeriodLabel, err)
	}
	return true, nil
}

// seedFakeEmployees spreads n generated employees over the existing departments.
func seedFakeEmployees(ctx context.Context, svc *Services, n int) (int, error) {
	departments, err := svc.Departments.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(departments) == 0 {
		return 0, fmt.Errorf("no departments to attach employees to")
	}

	gofakeit.Seed(time.Now().UnixNano())
	types := []employee.EmploymentType{employee.FullTime, employee.PartTime, employee.Contract}
	hireFrom := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	created := 0
	for i := 0; i < n; i++ {
		first, last := gofakeit.FirstName(), gofakeit.LastName()
		email := fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), gofakeit.Number(1000, 9999))
		rate := decimal.NewFromInt(int64(gofakeit.Number(150, 600)))
		deptID := departments[i%len(departments)].ID
		empType := string(types[gofakeit.Number(0, len(types)-1)])
		hireDate := gofakeit.DateRange(hireFrom, time.Now()).Format("2006-01-02")

		_, err := svc.Employees.Create(ctx, employee.CreateEmployeeDTO{
			FirstName:      &first,
			LastName:       &last,
			Email:          &email,
			BaseRate:       &rate,
			DepartmentID:   &deptID,
			EmploymentType: &empType,
			HireDate:       &hireDate,
		})
		if err != nil {
			if internal.IsType(err, internal.ErrorTypeConflict) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

// clearTables deletes children before parents.
func clearTables(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&payrollDatamodel.Record{},
			&payrollDatamodel.Period{},
			&employeeDatamodel.Employee{},
			&departmentDatamodel.Department{},
		} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func strPtr(s string) *string {
	return &s
}
