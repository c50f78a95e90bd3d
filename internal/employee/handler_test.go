package employee_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/payroll-management/internal/core/database"
	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/employee"
	employeePostgres "github.com/frahmantamala/payroll-management/internal/employee/postgres"
	"github.com/frahmantamala/payroll-management/internal/transport"
)

type employeeList struct {
	Data []employee.EmployeeResponse `json:"data"`
}

type employeeEnvelope struct {
	Message string                    `json:"message"`
	Data    employee.EmployeeResponse `json:"data"`
}

var _ = Describe("Employee Handler Integration", func() {
	var (
		db          *gorm.DB
		router      *chi.Mux
		engineering *departmentDatamodel.Department
		finance     *departmentDatamodel.Department
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	create := func(body string) employee.EmployeeResponse {
		w := do(http.MethodPost, "/employees", body)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		var resp employeeEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp.Data
	}

	list := func(path string) []employee.EmployeeResponse {
		w := do(http.MethodGet, path, "")
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		var resp employeeList
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp.Data
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(database.AutoMigrate(db)).To(Succeed())

		engineering = &departmentDatamodel.Department{Name: "Engineering"}
		finance = &departmentDatamodel.Department{Name: "Finance"}
		Expect(db.Create(engineering).Error).To(Succeed())
		Expect(db.Create(finance).Error).To(Succeed())

		service := employee.NewService(employeePostgres.NewEmployeeRepository(db), nil, slogger)
		handler := employee.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/employees", handler.ListEmployees)
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Put("/employees/{id}", handler.UpdateEmployee)
		router.Delete("/employees/{id}", handler.DeleteEmployee)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("should create an employee and render the response shape", func() {
		emp := create(`{"first_name":"Ava","last_name":"Lopez","email":"ava.lopez@example.com","base_rate":420,
			"department_id":` + itoa(engineering.ID) + `,"employment_type":"FULL_TIME","hire_date":"2022-03-14"}`)

		Expect(emp.ID).To(BeNumerically(">", 0))
		Expect(emp.FullName).To(Equal("Ava Lopez"))
		Expect(emp.BaseRate).To(Equal(420.0))
		Expect(*emp.Department).To(Equal("Engineering"))
		Expect(emp.HireDate).To(Equal("2022-03-14"))
	})

	It("should answer missing fields with 400 and MISSING_FIELDS", func() {
		w := do(http.MethodPost, "/employees", `{"first_name":"Ava"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("MISSING_FIELDS"))
		Expect(w.Body.String()).To(ContainSubstring("hire_date"))
	})

	It("should answer an unknown department with 404", func() {
		w := do(http.MethodPost, "/employees", `{"first_name":"Ava","last_name":"Lopez","email":"ava@example.com","base_rate":420,
			"department_id":999,"employment_type":"FULL_TIME","hire_date":"2022-03-14"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("DEPARTMENT_NOT_FOUND"))
	})

	It("should answer a case-variant duplicate email with 409", func() {
		body := `{"first_name":"Ava","last_name":"Lopez","email":"%s","base_rate":420,
			"department_id":` + itoa(engineering.ID) + `,"employment_type":"FULL_TIME","hire_date":"2022-03-14"}`
		create(strings.Replace(body, "%s", "ava@example.com", 1))

		w := do(http.MethodPost, "/employees", strings.Replace(body, "%s", "AVA@example.com", 1))
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("EMAIL_EXISTS"))
	})

	Describe("listing", func() {
		BeforeEach(func() {
			create(`{"first_name":"Ava","last_name":"Lopez","email":"ava.lopez@example.com","base_rate":420,
				"department_id":` + itoa(engineering.ID) + `,"employment_type":"FULL_TIME","hire_date":"2022-03-14"}`)
			create(`{"first_name":"Noah","last_name":"Garcia","email":"noah.garcia@example.com","base_rate":380,
				"department_id":` + itoa(finance.ID) + `,"employment_type":"FULL_TIME","hire_date":"2021-09-02"}`)
			create(`{"first_name":"Mia","last_name":"Santos","email":"mia_santos@example.com","base_rate":280,
				"department_id":` + itoa(finance.ID) + `,"employment_type":"PART_TIME","hire_date":"2023-01-05"}`)
		})

		It("should order by last name", func() {
			all := list("/employees")
			Expect(all).To(HaveLen(3))
			Expect(all[0].LastName).To(Equal("Garcia"))
			Expect(all[2].LastName).To(Equal("Santos"))
		})

		It("should filter by department", func() {
			Expect(list("/employees?department_id=" + itoa(finance.ID))).To(HaveLen(2))
		})

		It("should search full names case-insensitively", func() {
			found := list("/employees?q=NOAH%20GAR")
			Expect(found).To(HaveLen(1))
			Expect(found[0].Email).To(Equal("noah.garcia@example.com"))
		})

		It("should treat LIKE wildcards literally", func() {
			found := list("/employees?q=_santos")
			Expect(found).To(HaveLen(1))
			Expect(found[0].FirstName).To(Equal("Mia"))
		})

		It("should reject a non numeric department filter", func() {
			w := do(http.MethodGet, "/employees?department_id=abc", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("should update an employee and delete it with its payroll records", func() {
		emp := create(`{"first_name":"Ava","last_name":"Lopez","email":"ava.lopez@example.com","base_rate":420,
			"department_id":` + itoa(engineering.ID) + `,"employment_type":"FULL_TIME","hire_date":"2022-03-14"}`)
		path := "/employees/" + itoa(emp.ID)

		w := do(http.MethodPut, path, `{"base_rate":450,"employment_type":"contract"}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		var updated employeeEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Message).To(Equal("Employee updated"))
		Expect(updated.Data.BaseRate).To(Equal(450.0))
		Expect(updated.Data.EmploymentType).To(Equal("CONTRACT"))

		period := &payrollDatamodel.Period{
			Label:     "Week 48 - 2025",
			StartDate: time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
			Status:    payrollDatamodel.StatusOpen,
		}
		Expect(db.Create(period).Error).To(Succeed())
		Expect(db.Create(&payrollDatamodel.Record{
			EmployeeID:      emp.ID,
			PayrollPeriodID: period.ID,
			HoursWorked:     decimal.NewFromInt(40),
			GrossPay:        decimal.NewFromInt(18000),
			TaxAmount:       decimal.NewFromInt(3600),
			OtherDeductions: decimal.Zero,
			NetPay:          decimal.NewFromInt(14400),
		}).Error).To(Succeed())

		w = do(http.MethodDelete, path, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Employee removed"))

		var records int64
		Expect(db.Model(&payrollDatamodel.Record{}).Count(&records).Error).To(Succeed())
		Expect(records).To(BeZero())
		Expect(do(http.MethodGet, path, "").Code).To(Equal(http.StatusNotFound))
	})
})
