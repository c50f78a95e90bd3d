package department_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/payroll-management/internal/core/database"
	"github.com/frahmantamala/payroll-management/internal/department"
	departmentPostgres "github.com/frahmantamala/payroll-management/internal/department/postgres"
	"github.com/frahmantamala/payroll-management/internal/transport"
)

type departmentEnvelope struct {
	Message string                        `json:"message"`
	Data    department.DepartmentResponse `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Department Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

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

		service := department.NewService(departmentPostgres.NewDepartmentRepository(db), nil, slogger)
		handler := department.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/departments", handler.ListDepartments)
		router.Post("/departments", handler.CreateDepartment)
		router.Get("/departments/{id}", handler.GetDepartment)
		router.Put("/departments/{id}", handler.UpdateDepartment)
		router.Delete("/departments/{id}", handler.DeleteDepartment)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create a department and return it in the data envelope", func() {
		w := do(http.MethodPost, "/departments", `{"name":"Finance","description":"Budgeting and reporting"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var resp departmentEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Message).To(Equal("Department created"))
		Expect(resp.Data.ID).To(BeNumerically(">", 0))
		Expect(resp.Data.Name).To(Equal("Finance"))
		Expect(resp.Data.EmployeeCount).To(Equal(int64(0)))
	})

	It("should answer a duplicate name with 409", func() {
		Expect(do(http.MethodPost, "/departments", `{"name":"Finance"}`).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPost, "/departments", `{"name":"Finance"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))

		var resp errorEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Error.Code).To(Equal("DEPARTMENT_EXISTS"))
		Expect(resp.Error.Type).To(Equal("CONFLICT"))
	})

	It("should reject a malformed body", func() {
		w := do(http.MethodPost, "/departments", `{"name":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var resp errorEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Error.Code).To(Equal("INVALID_BODY"))
	})

	It("should reject a non numeric id", func() {
		w := do(http.MethodGet, "/departments/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 for an unknown department", func() {
		w := do(http.MethodGet, "/departments/42", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should list departments alphabetically", func() {
		do(http.MethodPost, "/departments", `{"name":"Human Resources"}`)
		do(http.MethodPost, "/departments", `{"name":"Engineering"}`)

		w := do(http.MethodGet, "/departments", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp struct {
			Data []department.DepartmentResponse `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Data).To(HaveLen(2))
		Expect(resp.Data[0].Name).To(Equal("Engineering"))
	})

	It("should update and then remove a department", func() {
		do(http.MethodPost, "/departments", `{"name":"Finance"}`)

		w := do(http.MethodPut, "/departments/1", `{"description":"Budgeting"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp departmentEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Message).To(Equal("Department updated"))
		Expect(*resp.Data.Description).To(Equal("Budgeting"))
		Expect(resp.Data.Name).To(Equal("Finance"))

		w = do(http.MethodDelete, "/departments/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Department removed"))

		Expect(do(http.MethodGet, "/departments/1", "").Code).To(Equal(http.StatusNotFound))
	})
})
