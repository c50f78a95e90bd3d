package department_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal"
	departmentDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/department"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/department"
)

func TestDepartment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Suite")
}

// MockRepository implements department.RepositoryAPI for testing
type MockRepository struct {
	departments map[int64]*departmentDatamodel.DepartmentWithCount
	nextID      int64
	failErr     error
	deleted     []string
}

func NewMockRepository() *MockRepository {
	return &MockRepository{departments: make(map[int64]*departmentDatamodel.DepartmentWithCount)}
}

func (m *MockRepository) WithinTransaction(ctx context.Context, fn func(repo department.RepositoryAPI) error) error {
	return fn(m)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]*departmentDatamodel.DepartmentWithCount, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []*departmentDatamodel.DepartmentWithCount
	for _, d := range m.departments {
		out = append(out, d)
	}
	return out, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.DepartmentWithCount, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	d, ok := m.departments[id]
	if !ok {
		return nil, nil
	}
	out := *d
	return &out, nil
}

func (m *MockRepository) nameTaken(name string, except int64) bool {
	for id, d := range m.departments {
		if id != except && strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

func (m *MockRepository) Create(ctx context.Context, dept *departmentDatamodel.Department) error {
	if m.nameTaken(dept.Name, 0) {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	dept.ID = m.nextID
	m.departments[dept.ID] = &departmentDatamodel.DepartmentWithCount{Department: *dept}
	return nil
}

func (m *MockRepository) Update(ctx context.Context, dept *departmentDatamodel.Department) error {
	if m.nameTaken(dept.Name, dept.ID) {
		return gorm.ErrDuplicatedKey
	}
	m.departments[dept.ID].Department = *dept
	return nil
}

func (m *MockRepository) DeletePayrollRecords(ctx context.Context, departmentID int64) (int64, error) {
	m.deleted = append(m.deleted, "records")
	return 0, nil
}

func (m *MockRepository) DeleteEmployees(ctx context.Context, departmentID int64) (int64, error) {
	m.deleted = append(m.deleted, "employees")
	return m.departments[departmentID].EmployeeCount, nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, "department")
	delete(m.departments, id)
	return nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) PublishSync(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func strPtr(s string) *string {
	return &s
}

var _ = Describe("Department Service", func() {
	var (
		ctx       context.Context
		mockRepo  *MockRepository
		publisher *recordingPublisher
		service   *department.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = department.NewService(mockRepo, publisher, logger)
	})

	Describe("Create", func() {
		It("should trim the name and store a blank description as null", func() {
			dept, err := service.Create(ctx, department.CreateDepartmentDTO{Name: "  Finance ", Description: strPtr("   ")})
			Expect(err).NotTo(HaveOccurred())
			Expect(dept.ID).To(Equal(int64(1)))
			Expect(dept.Name).To(Equal("Finance"))
			Expect(dept.Description).To(BeNil())
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeDepartmentChanged))
		})

		It("should require a name", func() {
			_, err := service.Create(ctx, department.CreateDepartmentDTO{Name: " "})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingFields))
			Expect(publisher.events).To(BeEmpty())
		})

		It("should reject names over 100 characters", func() {
			_, err := service.Create(ctx, department.CreateDepartmentDTO{Name: strings.Repeat("x", 101)})
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should report a duplicate name as a conflict", func() {
			_, err := service.Create(ctx, department.CreateDepartmentDTO{Name: "Finance"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, department.CreateDepartmentDTO{Name: "Finance"})
			Expect(errors.Is(err, internal.ErrDepartmentExists)).To(BeTrue())
		})
	})

	Describe("Get", func() {
		It("should return not found for an unknown id", func() {
			_, err := service.Get(ctx, 12)
			Expect(errors.Is(err, internal.ErrDepartmentNotFound)).To(BeTrue())
		})

		It("should wrap repository failures", func() {
			mockRepo.failErr = errors.New("database error")
			_, err := service.Get(ctx, 1)
			Expect(internal.IsType(err, internal.ErrorTypeInternal)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("database error"))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, department.CreateDepartmentDTO{Name: "Finance", Description: strPtr("Budgeting")})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, department.CreateDepartmentDTO{Name: "Engineering"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should only change the fields that are present", func() {
			dept, err := service.Update(ctx, 1, department.UpdateDepartmentDTO{Name: strPtr("Finance & Ops")})
			Expect(err).NotTo(HaveOccurred())
			Expect(dept.Name).To(Equal("Finance & Ops"))
			Expect(*dept.Description).To(Equal("Budgeting"))
		})

		It("should refuse to take another department's name", func() {
			_, err := service.Update(ctx, 1, department.UpdateDepartmentDTO{Name: strPtr("Engineering")})
			Expect(errors.Is(err, internal.ErrDepartmentExists)).To(BeTrue())
		})

		It("should reject a blank name", func() {
			_, err := service.Update(ctx, 1, department.UpdateDepartmentDTO{Name: strPtr("")})
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should return not found for an unknown id", func() {
			_, err := service.Update(ctx, 99, department.UpdateDepartmentDTO{Name: strPtr("HR")})
			Expect(errors.Is(err, internal.ErrDepartmentNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should remove records, then employees, then the department", func() {
			_, err := service.Create(ctx, department.CreateDepartmentDTO{Name: "Finance"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, 1)).To(Succeed())
			Expect(mockRepo.deleted).To(Equal([]string{"records", "employees", "department"}))
			Expect(mockRepo.departments).To(BeEmpty())
		})

		It("should return not found for an unknown id", func() {
			err := service.Delete(ctx, 5)
			Expect(errors.Is(err, internal.ErrDepartmentNotFound)).To(BeTrue())
			Expect(mockRepo.deleted).To(BeEmpty())
		})
	})
})
