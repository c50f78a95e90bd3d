package api_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-management/api"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		var err error
		doc, err = openapi3.NewLoader().LoadFromData(api.OpenAPISpec)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be valid", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	DescribeTable("documented routes",
		func(path, method string) {
			item := doc.Paths.Find(path)
			Expect(item).NotTo(BeNil(), path)
			Expect(item.GetOperation(method)).NotTo(BeNil(), method+" "+path)
		},
		Entry(nil, "/api/departments", "POST"),
		Entry(nil, "/api/departments/{id}", "DELETE"),
		Entry(nil, "/api/employees", "GET"),
		Entry(nil, "/api/employees/{id}", "PUT"),
		Entry(nil, "/api/payroll-records", "POST"),
		Entry(nil, "/api/payroll-records/{id}", "GET"),
		Entry(nil, "/api/payroll-periods/{id}/status", "PATCH"),
		Entry(nil, "/api/summary", "GET"),
		Entry(nil, "/health", "GET"),
	)
})
