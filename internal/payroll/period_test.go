package payroll_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/payroll"
)

var _ = Describe("Period", func() {
	start := time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

	Describe("NewPeriod", func() {
		It("should open a trimmed period", func() {
			p, err := payroll.NewPeriod("  Week 48 - 2025 ", start, end)
			Expect(err).To(BeNil())
			Expect(p.Label).To(Equal("Week 48 - 2025"))
			Expect(p.Status).To(Equal(payroll.StatusOpen))
		})

		It("should accept a single day period", func() {
			_, err := payroll.NewPeriod("Payday", start, start)
			Expect(err).To(BeNil())
		})

		It("should reject an end before the start", func() {
			_, err := payroll.NewPeriod("Week 48 - 2025", end, start)
			Expect(err).NotTo(BeNil())
			Expect(err.Code).To(Equal(internal.ErrCodeInvalidDate))
		})

		It("should reject a blank label", func() {
			_, err := payroll.NewPeriod("   ", start, end)
			Expect(err).NotTo(BeNil())
			Expect(err.Code).To(Equal(internal.ErrCodeMissingFields))
		})
	})

	Describe("ToResponse", func() {
		It("should format dates as calendar days", func() {
			p, _ := payroll.NewPeriod("Week 48 - 2025", start, end)
			resp := p.ToResponse()
			Expect(resp.StartDate).To(Equal("2025-11-24"))
			Expect(resp.EndDate).To(Equal("2025-11-30"))
			Expect(resp.Status).To(Equal("OPEN"))
		})
	})

	Describe("ParsePeriodStatus", func() {
		It("should accept any casing", func() {
			st, err := payroll.ParsePeriodStatus(" paid ")
			Expect(err).To(BeNil())
			Expect(st).To(Equal(payroll.StatusPaid))
		})

		It("should reject unknown values", func() {
			_, err := payroll.ParsePeriodStatus("CLOSED")
			Expect(err).NotTo(BeNil())
			Expect(err.Code).To(Equal(internal.ErrCodeInvalidPeriodStatus))
		})
	})

	DescribeTable("CanTransitionTo",
		func(from, to payroll.PeriodStatus, allowed bool) {
			Expect(from.CanTransitionTo(to)).To(Equal(allowed))
		},
		Entry("open to processed", payroll.StatusOpen, payroll.StatusProcessed, true),
		Entry("processed to paid", payroll.StatusProcessed, payroll.StatusPaid, true),
		Entry("open to paid", payroll.StatusOpen, payroll.StatusPaid, true),
		Entry("same status", payroll.StatusProcessed, payroll.StatusProcessed, true),
		Entry("paid to open", payroll.StatusPaid, payroll.StatusOpen, false),
		Entry("processed to open", payroll.StatusProcessed, payroll.StatusOpen, false),
		Entry("unknown source", payroll.PeriodStatus("DRAFT"), payroll.StatusOpen, false),
	)
})
