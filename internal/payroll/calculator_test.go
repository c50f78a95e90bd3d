package payroll_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/payroll"
)

var _ = Describe("Calculate", func() {
	d := decimal.RequireFromString

	DescribeTable("pay breakdown",
		func(hours, rate, tax, deductions, gross, taxAmount, net string) {
			b, err := payroll.Calculate(d(hours), d(rate), d(tax), d(deductions))
			Expect(err).NotTo(HaveOccurred())
			Expect(b.GrossPay.Equal(d(gross))).To(BeTrue(), "gross %s", b.GrossPay)
			Expect(b.TaxAmount.Equal(d(taxAmount))).To(BeTrue(), "tax %s", b.TaxAmount)
			Expect(b.NetPay.Equal(d(net))).To(BeTrue(), "net %s", b.NetPay)
		},
		Entry("full week with allowance", "40", "420", "0.2", "500", "16800", "3360", "12940"),
		Entry("short week", "38", "380", "0.2", "300", "14440", "2888", "11252"),
		Entry("no tax", "10", "100", "0", "0", "1000", "0", "1000"),
		Entry("fractional hours round before pay", "7.333", "15.5", "0.15", "0", "113.62", "17.04", "96.58"),
		Entry("tax rounds half away from zero", "1", "0.05", "0.5", "0", "0.05", "0.03", "0.02"),
		Entry("full tax", "8", "50", "1", "0", "400", "400", "0"),
	)

	It("should keep net equal to gross minus tax minus deductions", func() {
		b, err := payroll.Calculate(d("37.75"), d("312.40"), d("0.235"), d("125.555"))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.NetPay.Equal(b.GrossPay.Sub(b.TaxAmount).Sub(b.OtherDeductions))).To(BeTrue())
		Expect(b.OtherDeductions.Equal(d("125.56"))).To(BeTrue())
	})

	It("should compute gross from the hours it returns", func() {
		b, err := payroll.Calculate(d("7.333"), d("15.5"), d("0.15"), d("0"))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.HoursWorked.Equal(d("7.33"))).To(BeTrue(), "hours %s", b.HoursWorked)
		Expect(b.GrossPay.Equal(b.HoursWorked.Mul(d("15.5")).Round(2))).To(BeTrue())
	})

	It("should allow deductions larger than the taxed pay", func() {
		b, err := payroll.Calculate(d("1"), d("100"), d("0.2"), d("150"))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.NetPay.Equal(d("-70"))).To(BeTrue())
	})

	DescribeTable("invalid input",
		func(hours, rate, tax, deductions string, code internal.ErrorCode) {
			_, err := payroll.Calculate(d(hours), d(rate), d(tax), d(deductions))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(code))
		},
		Entry("zero hours", "0", "420", "0.2", "0", internal.ErrCodeInvalidHours),
		Entry("negative hours", "-1", "420", "0.2", "0", internal.ErrCodeInvalidHours),
		Entry("hours rounding to zero", "0.004", "420", "0.2", "0", internal.ErrCodeInvalidHours),
		Entry("negative tax", "40", "420", "-0.1", "0", internal.ErrCodeInvalidTaxRate),
		Entry("tax above one", "40", "420", "1.01", "0", internal.ErrCodeInvalidTaxRate),
		Entry("zero rate", "40", "0", "0.2", "0", internal.ErrCodeInvalidRate),
		Entry("negative deductions", "40", "420", "0.2", "-5", internal.ErrCodeInvalidDeductions),
	)

	It("should report every invalid field together", func() {
		_, err := payroll.Calculate(d("0"), d("0"), d("2"), d("0"))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		Expect(appErr.Details.(internal.ValidationErrors).Errors).To(HaveLen(3))
	})
})

var _ = Describe("EffectiveRate", func() {
	base := decimal.NewFromInt(420)

	It("should use the base rate without an override", func() {
		Expect(payroll.EffectiveRate(nil, base).Equal(base)).To(BeTrue())
	})

	It("should prefer a positive override", func() {
		override := decimal.NewFromInt(500)
		Expect(payroll.EffectiveRate(&override, base).Equal(override)).To(BeTrue())
	})

	It("should ignore zero and negative overrides", func() {
		zero := decimal.Zero
		negative := decimal.NewFromInt(-10)
		Expect(payroll.EffectiveRate(&zero, base).Equal(base)).To(BeTrue())
		Expect(payroll.EffectiveRate(&negative, base).Equal(base)).To(BeTrue())
	})
})
