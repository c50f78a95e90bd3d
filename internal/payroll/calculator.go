package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

// Amounts are kept to cents and hours to hundredths, matching the column scale.
const (
	currencyPlaces = 2
	hoursPlaces    = 2
)

var (
	minTaxRate = decimal.Zero
	maxTaxRate = decimal.NewFromInt(1)
)

type Breakdown struct {
	HoursWorked     decimal.Decimal
	GrossPay        decimal.Decimal
	TaxAmount       decimal.Decimal
	OtherDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// Calculate derives gross, tax and net pay. Hours are rounded before validation
// and gross is taken from the rounded hours, so gross = hours x rate and
// net = gross - tax - deductions both hold on the stored values.
func Calculate(hours, rate, taxRate, deductions decimal.Decimal) (Breakdown, error) {
	hours = RoundHours(hours)

	v := validation.NewValidator()
	v.Field("hours_worked", hours).Positive(internal.ErrCodeInvalidHours)
	v.Field("tax_rate", taxRate).Between(minTaxRate, maxTaxRate, internal.ErrCodeInvalidTaxRate)
	v.Field("hourly_rate", rate).Positive(internal.ErrCodeInvalidRate)
	v.Field("other_deductions", deductions).NonNegative(internal.ErrCodeInvalidDeductions)
	if err := v.Validate(); err != nil {
		return Breakdown{}, err
	}

	gross := hours.Mul(rate).Round(currencyPlaces)
	tax := gross.Mul(taxRate).Round(currencyPlaces)
	deductions = deductions.Round(currencyPlaces)

	return Breakdown{
		HoursWorked:     hours,
		GrossPay:        gross,
		TaxAmount:       tax,
		OtherDeductions: deductions,
		NetPay:          gross.Sub(tax).Sub(deductions),
	}, nil
}

func RoundHours(hours decimal.Decimal) decimal.Decimal {
	return hours.Round(hoursPlaces)
}

// EffectiveRate prefers a positive override and falls back to the base rate.
func EffectiveRate(override *decimal.Decimal, base decimal.Decimal) decimal.Decimal {
	if override != nil && override.IsPositive() {
		return *override
	}
	return base
}
