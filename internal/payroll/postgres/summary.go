package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/payroll-management/internal/payroll"
)

const (
	countEmployeesQuery   = `SELECT COUNT(*) FROM employees`
	countDepartmentsQuery = `SELECT COUNT(*) FROM departments`
	countPeriodsQuery     = `SELECT COUNT(*) FROM payroll_periods`
	sumNetPayQuery        = `SELECT COALESCE(SUM(net_pay), 0) FROM payroll_records`

	// sqlite sums NUMERIC columns as REAL, so the total is brought back to cents
	netPayPlaces = 2
)

// SummaryRepository runs the dashboard aggregates as plain SQL over the shared pool.
type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) payroll.SummaryRepositoryAPI {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) GetSummary(ctx context.Context) (*payroll.Summary, error) {
	var (
		summary payroll.Summary
		netPay  decimal.NullDecimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.get(gctx, &summary.TotalEmployees, countEmployeesQuery)
	})
	g.Go(func() error {
		return r.get(gctx, &summary.TotalDepartments, countDepartmentsQuery)
	})
	g.Go(func() error {
		return r.get(gctx, &summary.Periods, countPeriodsQuery)
	})
	g.Go(func() error {
		return r.get(gctx, &netPay, sumNetPayQuery)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.TotalNetPay = decimal.Zero
	if netPay.Valid {
		summary.TotalNetPay = netPay.Decimal.Round(netPayPlaces)
	}
	return &summary, nil
}

func (r *SummaryRepository) get(ctx context.Context, dest interface{}, query string) error {
	if err := r.db.GetContext(ctx, dest, query); err != nil {
		return fmt.Errorf("summary query %q: %w", query, err)
	}
	return nil
}
