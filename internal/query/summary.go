package query

import (
	"context"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Summary is the dashboard card data.
type Summary struct {
	CustomerCount int64  `json:"customerCount"`
	TotalPaid     string `json:"totalPaid"`
	TotalPending  string `json:"totalPending"`
	TotalCosts    string `json:"totalCosts"`

	PaidMinor    int64           `json:"totalPaidMinor"`
	PendingMinor int64           `json:"totalPendingMinor"`
	Costs        decimal.Decimal `json:"totalCostsAmount"`
}

type statusTotals struct {
	Paid    int64
	Pending int64
}

type costTotal struct {
	Total decimal.Decimal
}

// CardData runs the customer count, the invoice status sums and the cost sum
// concurrently; they read disjoint tables and have no ordering dependency.
func (s *Service) CardData(ctx context.Context) (*Summary, error) {
	var (
		customers int64
		totals    statusTotals
		costs     costTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.WithContext(gctx).Model(&models.Customer{}).Count(&customers).Error; err != nil {
			return wrap("customer count", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.db.WithContext(gctx).Table("invoices").
			Select(`CAST(COALESCE(SUM(CASE WHEN status = ? THEN amount * quantity ELSE 0 END), 0) AS BIGINT) AS paid,
				CAST(COALESCE(SUM(CASE WHEN status = ? THEN amount * quantity ELSE 0 END), 0) AS BIGINT) AS pending`,
				string(models.InvoiceStatusPaid), string(models.InvoiceStatusPending)).
			Scan(&totals).Error
		if err != nil {
			return wrap("invoice totals", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.db.WithContext(gctx).Table("costs").
			Select("COALESCE(SUM(amount), 0) AS total").
			Scan(&costs).Error
		if err != nil {
			return wrap("cost total", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Summary{
		CustomerCount: customers,
		TotalPaid:     money.FormatMinor(totals.Paid),
		TotalPending:  money.FormatMinor(totals.Pending),
		TotalCosts:    money.FormatMajor(costs.Total),
		PaidMinor:     totals.Paid,
		PendingMinor:  totals.Pending,
		Costs:         costs.Total,
	}, nil
}
