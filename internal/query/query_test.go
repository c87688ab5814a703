package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	acme, linh models.Customer
	widget     models.Product
	gadget     models.Product
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		acme:   models.Customer{Name: "ACME Corp"},
		linh:   models.Customer{Name: "Linh"},
		widget: models.Product{Code: "W-1", Name: "Widget", Quantity: 5},
		gadget: models.Product{Code: "G-1", Name: "Gadget", Quantity: 2},
	}
	for _, rec := range []any{&f.acme, &f.linh, &f.widget, &f.gadget} {
		require.NoError(t, db.Create(rec).Error)
	}
	invoices := []models.Invoice{
		{CustomerID: f.acme.ID, ProductID: f.widget.ID, Quantity: 10, Amount: 1579, Status: models.InvoiceStatusPending, Date: "2022-12-06"},
		{CustomerID: f.acme.ID, ProductID: f.gadget.ID, Quantity: 2, Amount: 500, Status: models.InvoiceStatusPaid, Date: "2023-01-15"},
		{CustomerID: f.linh.ID, ProductID: f.widget.ID, Quantity: 1, Amount: 2000, Status: models.InvoiceStatusPaid, Date: "2023-03-01"},
	}
	for i := range invoices {
		require.NoError(t, db.Create(&invoices[i]).Error)
	}
	costs := []models.Cost{
		{Name: "Rent", Amount: decimal.RequireFromString("1200"), Date: "2023-02-01"},
		{Name: "Coffee", Amount: decimal.RequireFromString("45.5"), Date: "2023-02-03"},
	}
	for i := range costs {
		require.NoError(t, db.Create(&costs[i]).Error)
	}
	return f
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(1))
	assert.Equal(t, 1, TotalPages(10))
	assert.Equal(t, 2, TotalPages(11))
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 20, Offset(3))
	// not clamped: callers must pass page >= 1
	assert.Equal(t, -10, Offset(0))
}

func TestSearchPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%abc%`, searchPattern("ABC"))
	assert.Equal(t, `%50\%\_off%`, searchPattern("50%_off"))
}

func TestCustomersPaging(t *testing.T) {
	db := setupTestDB(t)
	svc := New(db)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, db.Create(&models.Customer{Name: fmt.Sprintf("Customer %02d", i)}).Error)
	}
	pages, err := svc.CustomerPages(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	first, err := svc.Customers(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "Customer 00", first[0].Name)

	second, err := svc.Customers(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Customer 11", second[1].Name)

	beyond, err := svc.Customers(ctx, "", 3)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	narrowed, err := svc.CustomerPages(ctx, "customer 1")
	require.NoError(t, err)
	assert.Equal(t, 1, narrowed)
	none, err := svc.CustomerPages(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, none)
}

func TestCustomersAggregates(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	require.NoError(t, db.Create(&models.Customer{Name: "Zed"}).Error)

	rows, err := New(db).Customers(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	acme := rows[0]
	assert.Equal(t, "ACME Corp", acme.Name)
	assert.Equal(t, int64(2), acme.TotalInvoices)
	assert.Equal(t, int64(15790), acme.PendingMinor)
	assert.Equal(t, "$157.90", acme.FormattedPending)
	assert.Equal(t, "$10.00", acme.FormattedPaid)

	zed := rows[2]
	assert.Equal(t, int64(0), zed.TotalInvoices)
	assert.Equal(t, "$0.00", zed.FormattedPending)
}

func TestCustomersSearchIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	rows, err := New(db).Customers(context.Background(), "acme", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACME Corp", rows[0].Name)

	rows, err = New(db).Customers(context.Background(), "%", 1)
	require.NoError(t, err)
	assert.Empty(t, rows, "wildcards in the query match literally")
}

func TestInvoicesListAndSearch(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	svc := New(db)
	ctx := context.Background()

	rows, err := svc.Invoices(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2023-03-01", rows[0].Date, "newest first")
	last := rows[2]
	assert.Equal(t, "ACME Corp", last.Name)
	assert.Equal(t, "Widget", last.ProductName)
	assert.Equal(t, "W-1", last.ProductCode)
	assert.Equal(t, int64(1579), last.Amount)
	assert.Equal(t, "$15.79", last.FormattedAmount)
	assert.Equal(t, "$157.90", last.FormattedTotal)
	assert.Equal(t, "Dec 6, 2022", last.FormattedDate)

	for q, want := range map[string]int{
		"PAID":    2,
		"pending": 1,
		"1579":    1,
		"2023-0":  2,
		"linh":    1,
		"nothing": 0,
	} {
		got, err := svc.Invoices(ctx, q, 1)
		require.NoError(t, err)
		assert.Len(t, got, want, "query %q", q)
		pages, err := svc.InvoicePages(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, TotalPages(int64(want)), pages, "pages for %q", q)
	}
}

func TestInvoicesByCustomer(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	svc := New(db)

	pending, err := svc.InvoicesByCustomer(context.Background(), f.acme.ID, models.InvoiceStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending", pending[0].Status)

	none, err := svc.InvoicesByCustomer(context.Background(), "missing", models.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLatestInvoices(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	for i := 1; i <= 4; i++ {
		require.NoError(t, db.Create(&models.Invoice{
			CustomerID: f.linh.ID, ProductID: f.gadget.ID, Quantity: i, Amount: 100,
			Status: models.InvoiceStatusPending, Date: fmt.Sprintf("2024-01-0%d", i),
		}).Error)
	}
	rows, err := New(db).LatestInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "2024-01-04", rows[0].Date)
	assert.Equal(t, "$4.00", rows[0].Amount)
	assert.Equal(t, "Linh", rows[0].Name)
}

func TestInvoiceFormAmountInMajorUnits(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	var inv models.Invoice
	require.NoError(t, db.Where("amount = ?", 1579).First(&inv).Error)

	form, err := New(db).Invoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, form.Amount.Equal(decimal.RequireFromString("15.79")))

	_, err = New(db).Invoice(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProductsAndCosts(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	svc := New(db)
	ctx := context.Background()

	products, err := svc.Products(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[0].Name, "sorted by name")

	products, err = svc.Products(ctx, "w-1", 1)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)

	costs, err := svc.Costs(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, costs, 2)
	assert.Equal(t, "Coffee", costs[0].Name, "newest first")
	assert.Equal(t, "$45.50", costs[0].FormattedAmount)
	assert.Equal(t, "Feb 3, 2023", costs[0].FormattedDate)

	costs, err = svc.Costs(ctx, "45.5", 1)
	require.NoError(t, err)
	assert.Len(t, costs, 1)
	pages, err := svc.CostPages(ctx, "rent")
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	pages, err = svc.ProductPages(ctx, "zzz")
	require.NoError(t, err)
	assert.Equal(t, 0, pages)
}

func TestOptions(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	svc := New(db)

	customers, err := svc.CustomerOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "ACME Corp", customers[0].Name)

	products, err := svc.ProductOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "G-1", products[0].Code)
}

func TestCardData(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	sum, err := New(db).CardData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.CustomerCount)
	assert.Equal(t, int64(3000), sum.PaidMinor)
	assert.Equal(t, "$30.00", sum.TotalPaid)
	assert.Equal(t, "$157.90", sum.TotalPending)
	assert.Equal(t, "$1,245.50", sum.TotalCosts)
}

func TestCardDataEmpty(t *testing.T) {
	sum, err := New(setupTestDB(t)).CardData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.CustomerCount)
	assert.Equal(t, "$0.00", sum.TotalPaid)
	assert.Equal(t, "$0.00", sum.TotalCosts)
}

func TestDetails(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	svc := New(db)
	ctx := context.Background()

	c, err := svc.Customer(ctx, f.acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME Corp", c.Name)

	p, err := svc.Product(ctx, f.gadget.ID)
	require.NoError(t, err)
	assert.Equal(t, "G-1", p.Code)

	_, err = svc.Product(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Cost(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTotalsAtLineCap(t *testing.T) {
	db := setupTestDB(t)
	c := models.Customer{Name: "Whale"}
	p := models.Product{Code: "BIG", Name: "Yacht", Quantity: 1}
	require.NoError(t, db.Create(&c).Error)
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&models.Invoice{
		CustomerID: c.ID, ProductID: p.ID, Quantity: 100_000_000, Amount: 10_000_000,
		Status: models.InvoiceStatusPending, Date: "2024-01-01",
	}).Error)
	require.NoError(t, db.Create(&models.Cost{
		Name: "Fleet", Amount: decimal.RequireFromString("10000000000000"), Date: "2024-01-02",
	}).Error)
	const capped = "$10,000,000,000,000.00"
	svc := New(db)
	ctx := context.Background()

	rows, err := svc.Invoices(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, capped, rows[0].FormattedTotal)
	assert.Equal(t, "$100,000.00", rows[0].FormattedAmount)

	latest, err := svc.LatestInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, capped, latest[0].Amount)

	customers, err := svc.Customers(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, capped, customers[0].FormattedPending)

	sum, err := svc.CardData(ctx)
	require.NoError(t, err)
	assert.Equal(t, capped, sum.TotalPending)
	assert.Equal(t, capped, sum.TotalCosts)
	assert.Equal(t, "$0.00", sum.TotalPaid)
}
