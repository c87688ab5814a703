package query

import (
	"context"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceRow is an invoice joined with its customer and product.
// Amount is the unit price in minor units; FormattedTotal covers Amount*Quantity.
type InvoiceRow struct {
	ID              string `json:"id"`
	CustomerID      string `json:"customer_id"`
	Name            string `json:"name"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductCode     string `json:"product_code"`
	Quantity        int    `json:"quantity"`
	Amount          int64  `json:"amount"`
	Status          string `json:"status"`
	Date            string `json:"date"`
	Note            string `json:"note"`
	FormattedAmount string `json:"formatted_amount" gorm:"-"`
	FormattedTotal  string `json:"formatted_total" gorm:"-"`
	FormattedDate   string `json:"formatted_date" gorm:"-"`
}

func (r *InvoiceRow) format() {
	r.FormattedAmount = money.FormatMinor(r.Amount)
	r.FormattedTotal = money.FormatMinor(models.LineTotal(r.Amount, r.Quantity))
	r.FormattedDate = money.FormatDate(r.Date)
}

var invoiceSearch = []string{"customers.name", "CAST(invoices.amount AS TEXT)", "invoices.date", "invoices.status"}

const invoiceColumns = `invoices.id, invoices.customer_id, customers.name AS name,
	invoices.product_id, products.name AS product_name, products.code AS product_code,
	invoices.quantity, invoices.amount, invoices.status, invoices.date, invoices.note`

func invoicesFrom(db *gorm.DB) *gorm.DB {
	return db.Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Joins("JOIN products ON invoices.product_id = products.id")
}

// Invoices lists one page of invoices matching q, newest first.
func (s *Service) Invoices(ctx context.Context, q string, page int) ([]InvoiceRow, error) {
	rows := []InvoiceRow{}
	err := search(invoicesFrom(s.db.WithContext(ctx)), q, invoiceSearch...).
		Select(invoiceColumns).
		Order("invoices.date DESC, invoices.id").
		Limit(PageSize).Offset(Offset(page)).
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("invoices", err)
	}
	for i := range rows {
		rows[i].format()
	}
	return rows, nil
}

func (s *Service) InvoicePages(ctx context.Context, q string) (int, error) {
	return s.pages(ctx, invoicesFrom, q, invoiceSearch)
}

// InvoicesByCustomer lists every invoice of a customer with the given status.
func (s *Service) InvoicesByCustomer(ctx context.Context, customerID string, status models.InvoiceStatus) ([]InvoiceRow, error) {
	rows := []InvoiceRow{}
	err := invoicesFrom(s.db.WithContext(ctx)).
		Select(invoiceColumns).
		Where("invoices.customer_id = ? AND invoices.status = ?", customerID, string(status)).
		Order("invoices.date DESC, invoices.id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("invoices by customer", err)
	}
	for i := range rows {
		rows[i].format()
	}
	return rows, nil
}

// LatestInvoice is a dashboard line; Amount is the formatted line total.
type LatestInvoice struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	TotalMinor int64  `json:"total_minor"`
	Amount     string `json:"amount" gorm:"-"`
}

const latestLimit = 5

// LatestInvoices returns the five most recent invoices.
func (s *Service) LatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	rows := []LatestInvoice{}
	err := s.db.WithContext(ctx).Table("invoices").
		Select("invoices.id, customers.name AS name, invoices.date, invoices.amount * invoices.quantity AS total_minor").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Order("invoices.date DESC, invoices.id").
		Limit(latestLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("latest invoices", err)
	}
	for i := range rows {
		rows[i].Amount = money.FormatMinor(rows[i].TotalMinor)
	}
	return rows, nil
}

// InvoiceForm is an invoice prepared for the edit form, amount in major units.
type InvoiceForm struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	ProductID  string               `json:"product_id"`
	Quantity   int                  `json:"quantity"`
	Amount     decimal.Decimal      `json:"amount"`
	Status     models.InvoiceStatus `json:"status"`
	Date       string               `json:"date"`
	Note       string               `json:"note"`
}

// Invoice loads one invoice for editing, or store.ErrNotFound.
func (s *Service) Invoice(ctx context.Context, id string) (*InvoiceForm, error) {
	inv, err := first[models.Invoice](ctx, s.db, "invoice", id)
	if err != nil {
		return nil, err
	}
	return &InvoiceForm{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		ProductID:  inv.ProductID,
		Quantity:   inv.Quantity,
		Amount:     money.MinorToMajor(inv.Amount),
		Status:     inv.Status,
		Date:       inv.Date,
		Note:       inv.Note,
	}, nil
}

// CustomerRow carries the per-customer invoice aggregates.
type CustomerRow struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TotalInvoices    int64  `json:"total_invoices"`
	PendingMinor     int64  `json:"pending_minor" gorm:"column:total_pending"`
	PaidMinor        int64  `json:"paid_minor" gorm:"column:total_paid"`
	FormattedPending string `json:"total_pending" gorm:"-"`
	FormattedPaid    string `json:"total_paid" gorm:"-"`
}

var customerSearch = []string{"customers.name"}

func customersFrom(db *gorm.DB) *gorm.DB {
	return db.Table("customers")
}

// Customers lists one page of customers matching q, by name.
func (s *Service) Customers(ctx context.Context, q string, page int) ([]CustomerRow, error) {
	rows := []CustomerRow{}
	err := search(customersFrom(s.db.WithContext(ctx)), q, customerSearch...).
		Select(`customers.id, customers.name,
			COUNT(invoices.id) AS total_invoices,
			CAST(COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount * invoices.quantity ELSE 0 END), 0) AS BIGINT) AS total_pending,
			CAST(COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount * invoices.quantity ELSE 0 END), 0) AS BIGINT) AS total_paid`,
			string(models.InvoiceStatusPending), string(models.InvoiceStatusPaid)).
		Joins("LEFT JOIN invoices ON customers.id = invoices.customer_id").
		Group("customers.id, customers.name").
		Order("customers.name ASC, customers.id").
		Limit(PageSize).Offset(Offset(page)).
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("customers", err)
	}
	for i := range rows {
		rows[i].FormattedPending = money.FormatMinor(rows[i].PendingMinor)
		rows[i].FormattedPaid = money.FormatMinor(rows[i].PaidMinor)
	}
	return rows, nil
}

func (s *Service) CustomerPages(ctx context.Context, q string) (int, error) {
	return s.pages(ctx, customersFrom, q, customerSearch)
}

var productSearch = []string{"products.name", "products.code"}

func productsFrom(db *gorm.DB) *gorm.DB {
	return db.Table("products")
}

// Products lists one page of products matching q, by name.
func (s *Service) Products(ctx context.Context, q string, page int) ([]models.Product, error) {
	rows := []models.Product{}
	err := search(productsFrom(s.db.WithContext(ctx)), q, productSearch...).
		Order("products.name ASC, products.id").
		Limit(PageSize).Offset(Offset(page)).
		Find(&rows).Error
	if err != nil {
		return nil, wrap("products", err)
	}
	return rows, nil
}

func (s *Service) ProductPages(ctx context.Context, q string) (int, error) {
	return s.pages(ctx, productsFrom, q, productSearch)
}

// CostRow is a cost with presentation fields.
type CostRow struct {
	models.Cost
	FormattedAmount string `json:"formatted_amount" gorm:"-"`
	FormattedDate   string `json:"formatted_date" gorm:"-"`
}

var costSearch = []string{"costs.name", "CAST(costs.amount AS TEXT)", "costs.date"}

func costsFrom(db *gorm.DB) *gorm.DB {
	return db.Table("costs")
}

// Costs lists one page of costs matching q, newest first.
func (s *Service) Costs(ctx context.Context, q string, page int) ([]CostRow, error) {
	costs := []models.Cost{}
	err := search(costsFrom(s.db.WithContext(ctx)), q, costSearch...).
		Order("costs.date DESC, costs.id").
		Limit(PageSize).Offset(Offset(page)).
		Find(&costs).Error
	if err != nil {
		return nil, wrap("costs", err)
	}
	rows := make([]CostRow, len(costs))
	for i, c := range costs {
		rows[i] = CostRow{Cost: c, FormattedAmount: money.FormatMajor(c.Amount), FormattedDate: money.FormatDate(c.Date)}
	}
	return rows, nil
}

func (s *Service) CostPages(ctx context.Context, q string) (int, error) {
	return s.pages(ctx, costsFrom, q, costSearch)
}

// Option is a picker entry.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// CustomerOptions lists every customer for the invoice form picker.
func (s *Service) CustomerOptions(ctx context.Context) ([]Option, error) {
	opts := []Option{}
	err := s.db.WithContext(ctx).Table("customers").Select("id, name").Order("name ASC, id").Scan(&opts).Error
	if err != nil {
		return nil, wrap("customer options", err)
	}
	return opts, nil
}

// ProductOptions lists every product for the invoice form picker.
func (s *Service) ProductOptions(ctx context.Context) ([]Option, error) {
	opts := []Option{}
	err := s.db.WithContext(ctx).Table("products").Select("id, name, code").Order("name ASC, id").Scan(&opts).Error
	if err != nil {
		return nil, wrap("product options", err)
	}
	return opts, nil
}

// CostOptions lists every cost by name.
func (s *Service) CostOptions(ctx context.Context) ([]Option, error) {
	opts := []Option{}
	err := s.db.WithContext(ctx).Table("costs").Select("id, name").Order("name ASC, id").Scan(&opts).Error
	if err != nil {
		return nil, wrap("cost options", err)
	}
	return opts, nil
}

func first[T any](ctx context.Context, db *gorm.DB, op, id string) (*T, error) {
	var rec T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, wrap(op, err)
	}
	return &rec, nil
}

// Customer loads one customer, or store.ErrNotFound.
func (s *Service) Customer(ctx context.Context, id string) (*models.Customer, error) {
	return first[models.Customer](ctx, s.db, "customer", id)
}

// Product loads one product, or store.ErrNotFound.
func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	return first[models.Product](ctx, s.db, "product", id)
}

// Cost loads one cost, or store.ErrNotFound.
func (s *Service) Cost(ctx context.Context, id string) (*CostRow, error) {
	c, err := first[models.Cost](ctx, s.db, "cost", id)
	if err != nil {
		return nil, err
	}
	return &CostRow{Cost: *c, FormattedAmount: money.FormatMajor(c.Amount), FormattedDate: money.FormatDate(c.Date)}, nil
}
