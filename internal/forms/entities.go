package forms

import (
	"strconv"
	"strings"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/money"
	"github.com/diewo77/go-backoffice/internal/validation"
	"github.com/shopspring/decimal"
)

type CustomerInput struct {
	Name string
}

// ParseCustomer validates the customer form (create and update).
func ParseCustomer(in Values) Result[CustomerInput] {
	v := make(validation.Violations)
	name := in.Get("name")
	validation.Required("name", name, "customer_name_required", v)
	return finish(CustomerInput{Name: name}, v)
}

func (c CustomerInput) Model() models.Customer {
	return models.Customer{Name: c.Name}
}

// InvoiceInput is a validated invoice. Amount is already in minor units.
type InvoiceInput struct {
	CustomerID string
	ProductID  string
	Quantity   int
	Amount     int64
	Status     models.InvoiceStatus
	Date       string
	Note       string
}

// ParseInvoice validates the invoice form (create and update).
func ParseInvoice(in Values) Result[InvoiceInput] {
	v := make(validation.Violations)
	out := InvoiceInput{
		CustomerID: in.Get("customerId"),
		ProductID:  in.Get("productId"),
		Status:     models.InvoiceStatus(in.Get("status")),
		Date:       in.Get("date"),
		Note:       in.Get("note"),
	}
	validation.Required("customerId", out.CustomerID, "customer_required", v)
	validation.Required("productId", out.ProductID, "product_required", v)
	out.Quantity = quantity("quantity", in["quantity"], v)
	if d, ok := positiveAmount("amount", in["amount"], v); ok {
		out.Amount = money.ToMinor(d)
		// below half a cent rounds to nothing
		if validation.PositiveInt("amount", out.Amount, "amount_positive", v) && out.Quantity > 0 {
			total := decimal.NewFromInt(out.Amount).Mul(decimal.NewFromInt(int64(out.Quantity)))
			validation.MaxNumber("amount", total, maxLineTotalDec, "total_too_large", v)
		}
	}
	validation.OneOf("status", string(out.Status), models.InvoiceStatuses, "status_invalid", v)
	validation.ISODate("date", out.Date, "date_invalid", v)
	return finish(out, v)
}

func (i InvoiceInput) Model() models.Invoice {
	return models.Invoice{
		CustomerID: i.CustomerID,
		ProductID:  i.ProductID,
		Quantity:   i.Quantity,
		Amount:     i.Amount,
		Status:     i.Status,
		Date:       i.Date,
		Note:       i.Note,
	}
}

// CostInput is a validated cost. Amount stays in major units, unscaled.
type CostInput struct {
	Name   string
	Amount decimal.Decimal
	Date   string
	Note   string
}

// ParseCost validates the cost form (create and update).
func ParseCost(in Values) Result[CostInput] {
	v := make(validation.Violations)
	out := CostInput{
		Name: in.Get("name"),
		Date: in.Get("date"),
		Note: in.Get("note"),
	}
	validation.Required("name", out.Name, "cost_name_required", v)
	if d, ok := positiveAmount("amount", in["amount"], v); ok {
		out.Amount = d
	}
	validation.ISODate("date", out.Date, "date_invalid", v)
	return finish(out, v)
}

func (c CostInput) Model() models.Cost {
	return models.Cost{Name: c.Name, Amount: c.Amount, Date: c.Date, Note: c.Note}
}

// ProductInput is a single validated product, as submitted by the edit form.
type ProductInput struct {
	Code     string
	Name     string
	Quantity int
	Note     string
}

func (p ProductInput) Model() models.Product {
	return models.Product{Code: p.Code, Name: p.Name, Quantity: p.Quantity, Note: p.Note}
}

// ParseProductUpdate validates the product edit form.
func ParseProductUpdate(in Values) Result[ProductInput] {
	v := make(validation.Violations)
	code := in.Get("code")
	validation.Required("code", code, "code_required", v)
	item := parseItem(in, "", v)
	return finish(ProductInput{Code: code, Name: item.Name, Quantity: item.Quantity, Note: item.Note}, v)
}

// ProductItem is one line of a product batch.
type ProductItem struct {
	Name     string
	Quantity int
	Note     string
}

// ProductBatchInput is a validated batch of products sharing one code.
type ProductBatchInput struct {
	Code  string
	Items []ProductItem
}

func (b ProductBatchInput) Models() []models.Product {
	out := make([]models.Product, len(b.Items))
	for i, it := range b.Items {
		out[i] = models.Product{Code: b.Code, Name: it.Name, Quantity: it.Quantity, Note: it.Note}
	}
	return out
}

// ItemField returns the error key for field of the i-th batch item.
func ItemField(i int, field string) string {
	return "products[" + strconv.Itoa(i) + "][" + field + "]"
}

// ParseProductBatch validates a batch creation. Item errors are keyed by
// ItemField; batch-level errors use the "products" key.
func ParseProductBatch(code string, items []Values) Result[ProductBatchInput] {
	v := make(validation.Violations)
	out := ProductBatchInput{Code: strings.TrimSpace(code)}
	validation.Required("code", out.Code, "code_required", v)

	switch {
	case len(items) == 0:
		v.Add("products", "products_min")
	case len(items) > MaxBatchItems:
		v.Add("products", "products_max")
	}

	seen := make(map[string]int, len(items))
	for i, raw := range items {
		item := parseItem(raw, "products["+strconv.Itoa(i)+"]", v)
		if item.Name != "" {
			if _, dup := seen[item.Name]; dup {
				v.Add(ItemField(i, "name"), "product_name_duplicate")
				if !v.Has("products", "product_name_duplicate") {
					v.Add("products", "product_name_duplicate")
				}
			} else {
				seen[item.Name] = i
			}
		}
		out.Items = append(out.Items, item)
	}
	return finish(out, v)
}

// parseItem applies the per-product rules. Item values use plain keys
// (name, quantity, note); prefix is prepended to error keys as "prefix[field]".
func parseItem(in Values, prefix string, v validation.Violations) ProductItem {
	key := func(f string) string {
		if prefix == "" {
			return f
		}
		return prefix + "[" + f + "]"
	}
	item := ProductItem{Name: in.Get("name"), Note: in.Get("note")}
	if validation.Required(key("name"), item.Name, "product_name_required", v) {
		validation.MaxLen(key("name"), item.Name, MaxNameLength, "product_name_too_long", v)
	}
	item.Quantity = quantity(key("quantity"), in["quantity"], v)
	validation.MaxLen(key("note"), item.Note, MaxNoteLength, "note_too_long", v)
	return item
}
