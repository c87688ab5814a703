package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus represents the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// InvoiceStatuses lists the accepted status values.
var InvoiceStatuses = []string{string(InvoiceStatusPending), string(InvoiceStatusPaid)}

// Invoice records the sale of a product to a customer.
// Amount is the unit price in minor units; the line total is Amount*Quantity.
type Invoice struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	CustomerID string        `gorm:"size:36;not null;index" json:"customer_id"`
	Customer   *Customer     `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	ProductID  string        `gorm:"size:36;not null;index" json:"product_id"`
	Product    *Product      `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity   int           `gorm:"not null" json:"quantity"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Status     InvoiceStatus `gorm:"size:16;not null" json:"status"`
	Date       string        `gorm:"size:10;not null;index" json:"date"`
	Note       string        `gorm:"type:text" json:"note"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	i.ID = ensureID(i.ID)
	return nil
}

func (i *Invoice) GetID() string { return i.ID }

func (i *Invoice) Assignments() map[string]any {
	return map[string]any{
		"customer_id": i.CustomerID,
		"product_id":  i.ProductID,
		"quantity":    i.Quantity,
		"amount":      i.Amount,
		"status":      string(i.Status),
		"date":        i.Date,
		"note":        i.Note,
	}
}

// LineTotal is amount*quantity in minor units. Validated invoices keep it
// within 1e15.
func LineTotal(amount int64, quantity int) int64 {
	return amount * int64(quantity)
}

// Cost is a business expense. Amount is stored in major units.
type Cost struct {
	ID     string          `gorm:"primaryKey;size:36" json:"id"`
	Name   string          `gorm:"size:255;not null" json:"name"`
	Amount decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Date   string          `gorm:"size:10;not null;index" json:"date"`
	Note   string          `gorm:"type:text" json:"note"`
}

func (Cost) TableName() string { return "costs" }

func (c *Cost) BeforeCreate(*gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}

func (c *Cost) GetID() string { return c.ID }

func (c *Cost) Assignments() map[string]any {
	return map[string]any{
		"name":   c.Name,
		"amount": c.Amount,
		"date":   c.Date,
		"note":   c.Note,
	}
}
