// Package models holds the persisted entities of the back office.
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a buyer referenced by invoices.
type Customer struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// Product is an inventory item. Products created together share a Code.
type Product struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Code     string `gorm:"size:255;not null;index" json:"code"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Quantity int    `gorm:"not null" json:"quantity"`
	Note     string `gorm:"type:text" json:"note"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

func (Customer) TableName() string { return "customers" }
func (Product) TableName() string  { return "products" }

// Assignments returns every column except id, for full-record updates.
func (c *Customer) Assignments() map[string]any {
	return map[string]any{"name": c.Name}
}

func (p *Product) Assignments() map[string]any {
	return map[string]any{
		"code":     p.Code,
		"name":     p.Name,
		"quantity": p.Quantity,
		"note":     p.Note,
	}
}

func (c *Customer) GetID() string { return c.ID }
func (p *Product) GetID() string  { return p.ID }

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{&Customer{}, &Product{}, &Invoice{}, &Cost{}}
}
