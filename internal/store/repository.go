// Package store holds the parameterised write and lookup functions for every
// entity. All statements go through gorm parameter binding.
package store

import (
	"context"
	"errors"

	"github.com/diewo77/go-backoffice/internal/models"
	"gorm.io/gorm"
)

// Record is implemented by every persisted model.
type Record interface {
	TableName() string
	GetID() string
	// Assignments returns all columns except id.
	Assignments() map[string]any
}

// Reference names a column in another table pointing at this one.
type Reference struct {
	Table  string
	Column string
}

var invoiceRefs = struct {
	customer, product Reference
}{
	customer: Reference{Table: "invoices", Column: "customer_id"},
	product:  Reference{Table: "invoices", Column: "product_id"},
}

// Repository is the generic create/update/delete/get component for one table.
type Repository[T any, PT interface {
	*T
	Record
}] struct {
	db         *gorm.DB
	referenced []Reference
}

func NewRepository[T any, PT interface {
	*T
	Record
}](db *gorm.DB, referenced ...Reference) *Repository[T, PT] {
	return &Repository[T, PT]{db: db, referenced: referenced}
}

func (r *Repository[T, PT]) table() string {
	return PT(new(T)).TableName()
}

// Create inserts rec and returns its generated id.
func (r *Repository[T, PT]) Create(ctx context.Context, rec PT) (string, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", classify("create", r.table(), err)
	}
	return rec.GetID(), nil
}

// Update replaces every column of row id with rec. ErrNotFound when no row matched.
func (r *Repository[T, PT]) Update(ctx context.Context, id string, rec PT) error {
	res := r.db.WithContext(ctx).Model(PT(new(T))).Where("id = ?", id).Updates(rec.Assignments())
	if res.Error != nil {
		return classify("update", r.table(), res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes row id. Deleting a missing id is not an error; deleting a row
// still referenced by invoices returns ErrInUse and deletes nothing.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	for _, ref := range r.referenced {
		var n int64
		if err := db.Table(ref.Table).Where(ref.Column+" = ?", id).Count(&n).Error; err != nil {
			return classify("delete", r.table(), err)
		}
		if n > 0 {
			return classify("delete", r.table(), gorm.ErrForeignKeyViolated)
		}
	}
	if err := db.Where("id = ?", id).Delete(PT(new(T))).Error; err != nil {
		return classify("delete", r.table(), err)
	}
	return nil
}

// Get loads row id or returns ErrNotFound.
func (r *Repository[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	rec := PT(new(T))
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(rec).Error; err != nil {
		return nil, classify("get", r.table(), err)
	}
	return rec, nil
}

// Exists reports whether row id is present.
func (r *Repository[T, PT]) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(PT(new(T))).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, classify("exists", r.table(), err)
	}
	return n > 0, nil
}

// ProductRepository adds transactional batch creation.
type ProductRepository struct {
	*Repository[models.Product, *models.Product]
}

// CreateBatch inserts all products in one transaction; any failure rolls back
// every insert of the batch.
func (r *ProductRepository) CreateBatch(ctx context.Context, products []models.Product) ([]string, error) {
	ids := make([]string, 0, len(products))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
			ids = append(ids, products[i].ID)
		}
		return nil
	})
	if err != nil {
		return nil, classify("create batch", "products", err)
	}
	return ids, nil
}

// Store groups the repositories over one injected handle.
type Store struct {
	db        *gorm.DB
	Customers *Repository[models.Customer, *models.Customer]
	Products  *ProductRepository
	Invoices  *Repository[models.Invoice, *models.Invoice]
	Costs     *Repository[models.Cost, *models.Cost]
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Customers: NewRepository[models.Customer](db, invoiceRefs.customer),
		Products:  &ProductRepository{NewRepository[models.Product](db, invoiceRefs.product)},
		Invoices:  NewRepository[models.Invoice](db),
		Costs:     NewRepository[models.Cost](db),
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Join(ErrDatabase, err)
	}
	return nil
}
