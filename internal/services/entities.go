package services

import (
	"context"

	"github.com/diewo77/go-backoffice/internal/forms"
	"github.com/diewo77/go-backoffice/internal/validation"
	"github.com/diewo77/go-backoffice/internal/views"
)

// Redirect targets after a successful create or update.
const (
	InvoicesPath  = "/dashboard/invoices"
	CustomersPath = "/dashboard/customers"
	ProductsPath  = "/dashboard/products"
	CostsPath     = "/dashboard/costs"
)

var (
	invoiceCreated  = []string{views.Dashboard, views.Invoices, views.Customers, views.Products}
	invoiceChanged  = []string{views.Dashboard, views.Invoices, views.Customers}
	customerCreated = []string{views.Dashboard, views.Customers, views.Invoices, views.InvoiceCreate}
	customerChanged = []string{views.Customers, views.Invoices, views.InvoiceCreate}
	customerDeleted = []string{views.Dashboard, views.Customers, views.Invoices, views.InvoiceCreate}
	productCreated  = []string{views.Dashboard, views.Products, views.Invoices, views.InvoiceCreate}
	productChanged  = []string{views.Products, views.Invoices, views.InvoiceCreate}
	costChanged     = []string{views.Costs, views.Dashboard}
)

type none struct{}

// invoiceRefs reports a field error for each referenced row that is missing.
func (s *Service) invoiceRefs(ctx context.Context, in forms.InvoiceInput) (validation.Violations, error) {
	v := make(validation.Violations)
	ok, err := s.store.Customers.Exists(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		v.Add("customerId", "customer_not_found")
	}
	ok, err = s.store.Products.Exists(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !ok {
		v.Add("productId", "product_not_found")
	}
	return v, nil
}

func (s *Service) CreateInvoice(ctx context.Context, in forms.Values) Outcome {
	return run(ctx, s, mutation[forms.InvoiceInput]{
		entity: "invoice",
		op:     opCreate,
		parse:  func() forms.Result[forms.InvoiceInput] { return forms.ParseInvoice(in) },
		check:  s.invoiceRefs,
		persist: func(ctx context.Context, inv forms.InvoiceInput) (string, error) {
			m := inv.Model()
			return s.store.Invoices.Create(ctx, &m)
		},
		invalidate: invoiceCreated,
		redirect:   InvoicesPath,
	})
}

func (s *Service) UpdateInvoice(ctx context.Context, id string, in forms.Values) Outcome {
	return run(ctx, s, mutation[forms.InvoiceInput]{
		entity: "invoice",
		op:     opUpdate,
		parse:  func() forms.Result[forms.InvoiceInput] { return forms.ParseInvoice(in) },
		check:  s.invoiceRefs,
		persist: func(ctx context.Context, inv forms.InvoiceInput) (string, error) {
			m := inv.Model()
			return id, s.store.Invoices.Update(ctx, id, &m)
		},
		invalidate: invoiceChanged,
		redirect:   InvoicesPath,
	})
}

func (s *Service) DeleteInvoice(ctx context.Context, id string) Outcome {
	return run(ctx, s, mutation[none]{
		entity: "invoice",
		op:     opDelete,
		persist: func(ctx context.Context, _ none) (string, error) {
			return id, s.store.Invoices.Delete(ctx, id)
		},
		invalidate: invoiceChanged,
	})
}

func (s *Service) CreateCustomer(ctx context.Context, in forms.Values) Outcome {
	return run(ctx, s, mutation[forms.CustomerInput]{
		entity: "customer",
		op:     opCreate,
		parse:  func() forms.Result[forms.CustomerInput] { return forms.ParseCustomer(in) },
		persist: func(ctx context.Context, c forms.CustomerInput) (string, error) {
			m := c.Model()
			return s.store.Customers.Create(ctx, &m)
		},
		invalidate: customerCreated,
		redirect:   CustomersPath,
	})
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, in forms.Values) Outcome {
	return run(ctx, s, mutation[forms.CustomerInput]{
		entity: "customer",
		op:     opUpdate,
		parse:  func() forms.Result[forms.CustomerInput] { return forms.ParseCustomer(in) },
		persist: func(ctx context.Context, c forms.CustomerInput) (string, error) {
			m := c.Model()
			return id, s.store.Customers.Update(ctx, id, &m)
		},
		invalidate: customerChanged,
		redirect:   CustomersPath,
	})
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) Outcome {
	return run(ctx, s, mutation[none]{
		entity: "customer",
		op:     opDelete,
		persist: func(ctx context.Context, _ none) (string, error) {
			return id, s.store.Customers.Delete(ctx, id)
		},
		invalidate: customerDeleted,
	})
}

// CreateProducts inserts a batch of products sharing code. The batch is
// written atomically; Outcome.ID is the first new id.
func (s *Service) CreateProducts(ctx context.Context, code string, items []forms.Values) Outcome {
	return run(ctx, s, mutation[forms.ProductBatchInput]{
		entity: "product",
		op:     opCreate,
		parse:  func() forms.Result[forms.ProductBatchInput] { return forms.ParseProductBatch(code, items) },
		persist: func(ctx context.Context, b forms.ProductBatchInput) (string, error) {
			ids, err := s.store.Products.CreateBatch(ctx, b.Models())
			if err != nil {
				return "", err
			}
			return ids[0], nil
		},
		invalidate: productCreated,
		redirect:   ProductsPath,
	})
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in forms.Values) Outcome {
	return run(ctx, s, mutation[forms.ProductInput]{
		entity: "product",
		op:     opUpdate,
		parse:  func() forms.Result[forms.ProductInput] { return forms.ParseProductUpdate(in) },
		persist: func(ctx context.Context, p forms.ProductInput) (string, error) {
			m := p.Model()
			return id, s.store.Products.Update(ctx, id, &m)
		},
		invalidate: productChanged,
		redirect:   ProductsPath,
	})
}

func (s *Service) DeleteProduct(ctx context.Context, id string) Outcome {
	return run(ctx, s, mutation[none]{
		entity: "product",
		op:     opDelete,
		persist: func(ctx context.Context, _ none) (string, error) {
			return id, s.store.Products.Delete(ctx, id)
		},
		invalidate: productChanged,
	})
}

func (s *Service) CreateCost(ctx context.Context, in forms.Values) Outcome {
	return run(ctx, s, mutation[forms.CostInput]{
		entity: "cost",
		op:     opCreate,
		parse:  func() forms.Result[forms.CostInput] { return forms.ParseCost(in) },
		persist: func(ctx context.Context, c forms.CostInput) (string, error) {
			m := c.Model()
			return s.store.Costs.Create(ctx, &m)
		},
		invalidate: costChanged,
		redirect:   CostsPath,
	})
}

func (s *Service) UpdateCost(ctx context.Context, id string, in forms.Values) Outcome {
	return run(ctx, s, mutation[forms.CostInput]{
		entity: "cost",
		op:     opUpdate,
		parse:  func() forms.Result[forms.CostInput] { return forms.ParseCost(in) },
		persist: func(ctx context.Context, c forms.CostInput) (string, error) {
			m := c.Model()
			return id, s.store.Costs.Update(ctx, id, &m)
		},
		invalidate: costChanged,
		redirect:   CostsPath,
	})
}

func (s *Service) DeleteCost(ctx context.Context, id string) Outcome {
	return run(ctx, s, mutation[none]{
		entity: "cost",
		op:     opDelete,
		persist: func(ctx context.Context, _ none) (string, error) {
			return id, s.store.Costs.Delete(ctx, id)
		},
		invalidate: costChanged,
	})
}
