// Package handlers exposes the query layer and the mutation pipeline as a
// JSON API. Mutations also accept urlencoded form posts and answer them with
// a 303 redirect.
package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-backoffice/internal/httpx"
	"github.com/diewo77/go-backoffice/internal/i18n"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/query"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/store"
	"github.com/diewo77/go-backoffice/internal/validation"
	"go.uber.org/zap"
)

type Handler struct {
	queries  *query.Service
	services *services.Service
}

func New(q *query.Service, svc *services.Service) *Handler {
	return &Handler{queries: q, services: svc}
}

// Register mounts every API route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/summary", h.Summary)

	mux.HandleFunc("GET /api/invoices", list(h.queries.Invoices))
	mux.HandleFunc("GET /api/invoices/pages", pages(h.queries.InvoicePages))
	mux.HandleFunc("GET /api/invoices/latest", h.LatestInvoices)
	mux.HandleFunc("GET /api/invoices/pending/{customerId}", h.CustomerInvoices(models.InvoiceStatusPending))
	mux.HandleFunc("GET /api/invoices/paid/{customerId}", h.CustomerInvoices(models.InvoiceStatusPaid))
	mux.HandleFunc("GET /api/invoices/{id}", detail(h.queries.Invoice))

	mux.HandleFunc("GET /api/customers", list(h.queries.Customers))
	mux.HandleFunc("GET /api/customers/pages", pages(h.queries.CustomerPages))
	mux.HandleFunc("GET /api/customers/options", options(h.queries.CustomerOptions))
	mux.HandleFunc("GET /api/customers/{id}", detail(h.queries.Customer))

	mux.HandleFunc("GET /api/products", list(h.queries.Products))
	mux.HandleFunc("GET /api/products/pages", pages(h.queries.ProductPages))
	mux.HandleFunc("GET /api/products/options", options(h.queries.ProductOptions))
	mux.HandleFunc("GET /api/products/{id}", detail(h.queries.Product))

	mux.HandleFunc("GET /api/costs", list(h.queries.Costs))
	mux.HandleFunc("GET /api/costs/pages", pages(h.queries.CostPages))
	mux.HandleFunc("GET /api/costs/options", options(h.queries.CostOptions))
	mux.HandleFunc("GET /api/costs/{id}", detail(h.queries.Cost))

	h.registerMutations(mux, "invoices", h.CreateInvoice, h.services.UpdateInvoice, h.services.DeleteInvoice)
	h.registerMutations(mux, "customers", h.CreateCustomer, h.services.UpdateCustomer, h.services.DeleteCustomer)
	h.registerMutations(mux, "products", h.CreateProducts, h.services.UpdateProduct, h.services.DeleteProduct)
	h.registerMutations(mux, "costs", h.CreateCost, h.services.UpdateCost, h.services.DeleteCost)
}

// maxPage keeps the row offset far from int overflow.
const maxPage = math.MaxInt32

// Page reads the 1-based page parameter. Missing, malformed or non-positive
// values mean the first page.
func Page(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return min(page, maxPage)
}

func searchQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("query"))
}

func lang(r *http.Request) string {
	return i18n.LangFrom(r.Context())
}

// readFailed answers a primary read error: 404 for a missing row, 500 otherwise.
func readFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "not_found"), nil)
		return
	}
	logger.FromContext(r.Context()).Error("read failed", zap.String("path", r.URL.Path), zap.Error(err))
	httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "read_failed"), nil)
}

func list[T any](fetch func(ctx context.Context, q string, page int) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := fetch(r.Context(), searchQuery(r), Page(r))
		if err != nil {
			readFailed(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, rows)
	}
}

type pagesResponse struct {
	TotalPages int `json:"totalPages"`
}

func pages(fetch func(ctx context.Context, q string) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := fetch(r.Context(), searchQuery(r))
		if err != nil {
			readFailed(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, pagesResponse{TotalPages: n})
	}
}

func detail[T any](fetch func(ctx context.Context, id string) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := fetch(r.Context(), r.PathValue("id"))
		if err != nil {
			readFailed(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, rec)
	}
}

func options(fetch func(ctx context.Context) ([]query.Option, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := fetch(r.Context())
		if err != nil {
			readFailed(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, opts)
	}
}

// translate renders violation codes in the request language.
func translate(lang string, v validation.Violations) map[string][]string {
	if v.Empty() {
		return nil
	}
	out := make(map[string][]string, len(v))
	for field, codes := range v {
		out[field] = i18n.TAll(lang, codes)
	}
	return out
}
