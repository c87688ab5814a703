package handlers

import (
	"net/http"

	"github.com/diewo77/go-backoffice/internal/httpx"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/query"
	"go.uber.org/zap"
)

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.queries.CardData(r.Context())
	if err != nil {
		readFailed(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) LatestInvoices(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.LatestInvoices(r.Context())
	if err != nil {
		readFailed(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// CustomerInvoices lists one customer's invoices with the given status. It
// feeds a secondary modal, so a failed read still answers with an empty list.
func (h *Handler) CustomerInvoices(status models.InvoiceStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.queries.InvoicesByCustomer(r.Context(), r.PathValue("customerId"), status)
		if err != nil {
			logger.FromContext(r.Context()).Error("customer invoices read failed",
				zap.String("status", string(status)), zap.Error(err))
			httpx.JSON(w, http.StatusInternalServerError, []query.InvoiceRow{})
			return
		}
		httpx.JSON(w, http.StatusOK, rows)
	}
}
