package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-backoffice/internal/forms"
	"github.com/diewo77/go-backoffice/internal/httpx"
	"github.com/diewo77/go-backoffice/internal/i18n"
	"github.com/diewo77/go-backoffice/internal/services"
)

type (
	createFunc func(ctx context.Context, form map[string][]string) services.Outcome
	updateFunc func(ctx context.Context, id string, in forms.Values) services.Outcome
	deleteFunc func(ctx context.Context, id string) services.Outcome
)

func (h *Handler) registerMutations(mux *http.ServeMux, entity string, create createFunc, update updateFunc, del deleteFunc) {
	base := "/api/" + entity
	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		form, ok := decode(w, r)
		if !ok {
			return
		}
		respond(w, r, create(r.Context(), form))
	})
	updateHandler := func(w http.ResponseWriter, r *http.Request) {
		form, ok := decode(w, r)
		if !ok {
			return
		}
		respond(w, r, update(r.Context(), r.PathValue("id"), forms.FromForm(form)))
	}
	mux.HandleFunc("POST "+base+"/{id}", updateHandler)
	mux.HandleFunc("PUT "+base+"/{id}", updateHandler)
	deleteHandler := func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, del(r.Context(), r.PathValue("id")))
	}
	mux.HandleFunc("DELETE "+base+"/{id}", deleteHandler)
	mux.HandleFunc("POST "+base+"/{id}/delete", deleteHandler)
}

func (h *Handler) CreateInvoice(ctx context.Context, form map[string][]string) services.Outcome {
	return h.services.CreateInvoice(ctx, forms.FromForm(form))
}

func (h *Handler) CreateCustomer(ctx context.Context, form map[string][]string) services.Outcome {
	return h.services.CreateCustomer(ctx, forms.FromForm(form))
}

// CreateProducts reads the shared code and the products[i][field] items.
func (h *Handler) CreateProducts(ctx context.Context, form map[string][]string) services.Outcome {
	return h.services.CreateProducts(ctx, forms.FromForm(form).Get("code"), forms.ItemsFromForm(form))
}

func (h *Handler) CreateCost(ctx context.Context, form map[string][]string) services.Outcome {
	return h.services.CreateCost(ctx, forms.FromForm(form))
}

func decode(w http.ResponseWriter, r *http.Request) (map[string][]string, bool) {
	form, err := httpx.DecodeForm(w, r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_body"), nil)
		return nil, false
	}
	return form, true
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
	ID       string `json:"id,omitempty"`
}

type doneResponse struct {
	ID string `json:"id"`
}

// respond maps an Outcome onto the HTTP answer.
func respond(w http.ResponseWriter, r *http.Request, out services.Outcome) {
	l := lang(r)
	switch out.Status {
	case services.StatusRedirect:
		if httpx.WantsJSON(r) {
			httpx.JSON(w, http.StatusOK, redirectResponse{Redirect: out.Redirect, ID: out.ID})
			return
		}
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
	case services.StatusDone:
		httpx.JSON(w, http.StatusOK, doneResponse{ID: out.ID})
	case services.StatusInvalid:
		httpx.JSONError(w, http.StatusUnprocessableEntity, i18n.T(l, out.Message), translate(l, out.Errors))
	case services.StatusNotFound:
		httpx.JSONError(w, http.StatusNotFound, i18n.T(l, out.Message), nil)
	case services.StatusConflict:
		httpx.JSONError(w, http.StatusConflict, i18n.T(l, out.Message), nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(l, out.Message), nil)
	}
}
