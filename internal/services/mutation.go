// Package services runs the validate, persist, invalidate and redirect
// pipeline behind every create, update and delete. Failures come back as an
// Outcome value; nothing past this layer needs to inspect store errors.
package services

import (
	"context"
	"errors"

	"github.com/diewo77/go-backoffice/internal/forms"
	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/metrics"
	"github.com/diewo77/go-backoffice/internal/store"
	"github.com/diewo77/go-backoffice/internal/validation"
	"github.com/diewo77/go-backoffice/internal/views"
	"go.uber.org/zap"
)

type Status string

const (
	// StatusRedirect: persisted, client goes to Outcome.Redirect.
	StatusRedirect Status = "redirect"
	// StatusInvalid: field errors, nothing written.
	StatusInvalid Status = "invalid"
	// StatusFailed: the store rejected the write.
	StatusFailed Status = "failed"
	// StatusNotFound: update target does not exist.
	StatusNotFound Status = "not_found"
	// StatusDone: delete finished (also when the row was already gone).
	StatusDone Status = "done"
	// StatusConflict: delete refused because invoices still reference the row.
	StatusConflict Status = "conflict"
)

// Outcome is the result of one mutation. Message and Errors hold i18n codes.
type Outcome struct {
	Status   Status
	Redirect string
	Errors   validation.Violations
	Message  string
	ID       string
}

// OK reports whether the write happened.
func (o Outcome) OK() bool {
	return o.Status == StatusRedirect || o.Status == StatusDone
}

// Service orchestrates mutations over a store.
type Service struct {
	store   *store.Store
	pub     views.Publisher
	metrics *metrics.Metrics
}

// New wires a Service. A nil publisher drops invalidations; nil metrics record nothing.
func New(st *store.Store, pub views.Publisher, m *metrics.Metrics) *Service {
	if pub == nil {
		pub = views.Multi{}
	}
	return &Service{store: st, pub: pub, metrics: m}
}

type op string

const (
	opCreate op = "create"
	opUpdate op = "update"
	opDelete op = "delete"
)

// mutation describes one pipeline run.
type mutation[In any] struct {
	entity string
	op     op
	// parse is skipped for deletes.
	parse func() forms.Result[In]
	// check runs lookups that need the store, after parse succeeded.
	check   func(ctx context.Context, in In) (validation.Violations, error)
	persist func(ctx context.Context, in In) (string, error)
	// invalidate lists the view keys made stale by a successful write.
	invalidate []string
	// redirect is empty for deletes.
	redirect string
}

func run[In any](ctx context.Context, s *Service, m mutation[In]) Outcome {
	log := logger.FromContext(ctx).With(zap.String("entity", m.entity), zap.String("op", string(m.op)))
	out := execute(ctx, s, log, m)
	s.metrics.Mutation(m.entity, string(m.op), string(out.Status))
	return out
}

func execute[In any](ctx context.Context, s *Service, log *zap.Logger, m mutation[In]) Outcome {
	var in In
	if m.parse != nil {
		res := m.parse()
		if !res.OK() {
			return s.invalid(log, res.Errors)
		}
		in = res.Data
	}
	if m.check != nil {
		v, err := m.check(ctx, in)
		if err != nil {
			return s.failed(log, m.op, err)
		}
		if !v.Empty() {
			return s.invalid(log, v)
		}
	}

	id, err := m.persist(ctx, in)
	if err != nil {
		return s.failed(log, m.op, err)
	}

	// The write is committed; a publish failure only leaves views stale.
	if err := s.pub.Publish(ctx, m.invalidate...); err != nil {
		log.Warn("view invalidation failed", zap.Strings("views", m.invalidate), zap.Error(err))
	} else {
		s.metrics.Invalidated(m.invalidate...)
	}

	log.Info("mutation applied", zap.String("id", id))
	if m.redirect == "" {
		return Outcome{Status: StatusDone, ID: id}
	}
	return Outcome{Status: StatusRedirect, Redirect: m.redirect, ID: id}
}

func (s *Service) invalid(log *zap.Logger, v validation.Violations) Outcome {
	log.Debug("validation failed", zap.Strings("fields", v.Fields()))
	return Outcome{Status: StatusInvalid, Errors: v, Message: "form_invalid"}
}

func (s *Service) failed(log *zap.Logger, o op, err error) Outcome {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Outcome{Status: StatusNotFound, Message: "not_found"}
	case errors.Is(err, store.ErrInUse):
		log.Info("delete refused", zap.Error(err))
		return Outcome{Status: StatusConflict, Message: "in_use"}
	}
	log.Error("persist failed", zap.Error(err))
	if o == opDelete {
		return Outcome{Status: StatusFailed, Message: "delete_failed"}
	}
	return Outcome{Status: StatusFailed, Message: "db_error"}
}
