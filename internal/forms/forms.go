// Package forms turns raw submitted fields into typed, coerced inputs.
// Every parser is pure: it never touches the store and reports failures as a
// field-to-codes map instead of an error.
package forms

import (
	"math"
	"strings"

	"github.com/diewo77/go-backoffice/internal/money"
	"github.com/diewo77/go-backoffice/internal/validation"
	"github.com/shopspring/decimal"
)

const (
	MaxBatchItems  = 10
	MaxNameLength  = 100
	MaxNoteLength  = 500
	maxQuantity    = math.MaxInt32
	maxMinorAmount = int64(1e15)

	// maxLineTotal bounds amount*quantity per invoice.
	maxLineTotal = int64(1e15)
)

var (
	maxQuantityDec  = decimal.NewFromInt(maxQuantity)
	maxMajorAmount  = decimal.New(maxMinorAmount, -2)
	maxLineTotalDec = decimal.NewFromInt(maxLineTotal)
)

// Values holds raw submitted fields. An absent key is an absent field.
type Values map[string]string

// Get returns the trimmed field value.
func (v Values) Get(key string) string {
	return strings.TrimSpace(v[key])
}

// Result is either Data (when Errors is empty) or field errors.
type Result[T any] struct {
	Data   T
	Errors validation.Violations
}

// OK reports whether validation passed.
func (r Result[T]) OK() bool { return r.Errors.Empty() }

func finish[T any](data T, v validation.Violations) Result[T] {
	if !v.Empty() {
		var zero T
		return Result[T]{Data: zero, Errors: v}
	}
	return Result[T]{Data: data}
}

// quantity parses a positive whole number.
func quantity(field, raw string, v validation.Violations) int {
	d, err := money.ParseMajor(raw)
	if err != nil {
		v.Add(field, "quantity_positive")
		return 0
	}
	if !validation.PositiveNumber(field, d, "quantity_positive", v) {
		return 0
	}
	if !d.IsInteger() {
		v.Add(field, "quantity_integer")
		return 0
	}
	if !validation.MaxNumber(field, d, maxQuantityDec, "quantity_too_large", v) {
		return 0
	}
	return int(d.IntPart())
}

// positiveAmount parses a decimal greater than zero and at most maxMajorAmount.
func positiveAmount(field, raw string, v validation.Violations) (decimal.Decimal, bool) {
	d, err := money.ParseMajor(raw)
	if err != nil {
		v.Add(field, "amount_positive")
		return decimal.Zero, false
	}
	if !validation.PositiveNumber(field, d, "amount_positive", v) {
		return decimal.Zero, false
	}
	if !validation.MaxNumber(field, d, maxMajorAmount, "amount_too_large", v) {
		return decimal.Zero, false
	}
	return d, true
}

// FromForm keeps the first value of each submitted field.
func FromForm(form map[string][]string) Values {
	v := make(Values, len(form))
	for key, vals := range form {
		if len(vals) > 0 {
			v[key] = vals[0]
		}
	}
	return v
}
