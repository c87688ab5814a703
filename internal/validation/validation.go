// Package validation collects field violations as message codes. Codes are
// translated for display by the i18n package.
package validation

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/diewo77/go-backoffice/internal/money"
	"github.com/shopspring/decimal"
)

// Violations maps a field name to the codes it failed, in check order.
type Violations map[string][]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field.
func (v Violations) Add(field, code string) {
	v[field] = append(v[field], code)
}

// Has reports whether field failed with code. An empty code matches any failure.
func (v Violations) Has(field, code string) bool {
	codes, ok := v[field]
	if !ok {
		return false
	}
	return code == "" || slices.Contains(codes, code)
}

// Fields returns the failing field names, sorted.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Basic validators. Each returns true when the value passed.

func Required(field, value, code string, v Violations) bool {
	if strings.TrimSpace(value) == "" {
		v.Add(field, code)
		return false
	}
	return true
}

func MaxLen(field, value string, max int, code string, v Violations) bool {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, code)
		return false
	}
	return true
}

func OneOf(field, value string, allowed []string, code string, v Violations) bool {
	if !slices.Contains(allowed, value) {
		v.Add(field, code)
		return false
	}
	return true
}

func ISODate(field, value, code string, v Violations) bool {
	if !money.ValidDate(value) {
		v.Add(field, code)
		return false
	}
	return true
}

func PositiveNumber(field string, val decimal.Decimal, code string, v Violations) bool {
	if !val.IsPositive() {
		v.Add(field, code)
		return false
	}
	return true
}

func PositiveInt(field string, val int64, code string, v Violations) bool {
	if val <= 0 {
		v.Add(field, code)
		return false
	}
	return true
}

// MaxNumber fails when val exceeds max.
func MaxNumber(field string, val, max decimal.Decimal, code string, v Violations) bool {
	if val.GreaterThan(max) {
		v.Add(field, code)
		return false
	}
	return true
}
