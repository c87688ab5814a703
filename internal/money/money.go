// Package money holds the amount and date helpers shared by forms, queries and
// API responses. Invoice amounts travel as integer minor units (cents).
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the storage format of every date column.
const DateLayout = "2006-01-02"

var (
	// ErrEmpty is returned by ParseMajor for blank input.
	ErrEmpty = errors.New("empty amount")
	// ErrFormat is returned for anything but a plain decimal such as "15.79".
	ErrFormat = errors.New("malformed amount")

	numberRe = regexp.MustCompile(`^[+-]?\d{1,18}(\.\d{1,18})?$`)

	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hundred = decimal.NewFromInt(100)
	printer = message.NewPrinter(language.English)
)

// ParseMajor parses a decimal amount in major units ("15.79"). Exponents are
// rejected and both parts are limited to 18 digits.
func ParseMajor(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}
	if !numberRe.MatchString(s) {
		return decimal.Zero, ErrFormat
	}
	return decimal.NewFromString(s)
}

// ToMinor converts major units to minor units, rounding to the nearest cent.
func ToMinor(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// MinorToMajor is the inverse of ToMinor.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// FormatMinor renders minor units as US dollars: 1579 -> "$15.79".
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return sign + "$" + printer.Sprintf("%d", minor/100) + fmt.Sprintf(".%02d", minor%100)
}

// FormatMajor renders an amount already in major units.
func FormatMajor(d decimal.Decimal) string {
	return FormatMinor(ToMinor(d))
}

// ValidDate reports whether s is a YYYY-MM-DD string naming a real calendar day.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate renders "2022-12-06" as "Dec 6, 2022". Unparseable input is
// returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}
