package money

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMajorAndToMinor(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"15.79", 1579},
		{"1", 100},
		{"0.005", 1},
		{" 12.344 ", 1234},
		{"1234.5", 123450},
	}
	for _, tt := range tests {
		d, err := ParseMajor(tt.in)
		if err != nil {
			t.Fatalf("ParseMajor(%q): %v", tt.in, err)
		}
		if got := ToMinor(d); got != tt.want {
			t.Errorf("ToMinor(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if _, err := ParseMajor("  "); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := ParseMajor("abc"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseMajorRejectsNonPlainNumbers(t *testing.T) {
	for _, in := range []string{
		"1e20000000",
		"1e-20000000",
		"1E3",
		".5",
		"5.",
		"0x10",
		"1,000",
		"1234567890123456789",
		"1." + strings.Repeat("0", 19),
	} {
		if _, err := ParseMajor(in); !errors.Is(err, ErrFormat) {
			t.Errorf("ParseMajor(%q) err = %v, want ErrFormat", in, err)
		}
	}
	d, err := ParseMajor("-123456789012345678.123456789012345678")
	if err != nil {
		t.Fatalf("18+18 digits should parse: %v", err)
	}
	if !d.IsNegative() {
		t.Fatalf("sign lost: %s", d)
	}
}

func TestMinorToMajor(t *testing.T) {
	if got := MinorToMajor(1579); !got.Equal(decimal.RequireFromString("15.79")) {
		t.Fatalf("got %s", got)
	}
}

func TestFormatMinor(t *testing.T) {
	tests := map[int64]string{
		1579:    "$15.79",
		0:       "$0.00",
		5:       "$0.05",
		123400:  "$1,234.00",
		-123456: "-$1,234.56",
	}
	for in, want := range tests {
		if got := FormatMinor(in); got != want {
			t.Errorf("FormatMinor(%d) = %q, want %q", in, got, want)
		}
	}
	if got := FormatMajor(decimal.RequireFromString("42.5")); got != "$42.50" {
		t.Errorf("FormatMajor = %q", got)
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"2024-01-31", "2024-02-29"}
	invalid := []string{"", "2024-1-31", "2023-02-29", "2024-13-01", "31/01/2024", "2024-01-31T00:00:00Z"}
	for _, s := range valid {
		if !ValidDate(s) {
			t.Errorf("ValidDate(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if ValidDate(s) {
			t.Errorf("ValidDate(%q) = true", s)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2022-12-06"); got != "Dec 6, 2022" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDate("bogus"); got != "bogus" {
		t.Fatalf("got %q", got)
	}
}
