package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{999, "9.99"},
		{1998, "19.98"},
		{100000, "1000.00"},
		{-450, "-4.50"},
	}

	for _, tc := range cases {
		if got := domain.FormatMinor(tc.amount); got != tc.want {
			t.Fatalf("FormatMinor(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"9.99", 999},
		{"9.9", 990},
		{"9", 900},
		{"0.05", 5},
		{"1000.00", 100000},
		{" 4.50 ", 450},
		{"-4.50", -450},
		{".99", 99},
	}

	for _, tc := range cases {
		got, err := domain.ParsePrice(tc.in)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePrice(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "9.999", "1.2.3", "1,50"} {
		if _, err := domain.ParsePrice(in); err == nil {
			t.Fatalf("ParsePrice(%q): expected error", in)
		}
	}
}

func TestParsePriceFormatMinor_RoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "0.05", "9.99", "19.98", "1000.00"} {
		amount, err := domain.ParsePrice(s)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", s, err)
		}
		if got := domain.FormatMinor(amount); got != s {
			t.Fatalf("round trip %q -> %d -> %q", s, amount, got)
		}
	}
}
