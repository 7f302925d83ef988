package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

// price_with_tax is unit_price * tax factor rounded half away from zero to
// PricePlaces, the precision unit_price itself is stored with.
func TestPriceWithTaxRounding(t *testing.T) {
	tax := decimal.RequireFromString("1.1")
	tests := []struct {
		price, exact, want string
	}{
		{"10.00", "11", "11.00"},
		{"4.50", "4.95", "4.95"},
		{"4.55", "5.005", "5.01"},
		{"0.01", "0.011", "0.01"},
		{"9999.99", "10999.989", "10999.99"},
	}
	for _, tt := range tests {
		unit := decimal.RequireFromString(tt.price)
		if exact := unit.Mul(tax); !exact.Equal(decimal.RequireFromString(tt.exact)) {
			t.Fatalf("%s * 1.1 = %s, want %s", tt.price, exact, tt.exact)
		}
		got := PriceWithTax(unit, tax)
		if got.StringFixed(PricePlaces) != tt.want {
			t.Errorf("PriceWithTax(%s) = %s, want %s", tt.price, got.StringFixed(PricePlaces), tt.want)
		}
		if diff := got.Sub(unit.Mul(tax)).Abs(); diff.GreaterThan(decimal.RequireFromString("0.005")) {
			t.Errorf("PriceWithTax(%s) is %s away from the exact product", tt.price, diff)
		}
	}

	resp := NewProductResponse(Product{UnitPrice: decimal.RequireFromString("4.55")}, tax)
	if resp.PriceWithTax != "5.01" || resp.UnitPrice != "4.55" {
		t.Fatalf("response prices = %q / %q", resp.UnitPrice, resp.PriceWithTax)
	}
}
