package domain

import (
	"strings"
	"testing"
)

func validCard() CardDetails {
	return CardDetails{
		CardNumber:     "4242424242424242",
		CardHolderName: "Ada Lovelace",
		ExpireMonth:    "09",
		ExpireYear:     "2027",
		CVC:            "123",
		Address:        "12 Analytical Engine Way, London",
	}
}

func TestCardDetails_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CardDetails)
		wantErr string // substring expected in one of the messages; "" means valid
	}{
		{"valid", func(c *CardDetails) {}, ""},
		{"valid with spaces in number", func(c *CardDetails) { c.CardNumber = "4242 4242 4242 4242" }, ""},
		{"15 digits", func(c *CardDetails) { c.CardNumber = "424242424242424" }, "card_number"},
		{"17 digits", func(c *CardDetails) { c.CardNumber = "42424242424242424" }, "card_number"},
		{"letters in number", func(c *CardDetails) { c.CardNumber = "424242424242424x" }, "card_number"},
		{"missing holder name", func(c *CardDetails) { c.CardHolderName = "  " }, "card_holder_name"},
		{"month 00", func(c *CardDetails) { c.ExpireMonth = "00" }, "expire_month"},
		{"month 13", func(c *CardDetails) { c.ExpireMonth = "13" }, "expire_month"},
		{"month without leading zero", func(c *CardDetails) { c.ExpireMonth = "9" }, "expire_month"},
		{"year not 20xx", func(c *CardDetails) { c.ExpireYear = "1999" }, "expire_year"},
		{"year too short", func(c *CardDetails) { c.ExpireYear = "202" }, "expire_year"},
		{"cvc 2 digits", func(c *CardDetails) { c.CVC = "12" }, "cvc"},
		{"cvc 4 digits", func(c *CardDetails) { c.CVC = "1234" }, "cvc"},
		{"address too short", func(c *CardDetails) { c.Address = "short" }, "address"},
		{"address padded with spaces", func(c *CardDetails) { c.Address = "   abc    " }, "address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)
			errs := card.Validate()
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("Validate() = %v, want no errors", errs)
				}
				return
			}
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors, want at least one")
			}
			found := false
			for _, msg := range errs {
				if strings.Contains(msg, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want message containing %q", errs, tt.wantErr)
			}
		})
	}
}

func TestCardDetails_ValidateCollectsAllErrors(t *testing.T) {
	card := CardDetails{}
	errs := card.Validate()
	if len(errs) != 6 {
		t.Fatalf("Validate() returned %d errors, want 6: %v", len(errs), errs)
	}
}
