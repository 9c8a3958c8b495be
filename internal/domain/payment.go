package domain

import (
	"context"
	"regexp"
	"strings"
)

var (
	cardNumberRe  = regexp.MustCompile(`^\d{16}$`)
	expireMonthRe = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	expireYearRe  = regexp.MustCompile(`^20\d{2}$`)
	cvcRe         = regexp.MustCompile(`^\d{3}$`)
)

// CardDetails carries the billing fields submitted to the payment gate.
// Validation happens locally before any collaborator call.
// swagger:model CardDetails
type CardDetails struct {
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	ExpireMonth    string `json:"expire_month"`
	ExpireYear     string `json:"expire_year"`
	CVC            string `json:"cvc"`
	Address        string `json:"address"`
}

// Validate returns a list of error messages; nil means the card details are
// acceptable to submit.
func (c *CardDetails) Validate() []string {
	var errs []string
	if !cardNumberRe.MatchString(strings.ReplaceAll(c.CardNumber, " ", "")) {
		errs = append(errs, "card_number must be exactly 16 digits")
	}
	if strings.TrimSpace(c.CardHolderName) == "" {
		errs = append(errs, "card_holder_name is required")
	}
	if !expireMonthRe.MatchString(c.ExpireMonth) {
		errs = append(errs, "expire_month must be between 01 and 12")
	}
	if !expireYearRe.MatchString(c.ExpireYear) {
		errs = append(errs, "expire_year must be a 4-digit year starting with 20")
	}
	if !cvcRe.MatchString(c.CVC) {
		errs = append(errs, "cvc must be exactly 3 digits")
	}
	if len(strings.TrimSpace(c.Address)) < 10 {
		errs = append(errs, "address must be at least 10 characters")
	}
	return errs
}

// PaymentCharge is one charge request against the payment collaborator.
type PaymentCharge struct {
	EventID         string
	ParticipationID string
	Card            CardDetails
	// Amount is the event price in the smallest currency unit.
	Amount int64
}

// PaymentCollaborator submits charges to the external payment provider.
// A declined charge is reported as ErrPaymentDeclined; any other error is a
// transport failure and retryable.
type PaymentCollaborator interface {
	SubmitPayment(ctx context.Context, charge PaymentCharge) error
}

// PaymentService is the payment gate: it validates card details locally,
// charges the collaborator, and applies the resulting transition.
type PaymentService interface {
	// CollectPayment runs one payment attempt for the caller's participation.
	// On success the participation is COMPLETED; on decline it is
	// PAYMENT_FAILED and ErrPaymentDeclined is returned. A second concurrent
	// attempt for the same participation is ErrPaymentInFlight.
	CollectPayment(ctx context.Context, eventID, participationID, userID string, card CardDetails) (*Participation, error)
}
