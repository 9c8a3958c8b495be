package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"eventmingle/internal/domain"
)

// chargeRequest is the wire format the payment provider accepts.
type chargeRequest struct {
	Reference      string `json:"reference"`
	EventID        string `json:"event_id"`
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	ExpireMonth    string `json:"expire_month"`
	ExpireYear     string `json:"expire_year"`
	CVC            string `json:"cvc"`
	Address        string `json:"address"`
	Amount         int64  `json:"amount"`
}

type chargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type httpCollaborator struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPCollaborator returns a PaymentCollaborator that submits charges to
// the payment provider's REST API. The client's timeout bounds each attempt;
// pass a client configured with the platform-wide request timeout.
func NewHTTPCollaborator(client *http.Client, baseURL, apiKey string) domain.PaymentCollaborator {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpCollaborator{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (c *httpCollaborator) SubmitPayment(ctx context.Context, charge domain.PaymentCharge) error {
	body, err := json.Marshal(chargeRequest{
		Reference:      charge.ParticipationID,
		EventID:        charge.EventID,
		CardNumber:     charge.Card.CardNumber,
		CardHolderName: charge.Card.CardHolderName,
		ExpireMonth:    charge.Card.ExpireMonth,
		ExpireYear:     charge.Card.ExpireYear,
		CVC:            charge.Card.CVC,
		Address:        charge.Card.Address,
		Amount:         charge.Amount,
	})
	if err != nil {
		return fmt.Errorf("failed to encode charge: %w", err)
	}

	url := fmt.Sprintf("%s/charges", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment provider: %w", err)
	}
	defer resp.Body.Close()

	// 402 is an explicit decline; any other non-2xx is a provider failure
	// and retryable.
	if resp.StatusCode == http.StatusPaymentRequired {
		return domain.ErrPaymentDeclined
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("payment provider returned status: %d", resp.StatusCode)
	}

	var result chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	if result.Status != "succeeded" {
		return domain.ErrPaymentDeclined
	}
	return nil
}
