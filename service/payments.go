package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"kinoseat-cli/model"
)

// ProcessPayment submits the card payload for an open purchase. Idempotent
// via a generated key, so a timed-out submit can be retried without the
// risk of a double charge.
func (c *Client) ProcessPayment(ctx context.Context, req model.PaymentRequest) (model.PaymentResult, error) {
	if req.PurchaseId == "" {
		return model.PaymentResult{}, errors.New("purchase id is required")
	}
	endpoint := fmt.Sprintf("%s/payments", c.baseURL)
	extra := http.Header{idempotencyHeader: []string{uuid.NewString()}}

	var res model.PaymentResult
	if err := c.postJSON(ctx, endpoint, req, &res, extra); err != nil {
		return model.PaymentResult{}, err
	}
	return res, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, id model.PaymentID) (model.PaymentResult, error) {
	if id == "" {
		return model.PaymentResult{}, errors.New("payment id is required")
	}
	endpoint := fmt.Sprintf("%s/payments/%s", c.baseURL, url.PathEscape(string(id)))

	var res model.PaymentResult
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.PaymentResult{}, err
	}
	return res, nil
}
