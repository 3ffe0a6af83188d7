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

func (c *Client) GetPurchases(ctx context.Context, page model.PageQuery) (model.PurchaseList, error) {
	query := url.Values{}
	query.Set("page", fmt.Sprint(page.Page))
	query.Set("size", fmt.Sprint(page.Size))
	endpoint := fmt.Sprintf("%s/purchases?%s", c.baseURL, query.Encode())

	var res model.PurchaseList
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.PurchaseList{}, err
	}
	return res, nil
}

func (c *Client) GetPurchase(ctx context.Context, id model.PurchaseID) (model.Purchase, error) {
	if id == "" {
		return model.Purchase{}, errors.New("purchase id is required")
	}
	endpoint := fmt.Sprintf("%s/purchases/%s", c.baseURL, url.PathEscape(string(id)))

	var res model.Purchase
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.Purchase{}, err
	}
	return res, nil
}

// CreatePurchase groups previously reserved tickets for one payment. The
// call carries an idempotency key so a retried request cannot produce two
// purchases over the same tickets.
func (c *Client) CreatePurchase(ctx context.Context, ticketIDs []model.TicketID) (model.Purchase, error) {
	if len(ticketIDs) == 0 {
		return model.Purchase{}, errors.New("at least one ticket id is required")
	}
	endpoint := fmt.Sprintf("%s/purchases", c.baseURL)
	extra := http.Header{idempotencyHeader: []string{uuid.NewString()}}

	var res model.Purchase
	if err := c.postJSON(ctx, endpoint, model.PurchaseCreate{TicketIds: ticketIDs}, &res, extra); err != nil {
		return model.Purchase{}, err
	}
	return res, nil
}

func (c *Client) CancelPurchase(ctx context.Context, id model.PurchaseID) (model.Purchase, error) {
	if id == "" {
		return model.Purchase{}, errors.New("purchase id is required")
	}
	endpoint := fmt.Sprintf("%s/purchases/%s/cancel", c.baseURL, url.PathEscape(string(id)))

	var res model.Purchase
	if err := c.postJSON(ctx, endpoint, nil, &res, nil); err != nil {
		return model.Purchase{}, err
	}
	return res, nil
}
