package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"kinoseat-cli/model"
)

func (c *Client) GetHalls(ctx context.Context) (model.HallList, error) {
	endpoint := fmt.Sprintf("%s/halls", c.baseURL)

	var res model.HallList
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.HallList{}, err
	}
	return res, nil
}

// GetHall joins the hall row and its seating plan, which the backend
// serves as two resources.
func (c *Client) GetHall(ctx context.Context, id model.HallID) (model.HallDetails, error) {
	if id == "" {
		return model.HallDetails{}, errors.New("hall id is required")
	}

	var hall model.Hall
	if err := c.getJSON(ctx, fmt.Sprintf("%s/halls/%s", c.baseURL, url.PathEscape(string(id))), &hall); err != nil {
		return model.HallDetails{}, err
	}

	var plan model.Plan
	if err := c.getJSON(ctx, fmt.Sprintf("%s/halls/%s/plan", c.baseURL, url.PathEscape(string(id))), &plan); err != nil {
		return model.HallDetails{}, err
	}

	return model.HallDetails{Hall: hall, Plan: plan}, nil
}
