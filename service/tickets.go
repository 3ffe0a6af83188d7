package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"kinoseat-cli/model"
)

// GetTickets lists the per-session occupancy records. One ticket exists
// per (session, seat) pair; its status is what the seat grid renders.
func (c *Client) GetTickets(ctx context.Context, sessionID model.SessionID) ([]model.Ticket, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	endpoint := fmt.Sprintf("%s/sessions/%s/tickets", c.baseURL, url.PathEscape(string(sessionID)))

	var tickets []model.Ticket
	if err := c.getJSON(ctx, endpoint, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ReserveTicket places a time-limited hold on a ticket. A 409 means the
// ticket went to someone else first; check with IsConflict.
func (c *Client) ReserveTicket(ctx context.Context, id model.TicketID) (model.Ticket, error) {
	if id == "" {
		return model.Ticket{}, errors.New("ticket id is required")
	}
	endpoint := fmt.Sprintf("%s/tickets/%s/reserve", c.baseURL, url.PathEscape(string(id)))

	var ticket model.Ticket
	if err := c.postJSON(ctx, endpoint, nil, &ticket, nil); err != nil {
		return model.Ticket{}, err
	}
	return ticket, nil
}

// CancelReservation releases a hold before it expires on its own.
func (c *Client) CancelReservation(ctx context.Context, id model.TicketID) (model.Ticket, error) {
	if id == "" {
		return model.Ticket{}, errors.New("ticket id is required")
	}
	endpoint := fmt.Sprintf("%s/tickets/%s/cancel", c.baseURL, url.PathEscape(string(id)))

	var ticket model.Ticket
	if err := c.postJSON(ctx, endpoint, nil, &ticket, nil); err != nil {
		return model.Ticket{}, err
	}
	return ticket, nil
}
