package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"kinoseat-cli/model"
)

// SessionFilter narrows GetSessions; zero fields are omitted from the
// query.
type SessionFilter struct {
	FilmId model.FilmID
	Date   time.Time
	Page   model.PageQuery
}

func (c *Client) GetSessions(ctx context.Context, filter SessionFilter) (model.SessionList, error) {
	query := url.Values{}
	query.Set("page", fmt.Sprint(filter.Page.Page))
	query.Set("size", fmt.Sprint(filter.Page.Size))
	if filter.FilmId != "" {
		query.Set("filmId", string(filter.FilmId))
	}
	if !filter.Date.IsZero() {
		query.Set("date", filter.Date.Format(time.DateOnly))
	}
	endpoint := fmt.Sprintf("%s/sessions?%s", c.baseURL, query.Encode())

	var res model.SessionList
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.SessionList{}, err
	}
	return res, nil
}

func (c *Client) GetSession(ctx context.Context, id model.SessionID) (model.Session, error) {
	if id == "" {
		return model.Session{}, errors.New("session id is required")
	}
	endpoint := fmt.Sprintf("%s/sessions/%s", c.baseURL, url.PathEscape(string(id)))

	var res model.Session
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.Session{}, err
	}
	return res, nil
}

// CreateSession submits one session spec. A periodic config is expanded
// into the full series server-side; the client never posts the generated
// rows itself.
func (c *Client) CreateSession(ctx context.Context, input model.SessionCreate) (model.Session, error) {
	var res model.Session
	if err := c.postJSON(ctx, fmt.Sprintf("%s/sessions", c.baseURL), input, &res, nil); err != nil {
		return model.Session{}, err
	}
	return res, nil
}

func (c *Client) UpdateSession(ctx context.Context, id model.SessionID, input model.SessionUpdate) (model.Session, error) {
	if id == "" {
		return model.Session{}, errors.New("session id is required")
	}
	endpoint := fmt.Sprintf("%s/sessions/%s", c.baseURL, url.PathEscape(string(id)))

	var res model.Session
	if err := c.putJSON(ctx, endpoint, input, &res); err != nil {
		return model.Session{}, err
	}
	return res, nil
}

func (c *Client) DeleteSession(ctx context.Context, id model.SessionID) error {
	if id == "" {
		return errors.New("session id is required")
	}
	return c.deleteJSON(ctx, fmt.Sprintf("%s/sessions/%s", c.baseURL, url.PathEscape(string(id))))
}
