package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"kinoseat-cli/model"
)

type media struct {
	Id string `json:"id"`
}

type filmResponse struct {
	Id              model.FilmID `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	DurationMinutes int          `json:"durationMinutes"`
	AgeRating       string       `json:"ageRating"`
	Poster          *media       `json:"poster,omitempty"`
}

type filmListResponse struct {
	Data       []filmResponse   `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

func (c *Client) filmFromResponse(res filmResponse) model.Film {
	film := model.Film{
		Id:              res.Id,
		Title:           res.Title,
		Description:     res.Description,
		DurationMinutes: res.DurationMinutes,
		AgeRating:       res.AgeRating,
	}
	if res.Poster != nil && res.Poster.Id != "" {
		film.ImageURL = fmt.Sprintf("%s/media/%s", c.baseURL, res.Poster.Id)
	}
	return film
}

// GetFilms lists films, newest page first according to the backend's
// ordering.
func (c *Client) GetFilms(ctx context.Context, page model.PageQuery) (model.FilmList, error) {
	query := url.Values{}
	query.Set("page", fmt.Sprint(page.Page))
	query.Set("size", fmt.Sprint(page.Size))
	endpoint := fmt.Sprintf("%s/films?%s", c.baseURL, query.Encode())

	var res filmListResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.FilmList{}, err
	}

	films := make([]model.Film, 0, len(res.Data))
	for _, film := range res.Data {
		films = append(films, c.filmFromResponse(film))
	}
	return model.FilmList{Data: films, Pagination: res.Pagination}, nil
}

func (c *Client) GetFilm(ctx context.Context, id model.FilmID) (model.Film, error) {
	if id == "" {
		return model.Film{}, errors.New("film id is required")
	}
	endpoint := fmt.Sprintf("%s/films/%s", c.baseURL, url.PathEscape(string(id)))

	var res filmResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return model.Film{}, err
	}
	return c.filmFromResponse(res), nil
}

