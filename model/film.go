package model

type Film struct {
	Id              FilmID `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	AgeRating       string `json:"ageRating"`
	ImageURL        string `json:"imageUrl,omitempty"`
}
