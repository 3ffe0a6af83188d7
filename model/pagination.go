package model

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type PageQuery struct {
	Page int
	Size int
}

type FilmList struct {
	Data       []Film     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type HallList struct {
	Data       []Hall     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type SessionList struct {
	Data       []Session  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type PurchaseList struct {
	Data       []Purchase `json:"data"`
	Pagination Pagination `json:"pagination"`
}
