package model

import "time"

type Session struct {
	Id      SessionID `json:"id"`
	FilmId  FilmID    `json:"filmId"`
	HallId  HallID    `json:"hallId"`
	StartAt time.Time `json:"startAt"`
}

type Period string

const (
	PeriodEveryDay  Period = "EVERY_DAY"
	PeriodEveryWeek Period = "EVERY_WEEK"
)

// PeriodicConfig asks the server to expand one session into a series. The
// client only previews the resulting count; generation is server-side.
type PeriodicConfig struct {
	Period                 Period    `json:"period" validate:"required,oneof=EVERY_DAY EVERY_WEEK"`
	PeriodGenerationEndsAt time.Time `json:"periodGenerationEndsAt" validate:"required"`
}

type SessionCreate struct {
	FilmId         FilmID          `json:"filmId" validate:"required"`
	HallId         HallID          `json:"hallId" validate:"required"`
	StartAt        time.Time       `json:"startAt" validate:"required"`
	PeriodicConfig *PeriodicConfig `json:"periodicConfig,omitempty" validate:"omitempty"`
}

type SessionUpdate struct {
	FilmId  FilmID    `json:"filmId,omitempty"`
	HallId  HallID    `json:"hallId" validate:"required"`
	StartAt time.Time `json:"startAt" validate:"required"`
}
