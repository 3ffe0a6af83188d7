package model

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseCompleted PurchaseStatus = "COMPLETED"
	PurchaseCancelled PurchaseStatus = "CANCELLED"
	PurchaseFailed    PurchaseStatus = "FAILED"
)

// Purchase groups reserved tickets for a single payment.
type Purchase struct {
	Id         PurchaseID     `json:"id"`
	ClientId   ClientID       `json:"clientId"`
	FilmId     FilmID         `json:"filmId"`
	TicketIds  []TicketID     `json:"ticketIds"`
	TotalCents int64          `json:"totalCents"`
	Status     PurchaseStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type PurchaseCreate struct {
	TicketIds []TicketID `json:"ticketIds"`
}
