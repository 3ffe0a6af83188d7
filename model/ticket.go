package model

import "time"

type TicketStatus string

const (
	TicketAvailable TicketStatus = "AVAILABLE"
	TicketReserved  TicketStatus = "RESERVED"
	TicketSold      TicketStatus = "SOLD"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Taken reports whether the status blocks selection.
func (s TicketStatus) Taken() bool {
	return s != "" && s != TicketAvailable
}

// Ticket is the per-session occupancy record for one seat. Its Status is
// the signal the seat grid renders; its PriceCents is the amount actually
// charged once the ticket is part of a purchase.
type Ticket struct {
	Id            TicketID     `json:"id"`
	SessionId     SessionID    `json:"sessionId"`
	SeatId        SeatID       `json:"seatId"`
	CategoryId    CategoryID   `json:"categoryId"`
	PriceCents    int64        `json:"priceCents"`
	Status        TicketStatus `json:"status"`
	ReservedUntil time.Time    `json:"reservedUntil,omitempty"`
}
