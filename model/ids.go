package model

// Distinct id types for each id space. A TicketID can never be passed where
// a SeatID is expected, even though both travel as strings on the wire.
type (
	FilmID     string
	HallID     string
	SessionID  string
	SeatID     string
	TicketID   string
	CategoryID string
	PurchaseID string
	ClientID   string
	PaymentID  string
)
