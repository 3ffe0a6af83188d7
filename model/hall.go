package model

// Hall is the physical room; its seating plan is served separately and
// joined into HallDetails by the service layer.
type Hall struct {
	Id     HallID `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Seat is a physical position in the hall plan. Its Status field belongs to
// the plan, not to any session: per-session occupancy is Ticket.Status and
// nothing in the booking flow may read Seat.Status for it.
type Seat struct {
	Id         SeatID       `json:"id"`
	Row        int          `json:"row"`
	Number     int          `json:"number"`
	CategoryId CategoryID   `json:"categoryId"`
	Status     TicketStatus `json:"status"`
}

// Category is a pricing tier. PriceCents is the price shown while seats are
// being picked; the charged amount comes from the ticket once reserved.
type Category struct {
	Id         CategoryID `json:"id"`
	Name       string     `json:"name"`
	PriceCents int64      `json:"priceCents"`
}

type Plan struct {
	Rows       int        `json:"rows"`
	Seats      []Seat     `json:"seats"`
	Categories []Category `json:"categories"`
}

type HallDetails struct {
	Hall
	Plan Plan `json:"plan"`
}
