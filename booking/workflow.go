package booking

import (
	"errors"

	"kinoseat-cli/model"
)

// Phase is the workflow position. There is no separate "seats selected"
// phase: PhasePlanLoaded with a non-empty selection plays that role, which
// keeps toggling the last seat away from being a transition.
type Phase int

const (
	PhaseNoSession Phase = iota
	PhaseSessionChosen
	PhasePlanLoaded
	PhaseReserving
	PhaseReserved
	PhasePaying
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseNoSession:
		return "no-session"
	case PhaseSessionChosen:
		return "session-chosen"
	case PhasePlanLoaded:
		return "plan-loaded"
	case PhaseReserving:
		return "reserving"
	case PhaseReserved:
		return "reserved"
	case PhasePaying:
		return "paying"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// SeatClass is the render classification for one seat in the grid.
type SeatClass int

const (
	SeatAvailable SeatClass = iota
	SeatSelected
	SeatReserved
	SeatSold
)

var (
	ErrNoSelection     = errors.New("no seats selected")
	ErrPlanNotLoaded   = errors.New("hall plan and tickets not loaded")
	ErrBookingInFlight = errors.New("a booking is already in progress")
	ErrNoPurchase      = errors.New("no open purchase")
)

// Workflow owns the whole booking state for one client: active session,
// hall plan, ticket list, seat selection and open purchase. The UI reads
// it and feeds user intents and fetch results in; it never mutates the
// fields directly. All methods run on the UI goroutine.
type Workflow struct {
	phase   Phase
	session model.Session

	plan       model.Plan
	planSet    bool
	tickets    []model.Ticket
	ticketsSet bool

	ticketBySeat map[model.SeatID]model.Ticket
	ticketByID   map[model.TicketID]model.Ticket

	selection Selection

	purchase    model.Purchase
	hasPurchase bool

	err error
}

func NewWorkflow() *Workflow {
	return &Workflow{phase: PhaseNoSession}
}

func (w *Workflow) Phase() Phase                  { return w.phase }
func (w *Workflow) Session() model.Session        { return w.session }
func (w *Workflow) Plan() model.Plan              { return w.plan }
func (w *Workflow) Err() error                    { return w.err }
func (w *Workflow) SelectedCount() int            { return w.selection.Count() }
func (w *Workflow) SelectedSeats() []model.SeatID { return w.selection.Seats() }

func (w *Workflow) Purchase() (model.Purchase, bool) {
	return w.purchase, w.hasPurchase
}

// ChooseSession makes the session active and resets everything scoped to
// the previous one: selection, plan, tickets and any open purchase.
func (w *Workflow) ChooseSession(session model.Session) {
	w.session = session
	w.phase = PhaseSessionChosen
	w.planSet = false
	w.ticketsSet = false
	w.plan = model.Plan{}
	w.tickets = nil
	w.ticketBySeat = nil
	w.ticketByID = nil
	w.selection.Clear()
	w.purchase = model.Purchase{}
	w.hasPurchase = false
	w.err = nil
}

// ApplyPlan installs a fetched hall plan. The originating session id is
// compared against the active session so a slow fetch for a previously
// chosen session can never overwrite the current one; stale responses are
// dropped and the method reports false.
func (w *Workflow) ApplyPlan(sessionID model.SessionID, plan model.Plan) bool {
	if sessionID != w.session.Id {
		return false
	}
	w.plan = plan
	w.planSet = true
	w.maybeLoaded()
	return true
}

// ApplyTickets installs a fetched ticket list, with the same staleness
// guard as ApplyPlan. It is also how the post-payment refetch lands.
func (w *Workflow) ApplyTickets(sessionID model.SessionID, tickets []model.Ticket) bool {
	if sessionID != w.session.Id {
		return false
	}
	w.tickets = tickets
	w.ticketsSet = true
	w.ticketBySeat = make(map[model.SeatID]model.Ticket, len(tickets))
	w.ticketByID = make(map[model.TicketID]model.Ticket, len(tickets))
	for _, ticket := range tickets {
		w.ticketBySeat[ticket.SeatId] = ticket
		w.ticketByID[ticket.Id] = ticket
	}
	w.maybeLoaded()
	return true
}

func (w *Workflow) maybeLoaded() {
	if w.phase == PhaseSessionChosen && w.planSet && w.ticketsSet {
		w.phase = PhasePlanLoaded
	}
}

// SeatStatus derives the occupancy of a seat by joining the ticket list on
// seat id. A seat with no ticket row is treated as available: a consistent
// backend always has one ticket per (session, seat), but a missing row
// must degrade gracefully rather than crash or block the seat.
func (w *Workflow) SeatStatus(id model.SeatID) model.TicketStatus {
	if ticket, ok := w.ticketBySeat[id]; ok {
		return ticket.Status
	}
	return model.TicketAvailable
}

// TicketForSeat resolves the session ticket covering a seat.
func (w *Workflow) TicketForSeat(id model.SeatID) (model.Ticket, bool) {
	ticket, ok := w.ticketBySeat[id]
	return ticket, ok
}

// ToggleSeat flips the selection of a seat. It is a no-op unless the plan
// is loaded, no reservation or payment is in flight, and the seat's
// derived status is available.
func (w *Workflow) ToggleSeat(id model.SeatID) bool {
	if w.phase != PhasePlanLoaded {
		return false
	}
	if w.SeatStatus(id) != model.TicketAvailable {
		return false
	}
	w.err = nil
	w.selection.Toggle(id)
	return true
}

// SeatClass classifies a seat for rendering. Sold and reserved win over
// selection; a selected class is only reachable for available seats
// because ToggleSeat refuses everything else.
func (w *Workflow) SeatClass(id model.SeatID) SeatClass {
	switch w.SeatStatus(id) {
	case model.TicketSold, model.TicketCancelled:
		return SeatSold
	case model.TicketReserved:
		return SeatReserved
	}
	if w.selection.Has(id) {
		return SeatSelected
	}
	return SeatAvailable
}

// SeatDisabled reports whether clicks on the seat should be ignored.
func (w *Workflow) SeatDisabled(id model.SeatID) bool {
	return w.SeatStatus(id) != model.TicketAvailable
}

// SelectionTotalCents is the running total shown while picking seats. It
// prices via Category.PriceCents from the hall plan — the pre-reservation
// price source. Ticket.PriceCents is only summed once tickets are bound to
// a purchase (PurchaseTotalCents); the two sources are never mixed.
func (w *Workflow) SelectionTotalCents() int64 {
	return w.selection.TotalCents(w.plan)
}

// PurchaseTotalCents sums Ticket.PriceCents over the open purchase's
// tickets — the authoritative amount the payment will charge. Zero when no
// purchase is open.
func (w *Workflow) PurchaseTotalCents() int64 {
	if !w.hasPurchase {
		return 0
	}
	var total int64
	for _, id := range w.purchase.TicketIds {
		total += w.ticketByID[id].PriceCents
	}
	return total
}

// PurchaseTickets resolves the open purchase's ticket rows, in purchase
// order, for the confirmation screen.
func (w *Workflow) PurchaseTickets() []model.Ticket {
	if !w.hasPurchase {
		return nil
	}
	tickets := make([]model.Ticket, 0, len(w.purchase.TicketIds))
	for _, id := range w.purchase.TicketIds {
		if ticket, ok := w.ticketByID[id]; ok {
			tickets = append(tickets, ticket)
		}
	}
	return tickets
}

// BeginReserve validates the confirm intent and returns the ticket ids to
// reserve, in selection order. Seats whose ticket row is missing are
// skipped, matching the join tolerance of SeatStatus. Re-entrant confirms
// are rejected while a reservation or payment is in flight.
func (w *Workflow) BeginReserve() ([]model.TicketID, error) {
	switch w.phase {
	case PhaseReserving, PhasePaying:
		return nil, ErrBookingInFlight
	case PhasePlanLoaded:
	default:
		return nil, ErrPlanNotLoaded
	}
	if w.selection.Count() == 0 {
		return nil, ErrNoSelection
	}

	ids := make([]model.TicketID, 0, w.selection.Count())
	for _, seatID := range w.selection.Seats() {
		if ticket, ok := w.ticketBySeat[seatID]; ok {
			ids = append(ids, ticket.Id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoSelection
	}
	w.err = nil
	w.phase = PhaseReserving
	return ids, nil
}

// CompleteReserve records the purchase created from the reserved tickets.
func (w *Workflow) CompleteReserve(purchase model.Purchase) {
	if w.phase != PhaseReserving {
		return
	}
	w.purchase = purchase
	w.hasPurchase = true
	w.err = nil
	w.phase = PhaseReserved
}

// FailReserve returns to seat picking with the selection preserved so the
// user can retry after the error.
func (w *Workflow) FailReserve(err error) {
	if w.phase != PhaseReserving {
		return
	}
	w.err = err
	w.phase = PhasePlanLoaded
}

// BeginPay guards against double submits while a payment is in flight.
func (w *Workflow) BeginPay() (model.Purchase, error) {
	if w.phase == PhasePaying {
		return model.Purchase{}, ErrBookingInFlight
	}
	if w.phase != PhaseReserved || !w.hasPurchase {
		return model.Purchase{}, ErrNoPurchase
	}
	w.err = nil
	w.phase = PhasePaying
	return w.purchase, nil
}

// CompletePay finishes the booking: purchase and selection are cleared.
// The caller refetches the ticket list so the sold seats render with their
// new status, and calls Acknowledge to drop back to the seat grid.
func (w *Workflow) CompletePay() {
	if w.phase != PhasePaying {
		return
	}
	w.purchase = model.Purchase{}
	w.hasPurchase = false
	w.selection.Clear()
	w.err = nil
	w.phase = PhaseCompleted
}

// Acknowledge leaves the completed screen and returns to the loaded plan.
func (w *Workflow) Acknowledge() {
	if w.phase == PhaseCompleted {
		w.phase = PhasePlanLoaded
	}
}

// FailPay keeps the purchase open so payment can be retried with corrected
// card data, without re-selecting or re-reserving.
func (w *Workflow) FailPay(err error) {
	if w.phase != PhasePaying {
		return
	}
	w.err = err
	w.phase = PhaseReserved
}
