package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"kinoseat-cli/model"
)

// ReservationAPI is the slice of the remote API the reservation sequence
// needs. service.Client satisfies it; tests use a fake.
type ReservationAPI interface {
	ReserveTicket(ctx context.Context, id model.TicketID) (model.Ticket, error)
	CancelReservation(ctx context.Context, id model.TicketID) (model.Ticket, error)
	CreatePurchase(ctx context.Context, ticketIDs []model.TicketID) (model.Purchase, error)
}

// ReserveAndPurchase reserves every ticket sequentially, in the given
// order, and only then creates one purchase over the full set. The
// sequence is all-or-nothing: if any reserve call fails, no purchase is
// created and the tickets reserved so far are released with compensating
// cancel calls. Compensation is best effort — a failed cancel is logged
// and left to the server-side reservedUntil expiry.
//
// A purchase-creation failure leaves the tickets reserved on purpose: the
// user can retry the purchase without re-reserving.
func ReserveAndPurchase(ctx context.Context, api ReservationAPI, log zerolog.Logger, ticketIDs []model.TicketID) (model.Purchase, error) {
	if len(ticketIDs) == 0 {
		return model.Purchase{}, ErrNoSelection
	}

	reserved := make([]model.TicketID, 0, len(ticketIDs))
	for _, id := range ticketIDs {
		if _, err := api.ReserveTicket(ctx, id); err != nil {
			releaseReserved(ctx, api, log, reserved)
			return model.Purchase{}, fmt.Errorf("reserve ticket %s: %w", id, err)
		}
		reserved = append(reserved, id)
	}

	purchase, err := api.CreatePurchase(ctx, reserved)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("create purchase: %w", err)
	}
	return purchase, nil
}

func releaseReserved(ctx context.Context, api ReservationAPI, log zerolog.Logger, reserved []model.TicketID) {
	for _, id := range reserved {
		if _, err := api.CancelReservation(ctx, id); err != nil {
			log.Warn().
				Str("ticket_id", string(id)).
				Err(err).
				Msg("failed to release reservation, waiting for server-side expiry")
		}
	}
}
