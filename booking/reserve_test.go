package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinoseat-cli/model"
)

type fakeReservationAPI struct {
	reserveErrs map[model.TicketID]error
	cancelErrs  map[model.TicketID]error
	purchaseErr error

	reserved  []model.TicketID
	cancelled []model.TicketID
	purchases [][]model.TicketID
}

func (f *fakeReservationAPI) ReserveTicket(_ context.Context, id model.TicketID) (model.Ticket, error) {
	if err := f.reserveErrs[id]; err != nil {
		return model.Ticket{}, err
	}
	f.reserved = append(f.reserved, id)
	return model.Ticket{Id: id, Status: model.TicketReserved}, nil
}

func (f *fakeReservationAPI) CancelReservation(_ context.Context, id model.TicketID) (model.Ticket, error) {
	if err := f.cancelErrs[id]; err != nil {
		return model.Ticket{}, err
	}
	f.cancelled = append(f.cancelled, id)
	return model.Ticket{Id: id, Status: model.TicketAvailable}, nil
}

func (f *fakeReservationAPI) CreatePurchase(_ context.Context, ticketIDs []model.TicketID) (model.Purchase, error) {
	if f.purchaseErr != nil {
		return model.Purchase{}, f.purchaseErr
	}
	f.purchases = append(f.purchases, ticketIDs)
	return model.Purchase{Id: "purchase-1", TicketIds: ticketIDs, Status: model.PurchasePending}, nil
}

func TestReserveAndPurchaseHappyPath(t *testing.T) {
	api := &fakeReservationAPI{}

	purchase, err := ReserveAndPurchase(context.Background(), api, zerolog.Nop(), []model.TicketID{"ticket-a", "ticket-c"})
	require.NoError(t, err)

	assert.Equal(t, []model.TicketID{"ticket-a", "ticket-c"}, api.reserved)
	require.Len(t, api.purchases, 1)
	assert.Equal(t, []model.TicketID{"ticket-a", "ticket-c"}, api.purchases[0])
	assert.Equal(t, []model.TicketID{"ticket-a", "ticket-c"}, purchase.TicketIds)
	assert.Empty(t, api.cancelled)
}

func TestReserveAndPurchaseEmptyInput(t *testing.T) {
	api := &fakeReservationAPI{}
	_, err := ReserveAndPurchase(context.Background(), api, zerolog.Nop(), nil)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, api.purchases)
}

func TestReserveFailureNeverCreatesPurchase(t *testing.T) {
	// Seat B went to another client between listing and reserving.
	api := &fakeReservationAPI{
		reserveErrs: map[model.TicketID]error{"ticket-b": errors.New("409 already reserved")},
	}

	_, err := ReserveAndPurchase(context.Background(), api, zerolog.Nop(), []model.TicketID{"ticket-a", "ticket-b", "ticket-c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticket-b")

	assert.Empty(t, api.purchases, "purchase must never be created on partial failure")
	assert.Equal(t, []model.TicketID{"ticket-a"}, api.reserved, "remaining reservations must be aborted")
	assert.Equal(t, []model.TicketID{"ticket-a"}, api.cancelled, "already reserved tickets are released")
}

func TestReserveFailureOnFirstTicketCancelsNothing(t *testing.T) {
	api := &fakeReservationAPI{
		reserveErrs: map[model.TicketID]error{"ticket-a": errors.New("boom")},
	}

	_, err := ReserveAndPurchase(context.Background(), api, zerolog.Nop(), []model.TicketID{"ticket-a", "ticket-b"})
	require.Error(t, err)
	assert.Empty(t, api.cancelled)
	assert.Empty(t, api.purchases)
}

func TestCompensationFailureIsTolerated(t *testing.T) {
	api := &fakeReservationAPI{
		reserveErrs: map[model.TicketID]error{"ticket-c": errors.New("sold")},
		cancelErrs:  map[model.TicketID]error{"ticket-a": errors.New("network down")},
	}

	_, err := ReserveAndPurchase(context.Background(), api, zerolog.Nop(), []model.TicketID{"ticket-a", "ticket-b", "ticket-c"})
	require.Error(t, err)

	// ticket-a's cancel failed and is left to reservedUntil expiry;
	// ticket-b's went through.
	assert.Equal(t, []model.TicketID{"ticket-b"}, api.cancelled)
	assert.Empty(t, api.purchases)
}

func TestPurchaseCreationFailureKeepsReservations(t *testing.T) {
	api := &fakeReservationAPI{purchaseErr: errors.New("500")}

	_, err := ReserveAndPurchase(context.Background(), api, zerolog.Nop(), []model.TicketID{"ticket-a", "ticket-b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create purchase")

	assert.Empty(t, api.cancelled, "reserved tickets stay reserved so the purchase can be retried")
	assert.Equal(t, []model.TicketID{"ticket-a", "ticket-b"}, api.reserved)
}
