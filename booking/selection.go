package booking

import "kinoseat-cli/model"

// Selection is the set of seats picked for the active session, kept in the
// order they were picked: the reservation loop later walks it in exactly
// this order. The selection knows nothing about tickets; availability is
// enforced by the Workflow before Toggle is called.
type Selection struct {
	seats []model.SeatID
}

// Toggle flips membership of the seat and reports whether it is now
// selected.
func (s *Selection) Toggle(id model.SeatID) bool {
	for i, existing := range s.seats {
		if existing == id {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return false
		}
	}
	s.seats = append(s.seats, id)
	return true
}

func (s *Selection) Has(id model.SeatID) bool {
	for _, existing := range s.seats {
		if existing == id {
			return true
		}
	}
	return false
}

func (s *Selection) Clear() {
	s.seats = nil
}

func (s *Selection) Count() int {
	return len(s.seats)
}

// Seats returns the selected seat ids in selection order.
func (s *Selection) Seats() []model.SeatID {
	out := make([]model.SeatID, len(s.seats))
	copy(out, s.seats)
	return out
}

// TotalCents sums the category price of every selected seat via the hall
// plan. A seat missing from the plan, or one referencing an unknown
// category, contributes zero; the empty selection totals zero.
func (s *Selection) TotalCents(plan model.Plan) int64 {
	if len(s.seats) == 0 {
		return 0
	}

	priceByCategory := make(map[model.CategoryID]int64, len(plan.Categories))
	for _, category := range plan.Categories {
		priceByCategory[category.Id] = category.PriceCents
	}
	categoryBySeat := make(map[model.SeatID]model.CategoryID, len(plan.Seats))
	for _, seat := range plan.Seats {
		categoryBySeat[seat.Id] = seat.CategoryId
	}

	var total int64
	for _, id := range s.seats {
		category, ok := categoryBySeat[id]
		if !ok {
			continue
		}
		total += priceByCategory[category]
	}
	return total
}
