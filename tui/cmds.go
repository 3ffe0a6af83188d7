package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kinoseat-cli/booking"
	"kinoseat-cli/model"
	"kinoseat-cli/service"
	"kinoseat-cli/store"
)

const (
	pageSize = 100

	pendingPollAttempts = 5
	pendingPollDelay    = 2 * time.Second
)

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type authMsg struct {
	token string
	role  service.Role
	err   error
}

type filmsMsg struct {
	films []model.Film
	err   error
}

type hallsMsg struct {
	halls []model.Hall
	err   error
}

type sessionsMsg struct {
	sessions []model.Session
	err      error
}

type planMsg struct {
	sessionID model.SessionID
	details   model.HallDetails
	err       error
}

type ticketsMsg struct {
	sessionID model.SessionID
	tickets   []model.Ticket
	err       error
}

type reserveMsg struct {
	sessionID model.SessionID
	purchase  model.Purchase
	err       error
}

type payMsg struct {
	result model.PaymentResult
	qrPath string
	err    error
}

type purchasesMsg struct {
	purchases  []model.Purchase
	filmTitles map[model.FilmID]string
	err        error
}

type purchaseUpdatedMsg struct {
	purchase model.Purchase
	err      error
}

type adminSessionsMsg struct {
	sessions []model.Session
	err      error
}

type sessionEditMsg struct {
	session model.Session
	err     error
}

type sessionSavedMsg struct {
	session model.Session
	err     error
}

type sessionDeletedMsg struct {
	id  model.SessionID
	err error
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithReturnCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState, returnStateSet: true}
	}
}

func (m appModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		token, err := m.client.Login(ctx, email, password)
		if err != nil {
			return authMsg{err: err}
		}
		role, _ := service.RoleFromToken(token)
		return authMsg{token: token, role: role}
	}
}

func (m appModel) registerCmd(input service.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		token, err := m.client.Register(ctx, input)
		if err != nil {
			return authMsg{err: err}
		}
		role, _ := service.RoleFromToken(token)
		return authMsg{token: token, role: role}
	}
}

func (m appModel) fetchFilmsCmd() tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadFilmCache(); err == nil && fresh && len(cached) > 0 {
			return filmsMsg{films: cached}
		}
		ctx := context.Background()
		res, err := m.client.GetFilms(ctx, model.PageQuery{Page: 1, Size: pageSize})
		if err == nil && len(res.Data) > 0 {
			_ = store.SaveFilmCache(res.Data)
		}
		return filmsMsg{films: res.Data, err: err}
	}
}

func (m appModel) fetchHallsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res, err := m.client.GetHalls(ctx)
		return hallsMsg{halls: res.Data, err: err}
	}
}

func (m appModel) fetchSessionsCmd(filmID model.FilmID, date time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res, err := m.client.GetSessions(ctx, service.SessionFilter{
			FilmId: filmID,
			Date:   date,
			Page:   model.PageQuery{Page: 1, Size: pageSize},
		})
		return sessionsMsg{sessions: res.Data, err: err}
	}
}

// fetchPlanCmd loads the hall layout for a session, preferring the local
// cache since layouts rarely change.
func (m appModel) fetchPlanCmd(hallID model.HallID, sessionID model.SessionID) tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadHallCache(hallID); err == nil && fresh && len(cached.Plan.Seats) > 0 {
			return planMsg{sessionID: sessionID, details: cached}
		}
		ctx := context.Background()
		details, err := m.client.GetHall(ctx, hallID)
		if err != nil {
			return planMsg{sessionID: sessionID, err: err}
		}
		_ = store.SaveHallCache(details)
		return planMsg{sessionID: sessionID, details: details}
	}
}

// fetchTicketsCmd always goes to the network: occupancy is the one thing
// that must be current.
func (m appModel) fetchTicketsCmd(sessionID model.SessionID) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tickets, err := m.client.GetTickets(ctx, sessionID)
		return ticketsMsg{sessionID: sessionID, tickets: tickets, err: err}
	}
}

func (m appModel) reserveCmd(sessionID model.SessionID, ticketIDs []model.TicketID) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		purchase, err := booking.ReserveAndPurchase(ctx, m.client, m.log, ticketIDs)
		return reserveMsg{sessionID: sessionID, purchase: purchase, err: err}
	}
}

func (m appModel) payCmd(purchase model.Purchase, card model.Card) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result, err := m.client.ProcessPayment(ctx, card.PaymentRequest(purchase.Id))
		if err != nil {
			return payMsg{err: err}
		}
		// A PENDING result means the processor has not settled yet; poll the
		// payment a few times before reporting the outcome.
		for attempt := 0; result.Status == model.PaymentPending && result.PaymentId != "" && attempt < pendingPollAttempts; attempt++ {
			time.Sleep(pendingPollDelay)
			next, err := m.client.GetPaymentStatus(ctx, result.PaymentId)
			if err != nil {
				break
			}
			result = next
		}
		var qrPath string
		if result.Status == model.PaymentSuccess {
			qrPath, _ = store.SavePurchaseQR(purchase)
		}
		return payMsg{result: result, qrPath: qrPath}
	}
}

// fetchPurchasesCmd loads the purchase history and backfills film titles
// the film list has not seen yet.
func (m appModel) fetchPurchasesCmd() tea.Cmd {
	known := make(map[model.FilmID]bool, len(m.filmTitles))
	for id := range m.filmTitles {
		known[id] = true
	}
	return func() tea.Msg {
		ctx := context.Background()
		res, err := m.client.GetPurchases(ctx, model.PageQuery{Page: 1, Size: pageSize})
		if err != nil {
			return purchasesMsg{err: err}
		}
		titles := map[model.FilmID]string{}
		for _, purchase := range res.Data {
			if purchase.FilmId == "" || known[purchase.FilmId] || titles[purchase.FilmId] != "" {
				continue
			}
			if film, err := m.client.GetFilm(ctx, purchase.FilmId); err == nil {
				titles[film.Id] = film.Title
			}
		}
		return purchasesMsg{purchases: res.Data, filmTitles: titles}
	}
}

func (m appModel) refreshPurchaseCmd(id model.PurchaseID) tea.Cmd {
	return func() tea.Msg {
		purchase, err := m.client.GetPurchase(context.Background(), id)
		return purchaseUpdatedMsg{purchase: purchase, err: err}
	}
}

func (m appModel) cancelPurchaseCmd(id model.PurchaseID) tea.Cmd {
	return func() tea.Msg {
		purchase, err := m.client.CancelPurchase(context.Background(), id)
		return purchaseUpdatedMsg{purchase: purchase, err: err}
	}
}

func (m appModel) fetchAdminSessionsCmd(date time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res, err := m.client.GetSessions(ctx, service.SessionFilter{
			Date: date,
			Page: model.PageQuery{Page: 1, Size: pageSize},
		})
		return adminSessionsMsg{sessions: res.Data, err: err}
	}
}

func (m appModel) createSessionCmd(input model.SessionCreate) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		session, err := m.client.CreateSession(ctx, input)
		return sessionSavedMsg{session: session, err: err}
	}
}

// editSessionCmd fetches the current session row so the edit form starts
// from what the server has, not from a possibly stale list item.
func (m appModel) editSessionCmd(id model.SessionID) tea.Cmd {
	return func() tea.Msg {
		session, err := m.client.GetSession(context.Background(), id)
		return sessionEditMsg{session: session, err: err}
	}
}

func (m appModel) updateSessionCmd(id model.SessionID, input model.SessionUpdate) tea.Cmd {
	return func() tea.Msg {
		session, err := m.client.UpdateSession(context.Background(), id, input)
		return sessionSavedMsg{session: session, err: err}
	}
}

func (m appModel) deleteSessionCmd(id model.SessionID) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := m.client.DeleteSession(ctx, id)
		return sessionDeletedMsg{id: id, err: err}
	}
}
