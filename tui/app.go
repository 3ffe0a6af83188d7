package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"kinoseat-cli/booking"
	"kinoseat-cli/model"
	"kinoseat-cli/service"
	"kinoseat-cli/store"
)

type appState int

const (
	stateLogin appState = iota
	stateRegister
	stateLoadingFilms
	stateSelectFilm
	stateSelectDate
	stateLoadingSessions
	stateSelectSession
	stateLoadingPlan
	stateSeatMap
	statePayment
	statePaying
	stateCompleted
	stateLoadingPurchases
	stateMyPurchases
	stateAdminMenu
	stateAdminSessions
	stateAdminSessionForm
	stateError
)

type appModel struct {
	client *service.Client
	flow   *booking.Workflow
	log    zerolog.Logger

	state     appState
	lastState appState
	err       error

	width  int
	height int

	role service.Role

	films      []model.Film
	hallNames  map[model.HallID]string
	filmTitles map[model.FilmID]string

	film   model.Film
	date   time.Time
	hall   model.HallDetails
	qrPath string

	dateReturnState    appState
	dateReturnStateSet bool

	filmList      list.Model
	sessionList   list.Model
	dateList      list.Model
	purchaseList  list.Model
	adminMenu     list.Model
	adminSessions list.Model

	purchaseRows []model.Purchase

	login       loginForm
	register    registerForm
	payment     paymentForm
	sessionEdit sessionForm

	grid    seatGrid
	spinner spinner.Model
}

func New(client *service.Client, log zerolog.Logger) tea.Model {
	m := appModel{
		client: client,
		flow:   booking.NewWorkflow(),
		log:    log,
		state:  stateLogin,
		date:   truncateDate(time.Now()),
		role:   service.RoleUser,
	}

	m.filmList = newList("Select Film")
	m.sessionList = newList("Sessions")
	m.dateList = newList("Select Date")
	m.purchaseList = newList("My Purchases")
	m.adminMenu = newList("Admin")
	m.adminMenu.SetFilteringEnabled(false)
	m.adminSessions = newList("Scheduled Sessions")

	m.hallNames = map[model.HallID]string{}
	m.filmTitles = map[model.FilmID]string{}

	m.login = newLoginForm()
	m.register = newRegisterForm()
	m.payment = newPaymentForm()
	m.sessionEdit = newSessionForm()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	if token := client.Token(); token != "" {
		if role, err := service.RoleFromToken(token); err == nil {
			m.role = role
		}
		m.state = stateLoadingFilms
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.state == stateLoadingFilms {
		return tea.Batch(m.fetchFilmsCmd(), m.fetchHallsCmd(), m.spinner.Tick)
	}
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		var keyCmd tea.Cmd
		var handled bool
		m, keyCmd, handled = m.handleKey(msg)
		if handled {
			return m, keyCmd
		}
		// fallthrough to component update
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		if service.IsUnauthorized(msg.err) {
			m.client.ClearToken()
			_ = store.ClearToken()
			m.err = errors.New("session expired, sign in again")
			m.state = stateLogin
			return m, nil
		}
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case authMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		_ = store.SaveToken(msg.token)
		m.role = msg.role
		m.err = nil
		m.state = stateLoadingFilms
		return m, tea.Batch(m.fetchFilmsCmd(), m.fetchHallsCmd(), m.spinner.Tick)

	case filmsMsg:
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return m, errCmd(msg.err)
			}
			return m, errWithReturnCmd(msg.err, stateLogin)
		}
		m.films = msg.films
		for _, film := range msg.films {
			m.filmTitles[film.Id] = film.Title
		}
		m.filmList.SetItems(buildFilmItems(msg.films))
		m.state = stateSelectFilm
		return m, nil

	case hallsMsg:
		if msg.err == nil {
			for _, hall := range msg.halls {
				m.hallNames[hall.Id] = hall.Name
			}
		}
		return m, nil

	case sessionsMsg:
		if m.state != stateLoadingSessions {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateSelectFilm)
		}
		if len(msg.sessions) == 0 {
			return m, errWithReturnCmd(
				fmt.Errorf("no sessions for %s on %s", m.film.Title, m.date.Format(time.DateOnly)),
				stateSelectFilm,
			)
		}
		m.sessionList.Title = fmt.Sprintf("Sessions • %s", m.film.Title)
		m.sessionList.SetItems(buildSessionItems(msg.sessions, m.hallNames))
		m.state = stateSelectSession
		return m, nil

	case planMsg:
		if msg.sessionID != m.flow.Session().Id {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateSelectSession)
		}
		if m.flow.ApplyPlan(msg.sessionID, msg.details.Plan) {
			m.hall = msg.details
		}
		return m.afterPlanOrTickets()

	case ticketsMsg:
		if msg.sessionID != m.flow.Session().Id {
			return m, nil
		}
		if msg.err != nil {
			if m.state == stateLoadingPlan {
				return m, errWithReturnCmd(msg.err, stateSelectSession)
			}
			m.err = msg.err
			return m, nil
		}
		m.flow.ApplyTickets(msg.sessionID, msg.tickets)
		return m.afterPlanOrTickets()

	case reserveMsg:
		if msg.sessionID != m.flow.Session().Id {
			return m, nil
		}
		if msg.err != nil {
			m.flow.FailReserve(msg.err)
			m.err = msg.err
			return m, tea.Batch(m.fetchTicketsCmd(msg.sessionID), m.spinner.Tick)
		}
		m.flow.CompleteReserve(msg.purchase)
		m.payment.reset()
		m.err = nil
		m.state = statePayment
		return m, nil

	case payMsg:
		if msg.err != nil {
			m.flow.FailPay(msg.err)
			m.err = msg.err
			m.state = statePayment
			return m, nil
		}
		if msg.result.Status != model.PaymentSuccess {
			failure := errors.New("payment declined")
			if msg.result.Message != "" {
				failure = errors.New(msg.result.Message)
			}
			m.flow.FailPay(failure)
			m.err = failure
			m.state = statePayment
			return m, nil
		}
		m.flow.CompletePay()
		m.qrPath = msg.qrPath
		m.err = nil
		m.state = stateCompleted
		return m, m.fetchTicketsCmd(m.flow.Session().Id)

	case purchasesMsg:
		if m.state != stateLoadingPurchases {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateSelectFilm)
		}
		for id, title := range msg.filmTitles {
			m.filmTitles[id] = title
		}
		m.purchaseRows = msg.purchases
		m.purchaseList.SetItems(buildPurchaseItems(m.purchaseRows, m.filmTitles))
		m.state = stateMyPurchases
		return m, nil

	case purchaseUpdatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		for i := range m.purchaseRows {
			if m.purchaseRows[i].Id == msg.purchase.Id {
				m.purchaseRows[i] = msg.purchase
			}
		}
		m.purchaseList.SetItems(buildPurchaseItems(m.purchaseRows, m.filmTitles))
		m.err = nil
		return m, nil

	case sessionEditMsg:
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateAdminSessions)
		}
		m.sessionEdit = newSessionFormEdit(msg.session)
		m.err = nil
		m.state = stateAdminSessionForm
		return m, nil

	case adminSessionsMsg:
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateAdminMenu)
		}
		m.adminSessions.Title = fmt.Sprintf("Scheduled Sessions • %s", m.date.Format(time.DateOnly))
		m.adminSessions.SetItems(buildAdminSessionItems(msg.sessions, m.filmTitles, m.hallNames))
		m.state = stateAdminSessions
		return m, nil

	case sessionSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = stateLoadingSessions
		return m, tea.Batch(m.fetchAdminSessionsCmd(m.date), m.spinner.Tick)

	case sessionDeletedMsg:
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateAdminSessions)
		}
		m.state = stateLoadingSessions
		return m, tea.Batch(m.fetchAdminSessionsCmd(m.date), m.spinner.Tick)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectFilm:
		m.filmList, cmd = m.filmList.Update(msg)
	case stateSelectSession:
		m.sessionList, cmd = m.sessionList.Update(msg)
	case stateSelectDate:
		m.dateList, cmd = m.dateList.Update(msg)
	case stateMyPurchases:
		m.purchaseList, cmd = m.purchaseList.Update(msg)
	case stateAdminMenu:
		m.adminMenu, cmd = m.adminMenu.Update(msg)
	case stateAdminSessions:
		m.adminSessions, cmd = m.adminSessions.Update(msg)
	case stateLogin:
		cmd = m.login.update(msg)
	case stateRegister:
		cmd = m.register.update(msg)
	case statePayment:
		cmd = m.payment.update(msg)
	case stateAdminSessionForm:
		cmd = m.sessionEdit.update(msg)
	}
	return m, cmd
}

// afterPlanOrTickets advances to the seat map once both halves of the
// session data have landed.
func (m appModel) afterPlanOrTickets() (tea.Model, tea.Cmd) {
	if m.state == stateLoadingPlan && m.flow.Phase() == booking.PhasePlanLoaded {
		m.grid = newSeatGrid(m.flow.Plan())
		m.state = stateSeatMap
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	}

	switch m.state {
	case stateLogin:
		return m.handleLoginKey(msg)
	case stateRegister:
		return m.handleRegisterKey(msg)
	case stateSeatMap:
		return m.handleSeatMapKey(msg)
	case statePayment:
		return m.handlePaymentKey(msg)
	case stateCompleted:
		if msg.Type == tea.KeyEnter {
			m.flow.Acknowledge()
			m.qrPath = ""
			m.state = stateSeatMap
			return m, nil, true
		}
		return m, nil, true
	case stateAdminSessionForm:
		return m.handleSessionFormKey(msg)
	}

	if msg.String() == "ctrl+a" && m.role == service.RoleAdmin && m.state == stateSelectFilm {
		m.adminMenu.SetItems(buildAdminMenuItems())
		m.state = stateAdminMenu
		return m, nil, true
	}

	if msg.String() == "ctrl+d" && (m.state == stateSelectFilm || m.state == stateSelectSession || m.state == stateAdminSessions) {
		m.openDatePicker(m.state)
		return m, nil, true
	}

	if msg.String() == "ctrl+u" && m.state == stateSelectFilm {
		m.err = nil
		m.state = stateLoadingPurchases
		return m, tea.Batch(m.fetchPurchasesCmd(), m.spinner.Tick), true
	}

	if msg.String() == "ctrl+x" && m.state == stateAdminSessions {
		return m.deleteSelectedSession()
	}

	if msg.String() == "ctrl+e" && m.state == stateAdminSessions {
		item, ok := m.adminSessions.SelectedItem().(adminSessionItem)
		if !ok {
			return m, nil, true
		}
		return m, m.editSessionCmd(item.session.Id), true
	}

	if msg.String() == "ctrl+x" && m.state == stateMyPurchases {
		item, ok := m.purchaseList.SelectedItem().(purchaseItem)
		if !ok {
			return m, nil, true
		}
		if item.purchase.Status != model.PurchasePending {
			m.err = errors.New("only pending purchases can be cancelled")
			return m, nil, true
		}
		return m, m.cancelPurchaseCmd(item.purchase.Id), true
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectFilm:
			item, ok := m.filmList.SelectedItem().(filmItem)
			if !ok {
				return m, nil, true
			}
			m.film = item.film
			_ = store.RememberFilm(m.film)
			m.state = stateLoadingSessions
			return m, tea.Batch(m.fetchSessionsCmd(m.film.Id, m.date), m.spinner.Tick), true

		case stateSelectSession:
			item, ok := m.sessionList.SelectedItem().(sessionItem)
			if !ok {
				return m, nil, true
			}
			m.flow.ChooseSession(item.session)
			m.err = nil
			m.state = stateLoadingPlan
			return m, tea.Batch(
				m.fetchPlanCmd(item.session.HallId, item.session.Id),
				m.fetchTicketsCmd(item.session.Id),
				m.spinner.Tick,
			), true

		case stateSelectDate:
			item, ok := m.dateList.SelectedItem().(dateItem)
			if !ok {
				return m, nil, true
			}
			m.date = item.date
			returnState := stateSelectFilm
			if m.dateReturnStateSet {
				returnState = m.dateReturnState
				m.dateReturnStateSet = false
			}
			switch returnState {
			case stateSelectSession:
				m.state = stateLoadingSessions
				return m, tea.Batch(m.fetchSessionsCmd(m.film.Id, m.date), m.spinner.Tick), true
			case stateAdminSessions:
				m.state = stateLoadingSessions
				return m, tea.Batch(m.fetchAdminSessionsCmd(m.date), m.spinner.Tick), true
			default:
				m.state = returnState
				return m, nil, true
			}

		case stateMyPurchases:
			item, ok := m.purchaseList.SelectedItem().(purchaseItem)
			if !ok {
				return m, nil, true
			}
			return m, m.refreshPurchaseCmd(item.purchase.Id), true

		case stateAdminMenu:
			item, ok := m.adminMenu.SelectedItem().(adminMenuItem)
			if !ok {
				return m, nil, true
			}
			switch item.state {
			case stateAdminSessions:
				m.state = stateLoadingSessions
				return m, tea.Batch(m.fetchAdminSessionsCmd(m.date), m.spinner.Tick), true
			case stateAdminSessionForm:
				m.sessionEdit = newSessionForm()
				m.err = nil
				m.state = stateAdminSessionForm
				return m, nil, true
			}
			return m, nil, true

		case stateError:
			m.state = m.lastState
			m.err = nil
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		m.login.next()
		return m, nil, true
	case "shift+tab", "up":
		m.login.prev()
		return m, nil, true
	case "ctrl+r":
		m.err = nil
		m.register.reset()
		m.state = stateRegister
		return m, nil, true
	case "enter":
		email, password := m.login.values()
		if strings.TrimSpace(email) == "" || password == "" {
			m.err = errors.New("email and password are required")
			return m, nil, true
		}
		m.err = nil
		return m, m.loginCmd(email, password), true
	}
	return m, nil, false
}

func (m appModel) handleRegisterKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		m.register.next()
		return m, nil, true
	case "shift+tab", "up":
		m.register.prev()
		return m, nil, true
	case "enter":
		input, err := m.register.input()
		if err != nil {
			m.err = err
			return m, nil, true
		}
		m.err = nil
		return m, m.registerCmd(input), true
	}
	return m, nil, false
}

func (m appModel) handleSeatMapKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "left", "h":
		m.grid.moveHorizontal(-1)
		return m, nil, true
	case "right", "l":
		m.grid.moveHorizontal(1)
		return m, nil, true
	case "up", "k":
		m.grid.moveVertical(-1)
		return m, nil, true
	case "down", "j":
		m.grid.moveVertical(1)
		return m, nil, true
	case " ", "x":
		if id := m.grid.current(); id != "" {
			m.flow.ToggleSeat(id)
			m.err = m.flow.Err()
		}
		return m, nil, true
	case "r":
		return m, tea.Batch(m.fetchTicketsCmd(m.flow.Session().Id), m.spinner.Tick), true
	case "enter":
		if m.flow.Phase() == booking.PhaseReserved {
			m.state = statePayment
			return m, nil, true
		}
		ids, err := m.flow.BeginReserve()
		if err != nil {
			m.err = err
			return m, nil, true
		}
		m.err = nil
		return m, tea.Batch(m.reserveCmd(m.flow.Session().Id, ids), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) handlePaymentKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		m.payment.next()
		return m, nil, true
	case "shift+tab", "up":
		m.payment.prev()
		return m, nil, true
	case "enter":
		card, err := m.payment.card()
		if err != nil {
			m.err = err
			return m, nil, true
		}
		purchase, err := m.flow.BeginPay()
		if err != nil {
			m.err = err
			return m, nil, true
		}
		m.err = nil
		m.state = statePaying
		return m, tea.Batch(m.payCmd(purchase, card), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) handleSessionFormKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		m.sessionEdit.next()
		return m, nil, true
	case "shift+tab", "up":
		m.sessionEdit.prev()
		return m, nil, true
	case "ctrl+p":
		m.sessionEdit.togglePeriodic()
		return m, nil, true
	case "ctrl+w":
		m.sessionEdit.togglePeriod()
		return m, nil, true
	case "enter":
		if m.sessionEdit.editing != "" {
			input, err := m.sessionEdit.updateInput()
			if err != nil {
				m.err = err
				return m, nil, true
			}
			m.err = nil
			return m, m.updateSessionCmd(m.sessionEdit.editing, input), true
		}
		input, err := m.sessionEdit.input()
		if err != nil {
			m.err = err
			return m, nil, true
		}
		m.err = nil
		return m, m.createSessionCmd(input), true
	}
	return m, nil, false
}

func (m appModel) deleteSelectedSession() (appModel, tea.Cmd, bool) {
	item, ok := m.adminSessions.SelectedItem().(adminSessionItem)
	if !ok {
		return m, nil, true
	}
	return m, m.deleteSessionCmd(item.session.Id), true
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	switch m.state {
	case stateRegister:
		m.err = nil
		m.state = stateLogin
	case stateSelectSession:
		m.state = stateSelectFilm
	case stateSeatMap:
		m.state = stateSelectSession
	case statePayment:
		// The purchase stays open; the seats remain reserved until paid
		// or expired server-side.
		m.state = stateSeatMap
	case stateCompleted:
		m.flow.Acknowledge()
		m.qrPath = ""
		m.state = stateSeatMap
	case stateMyPurchases:
		m.err = nil
		m.state = stateSelectFilm
	case stateSelectDate:
		if m.dateReturnStateSet {
			m.state = m.dateReturnState
			m.dateReturnStateSet = false
		} else {
			m.state = stateSelectFilm
		}
	case stateAdminMenu:
		m.state = stateSelectFilm
	case stateAdminSessions, stateAdminSessionForm:
		m.state = stateAdminMenu
	case stateError:
		m.state = m.lastState
		m.err = nil
	default:
		return m, nil
	}
	return m, nil
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLogin:
		return header + "\n\n" + m.login.view() + m.errLine() + "\n" + hint("enter sign in • ctrl+r create account • ctrl+c quit")
	case stateRegister:
		return header + "\n\n" + m.register.view() + m.errLine() + "\n" + hint("enter create account • esc back")
	case stateLoadingFilms, stateLoadingSessions, stateLoadingPlan, stateLoadingPurchases, statePaying:
		return header + "\n\n" + m.loadingView()
	case stateSelectFilm:
		return header + "\n\n" + m.filmList.View()
	case stateSelectSession:
		return header + "\n\n" + m.sessionList.View()
	case stateSelectDate:
		return header + "\n\n" + m.dateList.View()
	case stateSeatMap:
		return header + "\n\n" + m.seatMapView()
	case statePayment:
		return header + "\n\n" + m.paymentView()
	case stateCompleted:
		return header + "\n\n" + m.completedView()
	case stateMyPurchases:
		return header + "\n\n" + m.purchaseList.View() + m.errLine()
	case stateAdminMenu:
		return header + "\n\n" + m.adminMenu.View()
	case stateAdminSessions:
		return header + "\n\n" + m.adminSessions.View()
	case stateAdminSessionForm:
		return header + "\n\n" + m.sessionEdit.view() + m.errLine() + "\n" + hint("enter create • esc back")
	case stateError:
		return header + "\n\n" + errorStyle.Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

func (m appModel) errLine() string {
	if m.err == nil {
		return ""
	}
	return "\n" + errorStyle.Render(m.err.Error())
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("KinoSeat")
	sub := []string{}
	if m.film.Title != "" && m.state != stateSelectFilm && m.state != stateLogin && m.state != stateRegister {
		sub = append(sub, fmt.Sprintf("Film: %s", m.film.Title))
	}
	if session := m.flow.Session(); session.Id != "" &&
		(m.state == stateSeatMap || m.state == statePayment || m.state == statePaying || m.state == stateCompleted) {
		sub = append(sub, fmt.Sprintf("Session: %s", session.StartAt.Format("Mon 02 Jan 15:04")))
		if m.hall.Name != "" {
			sub = append(sub, fmt.Sprintf("Hall: %s", m.hall.Name))
		}
	}
	if !m.date.IsZero() && (m.state == stateSelectFilm || m.state == stateSelectSession || m.state == stateSelectDate || m.state == stateAdminSessions) {
		sub = append(sub, fmt.Sprintf("Date: %s", m.date.Format(time.DateOnly)))
	}
	if m.role == service.RoleAdmin && m.state != stateLogin && m.state != stateRegister {
		sub = append(sub, "Admin")
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}

	hints := "ctrl+c quit • esc back • type to filter"
	switch m.state {
	case stateSelectFilm:
		hints = "ctrl+c quit • type to filter • enter select • ctrl+d pick date • ctrl+u purchases"
		if m.role == service.RoleAdmin {
			hints += " • ctrl+a admin"
		}
	case stateSelectSession:
		hints = "ctrl+c quit • esc back • enter choose seats • ctrl+d pick date"
	case stateSeatMap:
		hints = "arrows move • space toggle seat • enter reserve • r refresh • esc back"
		if m.flow.Phase() == booking.PhaseReserved {
			hints = "enter continue to payment • esc back"
		}
	case statePayment:
		hints = "tab next field • enter pay • esc back"
	case stateMyPurchases:
		hints = "enter refresh • ctrl+x cancel pending • esc back"
	case stateAdminSessions:
		hints = "ctrl+e edit • ctrl+x delete session • ctrl+d pick date • esc back"
	case stateAdminSessionForm:
		hints = "tab next field • ctrl+p periodic • enter create • esc back"
	case stateLogin, stateRegister:
		hints = ""
	}

	out := title + meta
	if hints != "" {
		out += "\n" + hint(hints)
	}
	return out
}

func (m appModel) seatMapView() string {
	body := m.grid.render(m.flow)
	switch m.flow.Phase() {
	case booking.PhaseReserving:
		body += "\n" + fmt.Sprintf("%s Reserving seats...", m.spinner.View())
	case booking.PhaseReserved:
		if purchase, ok := m.flow.Purchase(); ok {
			body += "\n" + fmt.Sprintf("Reserved • purchase %s • %s", purchase.Id, model.FormatCents(m.flow.PurchaseTotalCents()))
		}
	}
	return body + m.errLine()
}

func (m appModel) paymentView() string {
	var b strings.Builder
	if purchase, ok := m.flow.Purchase(); ok {
		b.WriteString(fmt.Sprintf("Purchase %s\n", purchase.Id))
		for _, ticket := range m.flow.PurchaseTickets() {
			seat := m.seatLabel(ticket.SeatId)
			b.WriteString(fmt.Sprintf("  %s • %s\n", seat, model.FormatCents(ticket.PriceCents)))
		}
		b.WriteString(fmt.Sprintf("Total: %s\n\n", model.FormatCents(m.flow.PurchaseTotalCents())))
	}
	b.WriteString(m.payment.view())
	return b.String() + m.errLine()
}

func (m appModel) seatLabel(id model.SeatID) string {
	for _, seat := range m.hall.Plan.Seats {
		if seat.Id == id {
			return fmt.Sprintf("Row %d seat %d", seat.Row, seat.Number)
		}
	}
	return string(id)
}

func (m appModel) completedView() string {
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true).Render("Payment successful. Enjoy the film!")
	if m.qrPath != "" {
		body += "\n\n" + fmt.Sprintf("Entry QR code saved to %s", m.qrPath)
	}
	return body + "\n\n" + hint("Press enter to go back to the seat map.")
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	listPtr.SetFilterText(listPtr.FilterValue() + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	runes := []rune(value)
	if len(runes) <= 1 {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(string(runes[:len(runes)-1]))
}

func (m *appModel) openDatePicker(returnState appState) {
	m.dateReturnState = returnState
	m.dateReturnStateSet = true
	m.state = stateSelectDate
	m.dateList.SetItems(buildDateItems(m.date))
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectFilm:
		return &m.filmList
	case stateSelectSession:
		return &m.sessionList
	case stateMyPurchases:
		return &m.purchaseList
	case stateAdminSessions:
		return &m.adminSessions
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingFilms ||
		m.state == stateLoadingSessions ||
		m.state == stateLoadingPlan ||
		m.state == stateLoadingPurchases ||
		m.state == statePaying ||
		m.flow.Phase() == booking.PhaseReserving
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingFilms:
		title = "Loading films"
	case stateLoadingSessions:
		title = "Loading sessions"
	case stateLoadingPlan:
		title = "Loading seating plan"
	case stateLoadingPurchases:
		title = "Loading purchases"
	case statePaying:
		title = "Processing payment"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Talking to the box office..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.filmList.SetSize(m.width, h)
	m.sessionList.SetSize(m.width, h)
	m.dateList.SetSize(m.width, h)
	m.purchaseList.SetSize(m.width, h)
	m.adminMenu.SetSize(m.width, h)
	m.adminSessions.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingFilms:
		return stateLogin
	case stateLoadingSessions:
		return stateSelectFilm
	case stateLoadingPlan:
		return stateSelectSession
	case stateLoadingPurchases:
		return stateSelectFilm
	case statePaying:
		return statePayment
	case stateError:
		return stateSelectFilm
	default:
		return state
	}
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
