package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"kinoseat-cli/booking"
	"kinoseat-cli/model"
	"kinoseat-cli/service"
)

type testItem struct {
	value string
}

func (t testItem) Title() string       { return t.value }
func (t testItem) Description() string { return "" }
func (t testItem) FilterValue() string { return strings.ToLower(t.value) }

func newTestModel(t *testing.T) *appModel {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)

	model := New(service.NewClient("", nil), zerolog.Nop()).(appModel)
	return &model
}

func newFilterModel(t *testing.T, items []list.Item) *appModel {
	m := newTestModel(t)
	m.state = stateSelectFilm
	m.filmList = newList("Select Film")
	m.filmList.SetItems(items)
	return m
}

func TestHandleFilterInput_AppendsRunes(t *testing.T) {
	m := newFilterModel(t, []list.Item{
		testItem{value: "Solaris"},
		testItem{value: "Stalker"},
	})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.filmList.FilterValue(); got != "s" {
		t.Fatalf("expected filter value to be %q, got %q", "s", got)
	}

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.filmList.FilterValue(); got != "st" {
		t.Fatalf("expected filter value to be %q, got %q", "st", got)
	}
}

func TestHandleFilterInput_Backspace(t *testing.T) {
	m := newFilterModel(t, []list.Item{
		testItem{value: "Solaris"},
	})

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace to be handled")
	}
	if got := m.filmList.FilterValue(); got != "s" {
		t.Fatalf("expected filter value to be %q, got %q", "s", got)
	}
}

func loadedFlow(t *testing.T) (*booking.Workflow, model.Plan) {
	t.Helper()
	plan := model.Plan{
		Rows: 2,
		Seats: []model.Seat{
			{Id: "s-1", Row: 1, Number: 1, CategoryId: "c-1"},
			{Id: "s-3", Row: 1, Number: 3, CategoryId: "c-1"},
			{Id: "s-4", Row: 2, Number: 1, CategoryId: "c-1"},
		},
		Categories: []model.Category{{Id: "c-1", Name: "Standard", PriceCents: 50000}},
	}
	tickets := []model.Ticket{
		{Id: "t-1", SessionId: "sess-1", SeatId: "s-1", Status: model.TicketAvailable, PriceCents: 50000},
		{Id: "t-3", SessionId: "sess-1", SeatId: "s-3", Status: model.TicketSold, PriceCents: 50000},
		{Id: "t-4", SessionId: "sess-1", SeatId: "s-4", Status: model.TicketAvailable, PriceCents: 50000},
	}

	flow := booking.NewWorkflow()
	flow.ChooseSession(model.Session{Id: "sess-1", HallId: "h-1"})
	flow.ApplyPlan("sess-1", plan)
	flow.ApplyTickets("sess-1", tickets)
	return flow, plan
}

func TestSeatGrid_CursorSkipsGaps(t *testing.T) {
	_, plan := loadedFlow(t)
	grid := newSeatGrid(plan)

	if got := grid.current(); got != "s-1" {
		t.Fatalf("expected cursor on s-1, got %s", got)
	}

	grid.moveHorizontal(1)
	if got := grid.current(); got != "s-3" {
		t.Fatalf("expected gap at seat 2 to be skipped, got %s", got)
	}

	grid.moveHorizontal(1)
	if got := grid.current(); got != "s-3" {
		t.Fatalf("expected cursor to stay at row end, got %s", got)
	}

	grid.moveVertical(1)
	if got := grid.current(); got != "s-4" {
		t.Fatalf("expected nearest seat in next row, got %s", got)
	}
}

func TestSeatGrid_RenderShowsStatuses(t *testing.T) {
	flow, plan := loadedFlow(t)
	flow.ToggleSeat("s-1")
	grid := newSeatGrid(plan)
	grid.moveVertical(1)

	out := grid.render(flow)
	if !strings.Contains(out, "SCREEN") {
		t.Fatal("expected screen bar")
	}
	if !strings.Contains(out, "Standard 500,00") {
		t.Fatalf("expected category legend with price, got:\n%s", out)
	}
	if !strings.Contains(out, "Selected: 1 seat(s)") {
		t.Fatalf("expected selection summary, got:\n%s", out)
	}
}

func TestSeatGrid_ZeroIndexedRows(t *testing.T) {
	plan := model.Plan{
		Rows: 2,
		Seats: []model.Seat{
			{Id: "s-1", Row: 0, Number: 1, CategoryId: "c-1"},
			{Id: "s-2", Row: 0, Number: 2, CategoryId: "c-1"},
			{Id: "s-3", Row: 2, Number: 1, CategoryId: "c-1"},
		},
		Categories: []model.Category{{Id: "c-1", Name: "Standard", PriceCents: 50000}},
	}
	grid := newSeatGrid(plan)

	if got := grid.current(); got != "s-1" {
		t.Fatalf("expected cursor on the row-0 seat, got %q", got)
	}
	grid.moveHorizontal(1)
	if got := grid.current(); got != "s-2" {
		t.Fatalf("expected second row-0 seat, got %q", got)
	}
	// Sparse row values collapse to adjacent grid rows.
	grid.moveVertical(1)
	if got := grid.current(); got != "s-3" {
		t.Fatalf("expected the row-2 seat below, got %q", got)
	}

	flow := booking.NewWorkflow()
	flow.ChooseSession(model.Session{Id: "sess-1", HallId: "h-1"})
	flow.ApplyPlan("sess-1", plan)
	flow.ApplyTickets("sess-1", nil)

	out := grid.render(flow)
	if strings.Contains(out, "No seating plan data.") {
		t.Fatal("row-0 plan rendered as empty")
	}
	if !strings.Contains(out, "\n 0 ") {
		t.Fatalf("expected a row labelled 0, got:\n%s", out)
	}
	if !strings.Contains(out, "\n 2 ") {
		t.Fatalf("expected a row labelled 2, got:\n%s", out)
	}
}

func TestSeatLabel_MatchesGridRowLabels(t *testing.T) {
	m := newTestModel(t)
	m.hall = model.HallDetails{
		Plan: model.Plan{
			Seats: []model.Seat{{Id: "s-1", Row: 0, Number: 1, CategoryId: "c-1"}},
		},
	}
	if got := m.seatLabel("s-1"); got != "Row 0 seat 1" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestSeatMapKeys_ToggleAndReserve(t *testing.T) {
	m := newTestModel(t)
	flow, plan := loadedFlow(t)
	m.flow = flow
	m.grid = newSeatGrid(plan)
	m.state = stateSeatMap

	next, _, handled := m.handleSeatMapKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if !handled {
		t.Fatal("expected space to be handled")
	}
	if next.flow.SelectedCount() != 1 {
		t.Fatalf("expected one selected seat, got %d", next.flow.SelectedCount())
	}

	next, cmd, _ := next.handleSeatMapKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a reserve command")
	}
	if next.flow.Phase() != booking.PhaseReserving {
		t.Fatalf("expected reserving phase, got %s", next.flow.Phase())
	}
}

func TestSeatMapKeys_ReserveWithoutSelection(t *testing.T) {
	m := newTestModel(t)
	flow, plan := loadedFlow(t)
	m.flow = flow
	m.grid = newSeatGrid(plan)
	m.state = stateSeatMap

	next, cmd, _ := m.handleSeatMapKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command without a selection")
	}
	if next.err == nil {
		t.Fatal("expected a visible error")
	}
}

func TestGoBack_Chain(t *testing.T) {
	m := newTestModel(t)

	m.state = stateSeatMap
	next, _ := m.goBack()
	if next.state != stateSelectSession {
		t.Fatalf("expected session list, got %d", next.state)
	}

	next.state = stateSelectSession
	next, _ = next.goBack()
	if next.state != stateSelectFilm {
		t.Fatalf("expected film list, got %d", next.state)
	}

	next.state = stateAdminSessionForm
	next, _ = next.goBack()
	if next.state != stateAdminMenu {
		t.Fatalf("expected admin menu, got %d", next.state)
	}
}

func TestSessionForm_PeriodicPreview(t *testing.T) {
	form := newSessionForm()
	form.inputs[0].SetValue("f-1")
	form.inputs[1].SetValue("h-1")
	form.inputs[2].SetValue("2024-01-01 18:00")

	if _, ok := form.previewCount(); ok {
		t.Fatal("no preview expected for a one-off session")
	}

	form.togglePeriodic()
	if got := form.inputs[3].Value(); got != "2024-01-08" {
		t.Fatalf("expected pre-filled series end, got %q", got)
	}

	count, ok := form.previewCount()
	if !ok || count != 8 {
		t.Fatalf("expected 8 daily sessions, got %d ok=%v", count, ok)
	}

	form.togglePeriod()
	count, ok = form.previewCount()
	if !ok || count != 2 {
		t.Fatalf("expected 2 weekly sessions, got %d ok=%v", count, ok)
	}

	input, err := form.input()
	if err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if input.PeriodicConfig == nil || input.PeriodicConfig.Period != model.PeriodEveryWeek {
		t.Fatalf("unexpected periodic config: %+v", input.PeriodicConfig)
	}
}

func TestSessionForm_RejectsBadRange(t *testing.T) {
	form := newSessionForm()
	form.inputs[0].SetValue("f-1")
	form.inputs[1].SetValue("h-1")
	form.inputs[2].SetValue("2024-01-10 18:00")
	form.periodic = true
	form.inputs[3].SetValue("2024-01-10")

	if _, err := form.input(); err == nil {
		t.Fatal("expected error for end not after start")
	}
}

func TestPaymentForm_RejectsInvalidCard(t *testing.T) {
	form := newPaymentForm()
	form.inputs[0].SetValue("1234")
	form.inputs[1].SetValue("13/99")
	form.inputs[2].SetValue("12")
	form.inputs[3].SetValue("")

	if _, err := form.card(); err == nil {
		t.Fatal("expected invalid card to be rejected")
	}
}

func TestPaymentForm_AcceptsValidCard(t *testing.T) {
	form := newPaymentForm()
	form.inputs[0].SetValue("4242 4242 4242 4242")
	form.inputs[1].SetValue("12/30")
	form.inputs[2].SetValue("123")
	form.inputs[3].SetValue("IVAN PETROV")

	card, err := form.card()
	if err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}
	if card.Mask() != "**** **** **** 4242" {
		t.Fatalf("unexpected mask: %s", card.Mask())
	}
}

func TestBuildDateItems(t *testing.T) {
	base := time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)
	items := buildDateItems(base)
	if len(items) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(items))
	}
	first := items[0].(dateItem)
	if !first.date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected truncated base date, got %v", first.date)
	}
}

func TestUpdate_StalePlanErrorIgnored(t *testing.T) {
	m := newTestModel(t)
	flow := booking.NewWorkflow()
	flow.ChooseSession(model.Session{Id: "sess-2", HallId: "h-1"})
	m.flow = flow
	m.state = stateLoadingPlan

	next, cmd := m.Update(planMsg{sessionID: "sess-1", err: errors.New("boom")})
	model := next.(appModel)
	if model.state != stateLoadingPlan {
		t.Fatalf("stale fetch error changed state to %d", model.state)
	}
	if cmd != nil {
		t.Fatal("stale fetch error produced a command")
	}
}

func TestUpdate_StaleTicketsErrorIgnored(t *testing.T) {
	m := newTestModel(t)
	flow, _ := loadedFlow(t)
	m.flow = flow
	m.state = stateSeatMap

	next, _ := m.Update(ticketsMsg{sessionID: "sess-old", err: errors.New("boom")})
	model := next.(appModel)
	if model.err != nil {
		t.Fatalf("stale refresh error surfaced: %v", model.err)
	}
}

func TestUpdate_UnhandledKeyKeepsState(t *testing.T) {
	m := newTestModel(t)
	flow, plan := loadedFlow(t)
	m.flow = flow
	m.grid = newSeatGrid(plan)
	m.state = stateSeatMap

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	model := next.(appModel)
	if model.state != stateSeatMap {
		t.Fatalf("unexpected state: %d", model.state)
	}
	if cmd != nil {
		t.Fatal("expected no command for an unbound key")
	}
}

func TestUpdate_PurchasesOpenList(t *testing.T) {
	m := newTestModel(t)
	m.state = stateLoadingPurchases

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	next, _ := m.Update(purchasesMsg{
		purchases: []model.Purchase{
			{Id: "p-1", FilmId: "f-1", TicketIds: []model.TicketID{"t-1"}, TotalCents: 50000, Status: model.PurchaseCompleted, CreatedAt: created},
		},
		filmTitles: map[model.FilmID]string{"f-1": "Solaris"},
	})
	model := next.(appModel)
	if model.state != stateMyPurchases {
		t.Fatalf("expected purchases list, got %d", model.state)
	}
	if len(model.purchaseList.Items()) != 1 {
		t.Fatalf("expected 1 purchase item, got %d", len(model.purchaseList.Items()))
	}
	item := model.purchaseList.Items()[0].(purchaseItem)
	if !strings.Contains(item.Title(), "Solaris") {
		t.Fatalf("expected backfilled film title, got %q", item.Title())
	}

	model.state = stateMyPurchases
	back, _ := model.goBack()
	if back.state != stateSelectFilm {
		t.Fatalf("expected film list after esc, got %d", back.state)
	}
}

func TestMyPurchasesKeys_CancelOnlyPending(t *testing.T) {
	m := newTestModel(t)
	m.state = stateMyPurchases
	m.purchaseRows = []model.Purchase{
		{Id: "p-1", Status: model.PurchaseCompleted},
	}
	m.purchaseList.SetItems(buildPurchaseItems(m.purchaseRows, nil))

	next, cmd, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlX})
	if !handled {
		t.Fatal("expected ctrl+x to be handled")
	}
	if cmd != nil {
		t.Fatal("expected no cancel command for a completed purchase")
	}
	if next.err == nil {
		t.Fatal("expected a visible error")
	}

	next.err = nil
	next.purchaseRows = []model.Purchase{{Id: "p-2", Status: model.PurchasePending}}
	next.purchaseList.SetItems(buildPurchaseItems(next.purchaseRows, nil))
	next, cmd, _ = next.handleKey(tea.KeyMsg{Type: tea.KeyCtrlX})
	if cmd == nil {
		t.Fatal("expected a cancel command for a pending purchase")
	}
	if next.err != nil {
		t.Fatalf("unexpected error: %v", next.err)
	}
}

func TestSessionFormEdit_PrefillsAndUpdates(t *testing.T) {
	session := model.Session{
		Id:      "sess-1",
		FilmId:  "f-1",
		HallId:  "h-1",
		StartAt: time.Date(2024, 6, 1, 18, 0, 0, 0, time.Local),
	}
	form := newSessionFormEdit(session)
	if form.editing != "sess-1" {
		t.Fatalf("unexpected editing id: %s", form.editing)
	}
	if got := form.inputs[2].Value(); got != "2024-06-01 18:00" {
		t.Fatalf("unexpected start value: %q", got)
	}

	form.togglePeriodic()
	if form.periodic {
		t.Fatal("periodic mode must stay off while editing")
	}

	form.inputs[1].SetValue("h-2")
	input, err := form.updateInput()
	if err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if input.HallId != "h-2" || !input.StartAt.Equal(session.StartAt) {
		t.Fatalf("unexpected input: %+v", input)
	}
}

func TestHandleSessionFormKey_EditSubmitsUpdate(t *testing.T) {
	m := newTestModel(t)
	m.state = stateAdminSessionForm
	m.sessionEdit = newSessionFormEdit(model.Session{
		Id:      "sess-1",
		FilmId:  "f-1",
		HallId:  "h-1",
		StartAt: time.Date(2024, 6, 1, 18, 0, 0, 0, time.Local),
	})

	next, cmd, handled := m.handleSessionFormKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !handled {
		t.Fatal("expected enter to be handled")
	}
	if cmd == nil {
		t.Fatal("expected an update command")
	}
	if next.err != nil {
		t.Fatalf("unexpected error: %v", next.err)
	}
}

func TestUpdate_SessionEditMsgOpensForm(t *testing.T) {
	m := newTestModel(t)
	m.state = stateAdminSessions

	next, _ := m.Update(sessionEditMsg{session: model.Session{
		Id:      "sess-1",
		FilmId:  "f-1",
		HallId:  "h-1",
		StartAt: time.Date(2024, 6, 1, 18, 0, 0, 0, time.Local),
	}})
	model := next.(appModel)
	if model.state != stateAdminSessionForm {
		t.Fatalf("expected session form, got %d", model.state)
	}
	if model.sessionEdit.editing != "sess-1" {
		t.Fatalf("unexpected editing id: %s", model.sessionEdit.editing)
	}
}

func TestUpdate_UnauthorizedDropsToLogin(t *testing.T) {
	m := newTestModel(t)
	m.state = stateSelectFilm

	next, _ := m.Update(errMsg{err: &service.APIError{StatusCode: 401}})
	model := next.(appModel)
	if model.state != stateLogin {
		t.Fatalf("expected login state, got %d", model.state)
	}
}
