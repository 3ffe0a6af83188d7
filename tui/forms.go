package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"kinoseat-cli/booking"
	"kinoseat-cli/model"
	"kinoseat-cli/service"
)

var formValidator = validator.New()

const (
	startAtLayout = "2006-01-02 15:04"
	endDateLayout = "2006-01-02"
)

// form is a vertical stack of text inputs with one focused at a time.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newForm(inputs ...textinput.Model) form {
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return form{inputs: inputs}
}

func (f *form) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) prev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

func (f form) view(labels []string) string {
	var b strings.Builder
	for i, input := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, labels[i], input.View()))
	}
	return b.String()
}

func textField(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

type loginForm struct {
	form
}

func newLoginForm() loginForm {
	email := textField("user@example.com", 64)
	password := textField("password", 64)
	password.EchoMode = textinput.EchoPassword
	return loginForm{form: newForm(email, password)}
}

func (f loginForm) view() string {
	return f.form.view([]string{"Email", "Password"})
}

func (f loginForm) values() (string, string) {
	return f.inputs[0].Value(), f.inputs[1].Value()
}

type registerForm struct {
	form
}

func newRegisterForm() registerForm {
	email := textField("user@example.com", 64)
	password := textField("min 8 characters", 64)
	password.EchoMode = textinput.EchoPassword
	first := textField("First name", 48)
	last := textField("Last name", 48)
	age := textField("Age", 3)
	gender := textField("MALE / FEMALE", 6)
	return registerForm{form: newForm(email, password, first, last, age, gender)}
}

func (f registerForm) view() string {
	return f.form.view([]string{"Email", "Password", "First name", "Last name", "Age", "Gender"})
}

func (f registerForm) input() (service.RegisterInput, error) {
	age, err := strconv.Atoi(strings.TrimSpace(f.inputs[4].Value()))
	if err != nil {
		return service.RegisterInput{}, errors.New("age must be a number")
	}
	input := service.RegisterInput{
		Email:     strings.TrimSpace(f.inputs[0].Value()),
		Password:  f.inputs[1].Value(),
		FirstName: strings.TrimSpace(f.inputs[2].Value()),
		LastName:  strings.TrimSpace(f.inputs[3].Value()),
		Age:       age,
		Gender:    strings.ToUpper(strings.TrimSpace(f.inputs[5].Value())),
	}
	if err := formValidator.Struct(input); err != nil {
		return service.RegisterInput{}, err
	}
	return input, nil
}

type paymentForm struct {
	form
}

func newPaymentForm() paymentForm {
	number := textField("4242 4242 4242 4242", 23)
	expiry := textField("MM/YY", 5)
	cvv := textField("CVV", 4)
	cvv.EchoMode = textinput.EchoPassword
	holder := textField("Name on card", 64)
	return paymentForm{form: newForm(number, expiry, cvv, holder)}
}

func (f paymentForm) view() string {
	return f.form.view([]string{"Card number", "Expiry", "CVV", "Holder"})
}

// card validates the form input locally; an invalid card never produces a
// payment request.
func (f paymentForm) card() (model.Card, error) {
	card := model.NewCard(f.inputs[0].Value(), f.inputs[1].Value(), f.inputs[2].Value(), f.inputs[3].Value())
	if err := card.Validate(); err != nil {
		return model.Card{}, errors.New("check the card details: number, expiry (MM/YY), CVV and holder name")
	}
	return card, nil
}

// sessionForm is the admin screen for scheduling a session. Periodic mode
// is toggled with ctrl+p; the series size preview updates as the fields
// change.
type sessionForm struct {
	form
	periodic bool
	period   model.Period
	editing  model.SessionID
}

func newSessionForm() sessionForm {
	film := textField("Film id", 64)
	hall := textField("Hall id", 64)
	start := textField(startAtLayout, len(startAtLayout))
	end := textField(endDateLayout, len(endDateLayout))
	return sessionForm{form: newForm(film, hall, start, end), period: model.PeriodEveryDay}
}

// newSessionFormEdit prefills the form from an existing session. Periodic
// settings are fixed at creation, so editing never touches them.
func newSessionFormEdit(session model.Session) sessionForm {
	f := newSessionForm()
	f.editing = session.Id
	f.inputs[0].SetValue(string(session.FilmId))
	f.inputs[1].SetValue(string(session.HallId))
	f.inputs[2].SetValue(session.StartAt.Format(startAtLayout))
	return f
}

func (f *sessionForm) togglePeriodic() {
	if f.editing != "" {
		return
	}
	f.periodic = !f.periodic
	if f.periodic && strings.TrimSpace(f.inputs[3].Value()) == "" {
		if start, err := f.startAt(); err == nil {
			f.inputs[3].SetValue(booking.DefaultPeriodEnd(start).Format(endDateLayout))
		}
	}
}

func (f *sessionForm) togglePeriod() {
	if f.period == model.PeriodEveryDay {
		f.period = model.PeriodEveryWeek
	} else {
		f.period = model.PeriodEveryDay
	}
}

func (f sessionForm) startAt() (time.Time, error) {
	return time.ParseInLocation(startAtLayout, strings.TrimSpace(f.inputs[2].Value()), time.Local)
}

func (f sessionForm) endsAt() (time.Time, error) {
	end, err := time.ParseInLocation(endDateLayout, strings.TrimSpace(f.inputs[3].Value()), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	start, startErr := f.startAt()
	if startErr != nil {
		return end, nil
	}
	// Generation ends at the same time of day as the first session.
	return time.Date(end.Year(), end.Month(), end.Day(),
		start.Hour(), start.Minute(), 0, 0, time.Local), nil
}

// previewCount mirrors what the server would generate for the current
// fields. Not shown for an invalid or non-periodic range.
func (f sessionForm) previewCount() (int, bool) {
	if !f.periodic {
		return 0, false
	}
	start, err := f.startAt()
	if err != nil {
		return 0, false
	}
	end, err := f.endsAt()
	if err != nil {
		return 0, false
	}
	return booking.CalculateSessionCount(start, end, f.period)
}

func (f sessionForm) input() (model.SessionCreate, error) {
	start, err := f.startAt()
	if err != nil {
		return model.SessionCreate{}, fmt.Errorf("start must match %s", startAtLayout)
	}
	input := model.SessionCreate{
		FilmId:  model.FilmID(strings.TrimSpace(f.inputs[0].Value())),
		HallId:  model.HallID(strings.TrimSpace(f.inputs[1].Value())),
		StartAt: start,
	}
	if f.periodic {
		end, err := f.endsAt()
		if err != nil {
			return model.SessionCreate{}, fmt.Errorf("end must match %s", endDateLayout)
		}
		if !end.After(start) {
			return model.SessionCreate{}, errors.New("generation end must be after the first session")
		}
		input.PeriodicConfig = &model.PeriodicConfig{
			Period:                 f.period,
			PeriodGenerationEndsAt: end,
		}
	}
	if err := formValidator.Struct(input); err != nil {
		return model.SessionCreate{}, err
	}
	return input, nil
}

// updateInput builds the payload for editing an existing session. The
// periodic fields are ignored here.
func (f sessionForm) updateInput() (model.SessionUpdate, error) {
	start, err := f.startAt()
	if err != nil {
		return model.SessionUpdate{}, fmt.Errorf("start must match %s", startAtLayout)
	}
	input := model.SessionUpdate{
		FilmId:  model.FilmID(strings.TrimSpace(f.inputs[0].Value())),
		HallId:  model.HallID(strings.TrimSpace(f.inputs[1].Value())),
		StartAt: start,
	}
	if err := formValidator.Struct(input); err != nil {
		return model.SessionUpdate{}, err
	}
	return input, nil
}

func (f sessionForm) view() string {
	body := f.form.view([]string{"Film id", "Hall id", "Start at", "Series end"})

	if f.editing != "" {
		return body + "\n" + hint(fmt.Sprintf("editing session %s", f.editing))
	}

	mode := "one-off session (ctrl+p for a periodic series)"
	if f.periodic {
		label := "every day"
		if f.period == model.PeriodEveryWeek {
			label = "every week"
		}
		mode = fmt.Sprintf("periodic: %s (ctrl+w to switch, ctrl+p to turn off)", label)
		if count, ok := f.previewCount(); ok {
			mode += fmt.Sprintf(" • will create %d sessions", count)
		}
	}
	return body + "\n" + hint(mode)
}
