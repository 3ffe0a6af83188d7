package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"kinoseat-cli/model"
	"kinoseat-cli/store"
)

type filmItem struct {
	film   model.Film
	recent bool
}

func (f filmItem) Title() string {
	if f.film.AgeRating != "" {
		return fmt.Sprintf("%s (%s)", f.film.Title, f.film.AgeRating)
	}
	return f.film.Title
}

func (f filmItem) Description() string {
	parts := []string{}
	if f.recent {
		parts = append(parts, "Recent")
	}
	if f.film.DurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", f.film.DurationMinutes))
	}
	if desc := strings.TrimSpace(f.film.Description); desc != "" {
		if len(desc) > 64 {
			desc = desc[:61] + "..."
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, " • ")
}

func (f filmItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{f.film.Title, f.film.AgeRating}, " "))
}

// buildFilmItems puts recently booked films first, then the rest sorted
// by title.
func buildFilmItems(films []model.Film) []list.Item {
	recents, _ := store.LoadRecentFilms()
	byID := map[string]model.Film{}
	for _, film := range films {
		byID[string(film.Id)] = film
	}

	var items []list.Item
	used := map[string]bool{}
	for _, recent := range recents {
		if film, ok := byID[recent.ID]; ok && !used[recent.ID] {
			items = append(items, filmItem{film: film, recent: true})
			used[recent.ID] = true
		}
	}

	remaining := make([]model.Film, 0, len(films))
	for _, film := range films {
		if !used[string(film.Id)] {
			remaining = append(remaining, film)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		return strings.ToLower(remaining[i].Title) < strings.ToLower(remaining[j].Title)
	})
	for _, film := range remaining {
		items = append(items, filmItem{film: film})
	}
	return items
}

type sessionItem struct {
	session  model.Session
	hallName string
}

func (s sessionItem) Title() string {
	label := s.session.StartAt.Format("15:04")
	if s.hallName != "" {
		return fmt.Sprintf("%s • %s", label, s.hallName)
	}
	return label
}

func (s sessionItem) Description() string {
	return s.session.StartAt.Format("Mon, 02 Jan 2006")
}

func (s sessionItem) FilterValue() string {
	return strings.ToLower(s.Title() + " " + s.Description())
}

func buildSessionItems(sessions []model.Session, hallNames map[model.HallID]string) []list.Item {
	sorted := append([]model.Session{}, sessions...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartAt.Before(sorted[j].StartAt)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, session := range sorted {
		items = append(items, sessionItem{session: session, hallName: hallNames[session.HallId]})
	}
	return items
}

type dateItem struct {
	date time.Time
}

func (d dateItem) Title() string {
	if isSameDay(d.date, time.Now()) {
		return fmt.Sprintf("%s • %s (Today)", d.date.Format("Mon"), d.date.Format("02/01"))
	}
	return fmt.Sprintf("%s • %s", d.date.Format("Mon"), d.date.Format("02/01"))
}

func (d dateItem) Description() string {
	return d.date.Format(time.DateOnly)
}

func (d dateItem) FilterValue() string {
	return d.Title()
}

func buildDateItems(base time.Time) []list.Item {
	start := truncateDate(base)
	items := make([]list.Item, 0, 7)
	for i := 0; i < 7; i++ {
		items = append(items, dateItem{date: start.AddDate(0, 0, i)})
	}
	return items
}

func isSameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type purchaseItem struct {
	purchase  model.Purchase
	filmTitle string
}

func (p purchaseItem) Title() string {
	title := p.filmTitle
	if title == "" {
		title = string(p.purchase.FilmId)
	}
	return fmt.Sprintf("%s • %s", p.purchase.CreatedAt.Format("2006-01-02 15:04"), title)
}

func (p purchaseItem) Description() string {
	return fmt.Sprintf("%s • %s • %d ticket(s)",
		p.purchase.Status, model.FormatCents(p.purchase.TotalCents), len(p.purchase.TicketIds))
}

func (p purchaseItem) FilterValue() string {
	return strings.ToLower(p.Title() + " " + string(p.purchase.Status))
}

// buildPurchaseItems lists purchases newest first.
func buildPurchaseItems(purchases []model.Purchase, filmTitles map[model.FilmID]string) []list.Item {
	sorted := append([]model.Purchase{}, purchases...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, purchase := range sorted {
		items = append(items, purchaseItem{purchase: purchase, filmTitle: filmTitles[purchase.FilmId]})
	}
	return items
}

type adminMenuItem struct {
	title string
	desc  string
	state appState
}

func (a adminMenuItem) Title() string       { return a.title }
func (a adminMenuItem) Description() string { return a.desc }
func (a adminMenuItem) FilterValue() string { return strings.ToLower(a.title) }

func buildAdminMenuItems() []list.Item {
	return []list.Item{
		adminMenuItem{title: "Sessions", desc: "Browse and delete scheduled sessions", state: stateAdminSessions},
		adminMenuItem{title: "New session", desc: "Schedule a session, optionally as a periodic series", state: stateAdminSessionForm},
	}
}

type adminSessionItem struct {
	session   model.Session
	filmTitle string
	hallName  string
}

func (a adminSessionItem) Title() string {
	title := a.filmTitle
	if title == "" {
		title = string(a.session.FilmId)
	}
	return fmt.Sprintf("%s • %s", a.session.StartAt.Format("2006-01-02 15:04"), title)
}

func (a adminSessionItem) Description() string {
	if a.hallName != "" {
		return a.hallName
	}
	return string(a.session.HallId)
}

func (a adminSessionItem) FilterValue() string {
	return strings.ToLower(a.Title() + " " + a.Description())
}

func buildAdminSessionItems(sessions []model.Session, filmTitles map[model.FilmID]string, hallNames map[model.HallID]string) []list.Item {
	sorted := append([]model.Session{}, sessions...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartAt.Before(sorted[j].StartAt)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, session := range sorted {
		items = append(items, adminSessionItem{
			session:   session,
			filmTitle: filmTitles[session.FilmId],
			hallName:  hallNames[session.HallId],
		})
	}
	return items
}
