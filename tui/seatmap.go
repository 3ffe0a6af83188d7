package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kinoseat-cli/booking"
	"kinoseat-cli/model"
)

// seatGrid is the cursor-navigable rendering of a hall plan. Grid rows are
// the distinct row values present in the plan, in ascending order; row
// numbering starts at 0 in some halls. Cells are seat ids; empty cells are
// aisles or gaps in the plan.
type seatGrid struct {
	rowValues []int
	rows      int
	cols      int
	cells     [][]model.SeatID

	curRow int
	curCol int
}

func newSeatGrid(plan model.Plan) seatGrid {
	rowSet := map[int]bool{}
	cols := 0
	for _, seat := range plan.Seats {
		if seat.Row < 0 || seat.Number < 1 {
			continue
		}
		rowSet[seat.Row] = true
		if seat.Number > cols {
			cols = seat.Number
		}
	}

	rowValues := make([]int, 0, len(rowSet))
	for row := range rowSet {
		rowValues = append(rowValues, row)
	}
	sort.Ints(rowValues)
	rank := make(map[int]int, len(rowValues))
	for i, row := range rowValues {
		rank[row] = i
	}

	grid := seatGrid{rowValues: rowValues, rows: len(rowValues), cols: cols}
	grid.cells = make([][]model.SeatID, grid.rows)
	for r := range grid.cells {
		grid.cells[r] = make([]model.SeatID, cols)
	}
	for _, seat := range plan.Seats {
		if seat.Row < 0 || seat.Number < 1 {
			continue
		}
		grid.cells[rank[seat.Row]][seat.Number-1] = seat.Id
	}

	grid.curRow, grid.curCol = grid.firstSeat()
	return grid
}

func (g seatGrid) firstSeat() (int, int) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] != "" {
				return r, c
			}
		}
	}
	return 0, 0
}

func (g seatGrid) current() model.SeatID {
	if g.curRow < 0 || g.curRow >= g.rows || g.curCol < 0 || g.curCol >= g.cols {
		return ""
	}
	return g.cells[g.curRow][g.curCol]
}

// moveHorizontal steps the cursor to the next seat in the row, skipping
// gaps.
func (g *seatGrid) moveHorizontal(delta int) {
	for c := g.curCol + delta; c >= 0 && c < g.cols; c += delta {
		if g.cells[g.curRow][c] != "" {
			g.curCol = c
			return
		}
	}
}

// moveVertical steps to the nearest seat in the next row that has one,
// preferring the current column.
func (g *seatGrid) moveVertical(delta int) {
	for r := g.curRow + delta; r >= 0 && r < g.rows; r += delta {
		if c, ok := g.nearestSeatInRow(r, g.curCol); ok {
			g.curRow = r
			g.curCol = c
			return
		}
	}
}

func (g seatGrid) nearestSeatInRow(row int, col int) (int, bool) {
	if g.cells[row][col] != "" {
		return col, true
	}
	for offset := 1; offset < g.cols; offset++ {
		if c := col - offset; c >= 0 && g.cells[row][c] != "" {
			return c, true
		}
		if c := col + offset; c < g.cols && g.cells[row][c] != "" {
			return c, true
		}
	}
	return 0, false
}

var (
	seatStyleAvailable = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStyleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true).Reverse(true)
	seatStyleReserved  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	seatStyleSold      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatStyleCursor    = lipgloss.NewStyle().Reverse(true)
	screenStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
)

func (g seatGrid) render(flow *booking.Workflow) string {
	if g.rows == 0 || g.cols == 0 {
		return "No seating plan data."
	}

	var b strings.Builder
	gridWidth := g.cols*3 - 1

	b.WriteString("   ")
	b.WriteString(screenStyle.Render(centerText("SCREEN", gridWidth)))
	b.WriteString("\n\n")

	for r := 0; r < g.rows; r++ {
		b.WriteString(fmt.Sprintf("%2d ", g.rowValues[r]))
		for c := 0; c < g.cols; c++ {
			id := g.cells[r][c]
			text := "  "
			if id != "" {
				switch flow.SeatClass(id) {
				case booking.SeatSelected:
					text = seatStyleSelected.Render("[x]")
				case booking.SeatReserved:
					text = seatStyleReserved.Render("rr ")
				case booking.SeatSold:
					text = seatStyleSold.Render("xx ")
				default:
					text = seatStyleAvailable.Render("[ ]")
				}
				if r == g.curRow && c == g.curCol {
					text = seatStyleCursor.Render(fmt.Sprintf("%2d ", c+1))
				}
			} else {
				text = "   "
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hint("Legend: [ ] available • [x] selected • rr reserved • xx sold"))
	b.WriteString("\n")
	b.WriteString(hint(categoryLegend(flow.Plan())))
	b.WriteString("\n")
	b.WriteString(selectionSummary(flow))
	return b.String()
}

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := width - len(text)
	left := padding / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", padding-left)
}

func categoryLegend(plan model.Plan) string {
	parts := make([]string, 0, len(plan.Categories))
	for _, category := range plan.Categories {
		parts = append(parts, fmt.Sprintf("%s %s", category.Name, model.FormatCents(category.PriceCents)))
	}
	if len(parts) == 0 {
		return "No price categories"
	}
	return "Prices: " + strings.Join(parts, " • ")
}

func selectionSummary(flow *booking.Workflow) string {
	count := flow.SelectedCount()
	if count == 0 {
		return hint("No seats selected. Move with arrows, toggle with space, confirm with enter.")
	}
	return fmt.Sprintf("Selected: %d seat(s) • Total: %s", count, model.FormatCents(flow.SelectionTotalCents()))
}
