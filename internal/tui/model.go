// Package tui is the terminal front end of the directory: a search box over a
// scrolling list of employees, with a detail overlay for the selected record.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/legend"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/tenure"
)

// chromeLines is the number of rows used by everything except the list.
const chromeLines = 7

// Model is the bubbletea model for the directory browser.
type Model struct {
	state  directory.State
	input  textinput.Model
	cursor int
	offset int // first visible list row

	width  int
	height int

	// legendText is the rendered legend while it is shown, empty otherwise.
	legendText string

	org    string
	clock  tenure.Clock
	styles Styles
}

// New returns a model showing the whole directory with the overlay closed.
func New(store *directory.Store, org string, clock tenure.Clock) Model {
	ti := textinput.New()
	ti.Placeholder = "Search by name or title..."
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Width = 40
	ti.Focus()

	if org == "" {
		org = ops.DefaultOrg
	}

	return Model{
		state:  directory.NewState(store),
		input:  ti,
		org:    org,
		clock:  tenure.OrSystem(clock),
		styles: DefaultStyles(),
	}
}

// Run starts the browser on the alternate screen with mouse support.
func Run(store *directory.Store, org string) error {
	p := tea.NewProgram(New(store, org, nil), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// State returns the current interaction state.
func (m Model) State() directory.State {
	return m.state
}

// Cursor returns the index of the highlighted row in the filtered list.
func (m Model) Cursor() int {
	return m.cursor
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.scrollToCursor()
		return m, nil

	case tea.MouseMsg:
		if m.state.Open() && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if !m.inOverlay(msg.X, msg.Y) {
				m.state = m.state.Close(directory.Backdrop)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.legendText != "" {
			switch msg.String() {
			case "tab", "esc", "q":
				m.legendText = ""
			}
			return m, nil
		}
		if m.state.Open() {
			return m.updateOverlay(msg), nil
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateOverlay handles keys while the overlay is open. The list does not
// scroll and the search box does not take input.
func (m Model) updateOverlay(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter", "x":
		m.state = m.state.Close(directory.CloseButton)
	case "esc":
		m.state = m.state.Close(directory.Cancel)
	}
	return m
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.input.Value() == "" {
			return m, tea.Quit
		}
		m.input.Reset()
		m.search()
		return m, nil
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		m.scrollToCursor()
		return m, nil
	case "down", "ctrl+n":
		if m.cursor < len(m.state.Filtered())-1 {
			m.cursor++
		}
		m.scrollToCursor()
		return m, nil
	case "tab":
		m.legendText = renderLegend(m.width)
		return m, nil
	case "enter":
		if filtered := m.state.Filtered(); len(filtered) > 0 {
			m.state = m.state.Select(filtered[m.cursor].ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.search()
	}
	return m, cmd
}

// search re-filters with the current input and moves the cursor to the top.
func (m *Model) search() {
	m.state = m.state.Search(m.input.Value())
	m.cursor = 0
	m.offset = 0
}

// visibleRows is how many list rows fit on screen. Before the first
// WindowSizeMsg every row is shown.
func (m Model) visibleRows() int {
	if m.height == 0 {
		return len(m.state.Filtered())
	}
	return max(m.height-chromeLines, 1)
}

func (m *Model) scrollToCursor() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// ShowingLegend reports whether the tenure legend replaces the list.
func (m Model) ShowingLegend() bool {
	return m.legendText != ""
}

// renderLegend renders the legend markdown for a terminal of the given width.
// The raw markdown is returned if glamour fails.
func renderLegend(width int) string {
	wrap := 80
	if width > 0 {
		wrap = max(min(width-4, 100), 20)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return legend.Markdown
	}
	out, err := r.Render(legend.Markdown)
	if err != nil || strings.TrimSpace(out) == "" {
		return legend.Markdown
	}
	return out
}

// View renders the model.
func (m Model) View() string {
	if m.legendText != "" {
		return m.legendText + "\n" + m.styles.Help.Render("tab/esc/q back • ctrl+c quit")
	}
	view := ops.Project(m.state, m.clock.Now(), m.org)
	if view.Detail != nil {
		return m.placeOverlay(m.renderOverlay(view.Detail))
	}
	return m.renderList(view)
}

func (m Model) renderList(view ops.View) string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(m.org + " Employee Directory"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Stats.Render(fmt.Sprintf("Total employees: %d   Showing: %d", view.Stats.Total, view.Stats.Filtered)))
	b.WriteString("\n\n")

	if view.Empty {
		b.WriteString(m.styles.Empty.Render("No employees found matching your search."))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleRows(), len(view.Items))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(view.Items[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("↑/↓ move • enter details • tab legend • esc clear/quit • ctrl+c quit"))
	return b.String()
}

func (m Model) renderRow(card ops.Card, selected bool) string {
	marker := "  "
	if selected {
		marker = m.styles.Cursor.Render("› ")
	}
	return marker + lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Name.Render(card.Name), "  ",
		m.styles.Title.Render(card.Title), "  ",
		m.styles.Meta.Render("Started: "+card.StartedOn), "  ",
		m.styles.BadgeFor(card.Tier).Render(card.Tenure),
	)
}

func (m Model) renderOverlay(d *ops.Detail) string {
	field := func(name, value string) string {
		return m.styles.FieldName.Render(name) + value
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Name.Render(d.Name),
		m.styles.Title.Render(d.Title),
		"",
		field("Email", d.Email),
		field("Start date", d.StartedOn),
		"",
		m.styles.BadgeFor(d.Tier).Render(d.TenureBadge),
		"",
		m.styles.Meta.Render("enter/x close • esc cancel • click outside to dismiss"),
	)
	return m.styles.Overlay.Render(body)
}

// overlayOrigin returns the top-left cell of a box of size w×h centred on screen.
func (m Model) overlayOrigin(w, h int) (int, int) {
	x := int(math.Round(float64(max(m.width-w, 0)) / 2))
	y := int(math.Round(float64(max(m.height-h, 0)) / 2))
	return x, y
}

func (m Model) placeOverlay(box string) string {
	x, y := m.overlayOrigin(lipgloss.Width(box), lipgloss.Height(box))
	return lipgloss.NewStyle().MarginLeft(x).MarginTop(y).Render(box)
}

// inOverlay reports whether the cell (x, y) falls inside the overlay box.
func (m Model) inOverlay(x, y int) bool {
	detail := ops.Project(m.state, m.clock.Now(), m.org).Detail
	if detail == nil {
		return false
	}
	box := m.renderOverlay(detail)
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	x0, y0 := m.overlayOrigin(w, h)
	return x >= x0 && x < x0+w && y >= y0 && y < y0+h
}
