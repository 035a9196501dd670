package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/employee"
	"github.com/hpungsan/roster/internal/tenure"
)

var testClock = tenure.FixedClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

func newTestModel(t *testing.T) Model {
	t.Helper()
	store, err := directory.New(employee.Seed())
	if err != nil {
		t.Fatalf("directory.New failed: %v", err)
	}
	m := New(store, "TinyTech", testClock)
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_Initial(t *testing.T) {
	m := newTestModel(t)

	if m.State().Open() {
		t.Error("overlay open on start")
	}
	if len(m.State().Filtered()) != 10 {
		t.Errorf("filtered = %d, want 10", len(m.State().Filtered()))
	}

	view := m.View()
	for _, want := range []string{"TinyTech Employee Directory", "Total employees: 10", "Showing: 10", "Lin Chang", "Michael Thompson"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_TypingFilters(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("designer"))

	if got := m.State().Query(); got != "designer" {
		t.Errorf("query = %q, want designer", got)
	}
	filtered := m.State().Filtered()
	if len(filtered) != 1 || filtered[0].Name != "Ahmed Hassan" {
		t.Errorf("filtered = %v, want only Ahmed Hassan", filtered)
	}

	view := m.View()
	if !strings.Contains(view, "Showing: 1") {
		t.Error("view should show 1 match")
	}
	if strings.Contains(view, "Lin Chang") {
		t.Error("view should not list non-matching employees")
	}
}

func TestModel_NoResults(t *testing.T) {
	m := send(newTestModel(t), key("zzz"))

	if !strings.Contains(m.View(), "No employees found") {
		t.Error("expected empty-state message")
	}

	// enter with nothing to select stays closed
	m = send(m, key("enter"))
	if m.State().Open() {
		t.Error("enter on empty list opened overlay")
	}
}

func TestModel_CursorMovement(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("up"))
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 (clamped)", m.Cursor())
	}

	for i := 0; i < 20; i++ {
		m = send(m, key("down"))
	}
	if m.Cursor() != 9 {
		t.Errorf("cursor = %d, want 9 (clamped)", m.Cursor())
	}

	m = send(m, key("up"))
	if m.Cursor() != 8 {
		t.Errorf("cursor = %d, want 8", m.Cursor())
	}
}

func TestModel_EnterOpensSelected(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("down"))
	m = send(m, key("enter"))

	if !m.State().Open() {
		t.Fatal("overlay not open after enter")
	}
	if m.State().SelectedID() != 2 {
		t.Errorf("selected = %d, want 2", m.State().SelectedID())
	}
	if !m.State().ScrollLocked() {
		t.Error("scroll should be locked while overlay open")
	}

	view := m.View()
	for _, want := range []string{"Marcus Johnson", "marcus.johnson@tinytech.com", "March 15, 2023", "1y 2m with TinyTech"} {
		if !strings.Contains(view, want) {
			t.Errorf("overlay missing %q", want)
		}
	}
}

func TestModel_ScrollLockedWhileOpen(t *testing.T) {
	m := send(newTestModel(t), key("enter"))

	m = send(m, key("down"))
	m = send(m, key("down"))
	if m.Cursor() != 0 {
		t.Errorf("cursor moved to %d while overlay open", m.Cursor())
	}

	m = send(m, key("q"))
	if m.State().Query() != "" {
		t.Errorf("typing reached the search box while overlay open: %q", m.State().Query())
	}
}

func TestModel_CloseTriggers(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"enter", key("enter")},
		{"x", key("x")},
		{"esc", key("esc")},
		{"backdrop click", tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := send(newTestModel(t), key("enter"))
			if !m.State().Open() {
				t.Fatal("overlay not open")
			}

			m = send(m, tc.msg)
			if m.State().Open() {
				t.Error("overlay still open")
			}
			if m.State().ScrollLocked() {
				t.Error("scroll still locked")
			}
		})
	}
}

func TestModel_EscClosesOverlayWithoutQuitting(t *testing.T) {
	m := send(newTestModel(t), key("enter"))

	next, cmd := m.Update(key("esc"))
	if isQuit(cmd) {
		t.Error("esc in overlay should not quit")
	}
	if next.(Model).State().Open() {
		t.Error("esc should close overlay")
	}
}

func TestModel_ClickInsideOverlayKeepsOpen(t *testing.T) {
	m := send(newTestModel(t), key("enter"))

	detail := m.View()
	// The box is centred; the middle of the screen is inside it.
	m = send(m, tea.MouseMsg{X: m.width / 2, Y: m.height / 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.State().Open() {
		t.Errorf("click inside overlay closed it; view:\n%s", detail)
	}

	// Wheel and right clicks outside are not backdrop clicks.
	m = send(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = send(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if !m.State().Open() {
		t.Error("non-left click closed the overlay")
	}
}

func TestModel_MouseWhenClosedIsNoop(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.State().Open() {
		t.Error("click opened overlay")
	}
}

func TestModel_OverlayPlacementMatchesHitTest(t *testing.T) {
	m := send(newTestModel(t), key("enter"))

	lines := strings.Split(m.View(), "\n")
	top := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			top = i
			break
		}
	}
	if top < 0 {
		t.Fatal("overlay view is blank")
	}
	left := lipgloss.Width(lines[top]) - lipgloss.Width(strings.TrimLeft(lines[top], " "))

	if !m.inOverlay(left, top) {
		t.Errorf("top-left corner (%d,%d) not inside hit area", left, top)
	}
	if m.inOverlay(left-1, top) || m.inOverlay(left, top-1) {
		t.Errorf("cell outside corner (%d,%d) counted as inside", left, top)
	}
}

func TestModel_EscClearsThenQuits(t *testing.T) {
	m := send(newTestModel(t), key("kim"))
	if len(m.State().Filtered()) != 1 {
		t.Fatalf("filtered = %d, want 1", len(m.State().Filtered()))
	}

	next, cmd := m.Update(key("esc"))
	m = next.(Model)
	if isQuit(cmd) {
		t.Fatal("first esc should clear, not quit")
	}
	if m.State().Query() != "" || len(m.State().Filtered()) != 10 {
		t.Errorf("esc did not clear search: query=%q filtered=%d", m.State().Query(), len(m.State().Filtered()))
	}

	_, cmd = m.Update(key("esc"))
	if !isQuit(cmd) {
		t.Error("esc on empty search should quit")
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := send(newTestModel(t), key("enter"))

	_, cmd := m.Update(key("ctrl+c"))
	if !isQuit(cmd) {
		t.Error("ctrl+c should quit even with overlay open")
	}
}

func TestModel_SearchResetsCursor(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m = send(m, key("down"))
	}

	m = send(m, key("manager"))
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 after new search", m.Cursor())
	}

	m = send(m, key("down"))
	m = send(m, key("enter"))
	if m.State().SelectedID() != 7 {
		t.Errorf("selected = %d, want 7 (Jessica Brown)", m.State().SelectedID())
	}
}

func TestModel_ScrollsWithSmallWindow(t *testing.T) {
	m := send(newTestModel(t), tea.WindowSizeMsg{Width: 120, Height: chromeLines + 3})

	for i := 0; i < 6; i++ {
		m = send(m, key("down"))
	}

	view := m.View()
	if !strings.Contains(view, "Jessica Brown") {
		t.Error("cursor row should be visible")
	}
	if strings.Contains(view, "Lin Chang") {
		t.Error("first row should have scrolled out of view")
	}
}

func TestModel_Legend(t *testing.T) {
	m := send(newTestModel(t), key("tab"))
	if !m.ShowingLegend() {
		t.Fatal("tab should show the legend")
	}

	view := m.View()
	for _, want := range []string{"Tenure", "Newcomer", "Veteran"} {
		if !strings.Contains(view, want) {
			t.Errorf("legend view missing %q", want)
		}
	}

	// Keys do not reach the search box while the legend is up.
	m = send(m, key("x"))
	if m.State().Query() != "" || !m.ShowingLegend() {
		t.Errorf("legend should swallow keys: query=%q", m.State().Query())
	}

	next, cmd := m.Update(key("esc"))
	m = next.(Model)
	if isQuit(cmd) {
		t.Error("esc in legend should not quit")
	}
	if m.ShowingLegend() {
		t.Error("esc should hide the legend")
	}
	if !strings.Contains(m.View(), "Employee Directory") {
		t.Error("list should be back after closing the legend")
	}
}

func TestRenderLegend_NarrowTerminal(t *testing.T) {
	if out := renderLegend(10); !strings.Contains(out, "Tenure") {
		t.Errorf("narrow legend lost content:\n%s", out)
	}
}

func TestStyles_BadgeFor(t *testing.T) {
	s := DefaultStyles()
	for _, tier := range []tenure.Tier{tenure.TierNewcomer, tenure.TierExperienced, tenure.TierVeteran} {
		if _, ok := s.Badge[tier]; !ok {
			t.Errorf("no badge style for %s", tier)
		}
	}
	// Unknown tiers fall back to plain text.
	if got := s.BadgeFor("unknown").Render("x"); !strings.Contains(got, "x") {
		t.Errorf("fallback render = %q", got)
	}
}
