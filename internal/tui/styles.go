package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/roster/internal/tenure"
)

// Palette shared with the web stylesheet.
var (
	Brand       = lipgloss.Color("#667eea")
	Muted       = lipgloss.Color("#6b7280")
	Newcomer    = lipgloss.Color("#10b981")
	Experienced = lipgloss.Color("#f59e0b")
	Veteran     = lipgloss.Color("#8b5cf6")
	White       = lipgloss.Color("#ffffff")
)

// Styles holds the lipgloss styles used by the directory view.
type Styles struct {
	Header    lipgloss.Style
	Stats     lipgloss.Style
	Name      lipgloss.Style
	Title     lipgloss.Style
	Meta      lipgloss.Style
	Cursor    lipgloss.Style
	Empty     lipgloss.Style
	Help      lipgloss.Style
	Overlay   lipgloss.Style
	FieldName lipgloss.Style
	Badge     map[tenure.Tier]lipgloss.Style
}

// DefaultStyles returns the directory styles.
func DefaultStyles() Styles {
	badge := lipgloss.NewStyle().Foreground(White).Bold(true).Padding(0, 1)

	return Styles{
		Header:    lipgloss.NewStyle().Foreground(Brand).Bold(true).MarginBottom(1),
		Stats:     lipgloss.NewStyle().Foreground(Muted),
		Name:      lipgloss.NewStyle().Bold(true),
		Title:     lipgloss.NewStyle().Foreground(Brand),
		Meta:      lipgloss.NewStyle().Foreground(Muted),
		Cursor:    lipgloss.NewStyle().Foreground(Brand).Bold(true),
		Empty:     lipgloss.NewStyle().Foreground(Muted).Italic(true).Padding(1, 2),
		Help:      lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
		Overlay:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Brand).Padding(1, 3),
		FieldName: lipgloss.NewStyle().Foreground(Muted).Width(12),
		Badge: map[tenure.Tier]lipgloss.Style{
			tenure.TierNewcomer:    badge.Background(Newcomer),
			tenure.TierExperienced: badge.Background(Experienced),
			tenure.TierVeteran:     badge.Background(Veteran),
		},
	}
}

// BadgeFor returns the badge style for tier.
func (s Styles) BadgeFor(tier tenure.Tier) lipgloss.Style {
	if st, ok := s.Badge[tier]; ok {
		return st
	}
	return s.Meta
}
