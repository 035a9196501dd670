package ops

import (
	"time"

	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/employee"
	"github.com/hpungsan/roster/internal/tenure"
)

// DefaultOrg is used in tenure badges when no organization name is configured.
const DefaultOrg = "TinyTech"

// Card is the list projection of one employee.
type Card struct {
	ID        int         `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Title     string      `json:"title" yaml:"title"`
	StartDate string      `json:"start_date" yaml:"start_date"` // YYYY-MM-DD
	StartedOn string      `json:"started_on" yaml:"started_on"` // "January 2, 2006"
	Tenure    string      `json:"tenure" yaml:"tenure"`
	Tier      tenure.Tier `json:"tier" yaml:"tier"`
}

// Stats holds the directory counters. Total is always the unfiltered count.
type Stats struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
}

// Detail is the overlay projection of one employee.
type Detail struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Email       string      `json:"email"`
	StartDate   string      `json:"start_date"`
	StartedOn   string      `json:"started_on"`
	Tenure      string      `json:"tenure"`
	TenureBadge string      `json:"tenure_badge"` // "{tenure} with {org}"
	Tier        tenure.Tier `json:"tier"`
}

// View is everything a surface needs to draw one interaction state.
type View struct {
	Query        string  `json:"query"`
	Items        []Card  `json:"items"`
	Stats        Stats   `json:"stats"`
	Empty        bool    `json:"empty"`
	Detail       *Detail `json:"detail,omitempty"`
	ScrollLocked bool    `json:"scroll_locked"`
}

// RenderCard projects rec into a Card as of asOf.
func RenderCard(rec employee.Employee, asOf time.Time) Card {
	start := rec.StartDate.Time()
	return Card{
		ID:        rec.ID,
		Name:      rec.Name,
		Title:     rec.Title,
		StartDate: rec.StartDate.String(),
		StartedOn: tenure.FormatDate(start),
		Tenure:    tenure.Label(start, asOf),
		Tier:      tenure.ClassifyTier(start, asOf),
	}
}

// RenderList projects each record into a Card, preserving order.
// The result is never nil.
func RenderList(records []employee.Employee, asOf time.Time) []Card {
	cards := make([]Card, len(records))
	for i, rec := range records {
		cards[i] = RenderCard(rec, asOf)
	}
	return cards
}

// RenderStats pairs the unfiltered total with the current filtered count.
func RenderStats(total, filtered int) Stats {
	return Stats{Total: total, Filtered: filtered}
}

// RenderDetail projects rec into the overlay Detail. A nil record yields nil.
func RenderDetail(rec *employee.Employee, asOf time.Time, org string) *Detail {
	if rec == nil {
		return nil
	}
	if org == "" {
		org = DefaultOrg
	}
	card := RenderCard(*rec, asOf)
	return &Detail{
		ID:          rec.ID,
		Name:        rec.Name,
		Title:       rec.Title,
		Email:       rec.Email,
		StartDate:   card.StartDate,
		StartedOn:   card.StartedOn,
		Tenure:      card.Tenure,
		TenureBadge: card.Tenure + " with " + org,
		Tier:        card.Tier,
	}
}

// Project renders an interaction state.
func Project(st directory.State, asOf time.Time, org string) View {
	filtered := st.Filtered()
	v := View{
		Query:        st.Query(),
		Items:        RenderList(filtered, asOf),
		Stats:        RenderStats(st.Total(), len(filtered)),
		Empty:        len(filtered) == 0,
		ScrollLocked: st.ScrollLocked(),
	}
	if rec, ok := st.Selected(); ok {
		v.Detail = RenderDetail(&rec, asOf, org)
	}
	return v
}

// TierCounts counts cards per tier. Every tier is present in the result.
func TierCounts(cards []Card) map[tenure.Tier]int {
	counts := map[tenure.Tier]int{
		tenure.TierNewcomer:    0,
		tenure.TierExperienced: 0,
		tenure.TierVeteran:     0,
	}
	for _, c := range cards {
		counts[c.Tier]++
	}
	return counts
}

// asOfOrNow returns t, or the current time when t is zero.
func asOfOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
