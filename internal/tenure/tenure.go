// Package tenure derives how long an employee has been with the organization
// and which badge tier that duration falls into.
//
// The duration label uses a day-count approximation: a year is 365 days and a
// month is 30 days, regardless of calendar month lengths or leap years. The tier
// uses whole calendar months and ignores the day of month. Both rules are kept
// as-is so labels stay comparable with existing directory exports.
package tenure

import (
	"fmt"
	"math"
	"time"
)

// Tier is the badge classification for a tenure.
type Tier string

const (
	TierNewcomer    Tier = "newcomer"
	TierExperienced Tier = "experienced"
	TierVeteran     Tier = "veteran"
)

// Tier thresholds in whole months.
const (
	ExperiencedMonths = 6
	VeteranMonths     = 12
)

const (
	daysPerYear  = 365
	daysPerMonth = 30
	day          = 24 * time.Hour
)

// DateLayout is the long-form en-US display layout ("January 2, 2006").
const DateLayout = "January 2, 2006"

// InvalidDate is rendered in place of a zero date.
const InvalidDate = "Invalid Date"

// ElapsedDays returns the absolute difference between start and asOf in days,
// rounded up. A reference time earlier than start still yields a non-negative count.
func ElapsedDays(start, asOf time.Time) int {
	d := asOf.Sub(start)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// Label formats the tenure between start and asOf:
//
//	>= 1 year   "{years}y {months}m"
//	>= 1 month  "{months}m {days}d"
//	otherwise   "{days} days"
//
// months is the remainder after whole years divided by 30 and can reach 12
// (e.g. 364 days past a year boundary reads "1y 12m"). days is the total day
// count modulo 30, not the remainder after whole months.
func Label(start, asOf time.Time) string {
	days := ElapsedDays(start, asOf)

	years := days / daysPerYear
	months := (days % daysPerYear) / daysPerMonth
	rem := days % daysPerMonth

	switch {
	case years > 0:
		return fmt.Sprintf("%dy %dm", years, months)
	case months > 0:
		return fmt.Sprintf("%dm %dd", months, rem)
	default:
		return fmt.Sprintf("%d days", rem)
	}
}

// ElapsedMonths counts calendar month boundaries between start and asOf,
// ignoring the day of month. asOf is evaluated in start's location.
func ElapsedMonths(start, asOf time.Time) int {
	asOf = asOf.In(start.Location())
	return (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
}

// ClassifyTier maps the elapsed whole months between start and asOf to a Tier.
func ClassifyTier(start, asOf time.Time) Tier {
	months := ElapsedMonths(start, asOf)
	switch {
	case months >= VeteranMonths:
		return TierVeteran
	case months >= ExperiencedMonths:
		return TierExperienced
	default:
		return TierNewcomer
	}
}

// FormatDate renders date as "Month D, YYYY". The zero time renders as InvalidDate.
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return InvalidDate
	}
	return date.Format(DateLayout)
}
