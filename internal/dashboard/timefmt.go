package dashboard

import (
	"fmt"
	"math"
	"time"
)

// Formatter renders timestamps for display. It is configured once with a
// location and a locale and is safe for concurrent use.
type Formatter struct {
	location *time.Location
	locale   Locale
}

func NewFormatter(location *time.Location, locale Locale) *Formatter {
	if location == nil {
		location = time.UTC
	}
	return &Formatter{location: location, locale: locale}
}

func (f *Formatter) Locale() Locale {
	return f.locale
}

func (f *Formatter) Location() *time.Location {
	return f.location
}

// Relative formats ts relative to now using floor of the elapsed minutes:
// under a minute is "just now", under an hour is minutes, under a day is
// hours, anything older is an absolute date.
func (f *Formatter) Relative(ts, now time.Time) string {
	minutes := int(math.Floor(now.Sub(ts).Minutes()))

	switch {
	case minutes < 1:
		return f.locale.JustNow
	case minutes < 60:
		return fmt.Sprintf(f.locale.MinutesAgo, minutes)
	case minutes < 24*60:
		return fmt.Sprintf(f.locale.HoursAgo, minutes/60)
	default:
		return f.Absolute(ts)
	}
}

// Absolute formats as "02 Jan 2006 15:04".
func (f *Formatter) Absolute(ts time.Time) string {
	t := ts.In(f.location)
	return fmt.Sprintf("%02d %s %d %02d:%02d", t.Day(), f.locale.ShortMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// Medium formats as "02 Jan 2006, 15:04".
func (f *Formatter) Medium(ts time.Time) string {
	t := ts.In(f.location)
	return fmt.Sprintf("%02d %s %d, %02d:%02d", t.Day(), f.locale.ShortMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// Long formats as "02 January 2006, 15:04".
func (f *Formatter) Long(ts time.Time) string {
	t := ts.In(f.location)
	return fmt.Sprintf("%02d %s %d, %02d:%02d", t.Day(), f.locale.LongMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// Clock formats as "15:04".
func (f *Formatter) Clock(ts time.Time) string {
	return ts.In(f.location).Format("15:04")
}
