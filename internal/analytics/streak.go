// Package analytics derives progress figures from completed session history.
// Everything here is pure and recomputed on every query.
package analytics

import (
	"sort"
	"time"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

// CalendarDay truncates t to its calendar date in loc. The result is midnight
// UTC of that date so day arithmetic never crosses a DST change.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ActiveDays returns the distinct calendar days with at least one session, ascending.
func ActiveDays(sessions []domain.Session, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool, len(sessions))
	days := make([]time.Time, 0, len(sessions))
	for _, s := range sessions {
		day := CalendarDay(s.StartedAt, loc)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func dedupeDays(activeDays []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(activeDays))
	out := make([]time.Time, 0, len(activeDays))
	for _, d := range activeDays {
		day := CalendarDay(d, time.UTC)
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	return out
}

// CurrentStreak counts consecutive active calendar days ending today or
// yesterday. activeDays and today are calendar days as returned by CalendarDay;
// duplicates are collapsed. Days after today are ignored.
func CurrentStreak(activeDays []time.Time, today time.Time) int {
	today = CalendarDay(today, time.UTC)
	days := dedupeDays(activeDays)
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	i := 0
	for i < len(days) && days[i].After(today) {
		i++
	}
	if i == len(days) {
		return 0
	}
	if days[i].Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 0
	expected := days[i]
	for ; i < len(days); i++ {
		if !days[i].Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak is the longest run of consecutive active calendar days.
func LongestStreak(activeDays []time.Time) int {
	days := dedupeDays(activeDays)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && d.Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
