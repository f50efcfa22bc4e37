package analytics

import (
	"math/big"
	"sort"
	"time"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

// DateLayout formats calendar days in results.
const DateLayout = "2006-01-02"

type DailyVolume struct {
	Date     string  `json:"date"`
	Volume   float64 `json:"volume"`
	Sessions int     `json:"sessions"`
}

// SessionVolumes returns Σ weight × repsDone per session id.
func SessionVolumes(records []domain.SetRecord) map[string]float64 {
	sums := make(map[string]*big.Rat)
	for _, r := range records {
		sum, ok := sums[r.SessionID]
		if !ok {
			sum = new(big.Rat)
			sums[r.SessionID] = sum
		}
		sum.Add(sum, r.VolumeRat())
	}
	out := make(map[string]float64, len(sums))
	for id, sum := range sums {
		out[id], _ = sum.Float64()
	}
	return out
}

// VolumeHistory groups volume by the calendar day each session started on,
// ascending by date. Days with sessions but no weighted sets report zero.
func VolumeHistory(sessions []domain.Session, records []domain.SetRecord, loc *time.Location) []DailyVolume {
	dayOf := make(map[string]time.Time, len(sessions))
	sums := make(map[time.Time]*big.Rat)
	counts := make(map[time.Time]int)
	for _, s := range sessions {
		day := CalendarDay(s.StartedAt, loc)
		dayOf[s.ID] = day
		counts[day]++
		if _, ok := sums[day]; !ok {
			sums[day] = new(big.Rat)
		}
	}
	for _, r := range records {
		day, ok := dayOf[r.SessionID]
		if !ok {
			continue
		}
		sums[day].Add(sums[day], r.VolumeRat())
	}

	days := make([]time.Time, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	history := make([]DailyVolume, 0, len(days))
	for _, day := range days {
		v, _ := sums[day].Float64()
		history = append(history, DailyVolume{Date: day.Format(DateLayout), Volume: v, Sessions: counts[day]})
	}
	return history
}
