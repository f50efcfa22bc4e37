package analytics

import (
	"math/big"
	"sort"
	"time"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

type PersonalRecord struct {
	ExerciseID int64  `json:"exerciseId"`
	Title      string `json:"title,omitempty"`
	Weight     string `json:"weight"`
	RepsDone   int    `json:"repsDone"`
	Date       string `json:"date"`
	SessionID  string `json:"sessionId"`
}

// PersonalRecords returns the heaviest weight logged per exercise, ordered by
// exercise id. On a tie the earliest session wins. Sets without a weight are
// not records.
func PersonalRecords(sessions []domain.Session, records []domain.SetRecord, catalog map[int64]domain.Exercise, loc *time.Location) []PersonalRecord {
	started := make(map[string]time.Time, len(sessions))
	for _, s := range sessions {
		started[s.ID] = s.StartedAt
	}

	ordered := make([]domain.SetRecord, 0, len(records))
	for _, r := range records {
		if _, ok := started[r.SessionID]; ok && r.Weight != "" {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := started[ordered[i].SessionID], started[ordered[j].SessionID]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ordered[i].SetIndex < ordered[j].SetIndex
	})

	type best struct {
		weight *big.Rat
		record domain.SetRecord
	}
	bests := make(map[int64]*best)
	for _, r := range ordered {
		w, err := domain.ParseWeight(r.Weight)
		if err != nil {
			continue
		}
		cur, ok := bests[r.ExerciseID]
		if !ok || w.Cmp(cur.weight) > 0 {
			bests[r.ExerciseID] = &best{weight: w, record: r}
		}
	}

	out := make([]PersonalRecord, 0, len(bests))
	for id, b := range bests {
		pr := PersonalRecord{
			ExerciseID: id,
			Weight:     b.record.Weight,
			RepsDone:   b.record.RepsDone,
			Date:       CalendarDay(started[b.record.SessionID], loc).Format(DateLayout),
			SessionID:  b.record.SessionID,
		}
		if ex, ok := catalog[id]; ok {
			pr.Title = ex.Title
		}
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseID < out[j].ExerciseID })
	return out
}
