package analytics

import (
	"math/big"
	"sort"
	"strings"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

// Metric selects what MuscleGroupDistribution accumulates.
type Metric string

const (
	MetricCount  Metric = "count"  // completed sets
	MetricVolume Metric = "volume" // weight × reps
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "", MetricCount:
		return MetricCount, nil
	case MetricVolume:
		return MetricVolume, nil
	default:
		return "", domain.NewValidationError("unknown metric %q, want %q or %q", s, MetricCount, MetricVolume)
	}
}

type MuscleShare struct {
	MuscleGroup string  `json:"muscleGroup"`
	Value       float64 `json:"value"`
}

// MuscleGroupDistribution credits every muscle group tagged on a record's
// exercise. Results are sorted by value descending, then by name, and cut to
// topN when topN > 0. Exercises missing from the catalog are skipped.
func MuscleGroupDistribution(records []domain.SetRecord, catalog map[int64]domain.Exercise, metric Metric, topN int) []MuscleShare {
	sums := make(map[string]*big.Rat)
	one := big.NewRat(1, 1)
	for _, r := range records {
		ex, ok := catalog[r.ExerciseID]
		if !ok {
			continue
		}
		amount := one
		if metric == MetricVolume {
			amount = r.VolumeRat()
		}
		for _, group := range ex.MuscleGroups {
			group = strings.TrimSpace(group)
			if group == "" {
				continue
			}
			sum, ok := sums[group]
			if !ok {
				sum = new(big.Rat)
				sums[group] = sum
			}
			sum.Add(sum, amount)
		}
	}

	type entry struct {
		name string
		sum  *big.Rat
	}
	entries := make([]entry, 0, len(sums))
	for name, sum := range sums {
		entries = append(entries, entry{name, sum})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].sum.Cmp(entries[j].sum); c != 0 {
			return c > 0
		}
		return entries[i].name < entries[j].name
	})
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	shares := make([]MuscleShare, 0, len(entries))
	for _, e := range entries {
		v, _ := e.sum.Float64()
		shares = append(shares, MuscleShare{MuscleGroup: e.name, Value: v})
	}
	return shares
}
