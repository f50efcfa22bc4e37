package importer

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

// genStructure draws a valid stored program: dense week numbers, seven days a
// week, rest days without slots and workout days with at least one slot.
func genStructure(t *rapid.T) *domain.ProgramStructure {
	structure := &domain.ProgramStructure{
		Plan: domain.Plan{
			ID:   "plan",
			Name: rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{0,20}[A-Za-z0-9]`).Draw(t, "name"),
			Kind: rapid.SampledFrom([]domain.PlanKind{domain.PlanKindSystem, domain.PlanKindCustom}).Draw(t, "kind"),
		},
	}

	weeks := rapid.IntRange(1, 4).Draw(t, "weeks")
	workedOut := false
	for w := 1; w <= weeks; w++ {
		week := domain.WeekView{Week: domain.Week{
			ID:         fmt.Sprintf("w%d", w),
			WeekNumber: w,
			Label:      rapid.SampledFrom([]string{"", "Base", "Deload"}).Draw(t, "weekLabel"),
		}}
		for dow := 0; dow < domain.DaysInWeek; dow++ {
			rest := rapid.Bool().Draw(t, "rest")
			day := domain.DayView{Day: domain.Day{
				ID:        fmt.Sprintf("w%dd%d", w, dow),
				DayOfWeek: dow,
				IsRestDay: rest,
			}}
			if !rest {
				workedOut = true
				day.Label = rapid.SampledFrom([]string{"", "Push", "Legs"}).Draw(t, "dayLabel")
				slots := rapid.IntRange(1, 5).Draw(t, "slots")
				for o := 0; o < slots; o++ {
					day.Slots = append(day.Slots, domain.SlotView{ExerciseSlot: domain.ExerciseSlot{
						ExerciseID:    rapid.Int64Range(1, 500).Draw(t, "exerciseId"),
						Sets:          rapid.IntRange(1, 10).Draw(t, "sets"),
						Reps:          rapid.IntRange(1, 30).Draw(t, "reps"),
						ExerciseOrder: o,
					}})
				}
			}
			week.Days = append(week.Days, day)
		}
		structure.Weeks = append(structure.Weeks, week)
	}
	if !workedOut {
		structure.Weeks[0].Days[1].IsRestDay = false
		structure.Weeks[0].Days[1].Slots = []domain.SlotView{{ExerciseSlot: domain.ExerciseSlot{ExerciseID: 1, Sets: 3, Reps: 5}}}
	}
	return structure
}

func TestExport_ImportRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		structure := genStructure(rt)

		exported := Export(structure)
		raw, err := json.Marshal(exported)
		require.NoError(rt, err)

		doc, err := ValidateAndNormalize(raw)
		require.NoError(rt, err)

		assert.Equal(rt, structure.Plan.Name+ImportedSuffix, doc.Name)
		assert.Equal(rt, domain.PlanKindCustom, doc.Kind)

		// Apart from the name and kind, the normalized document is the export itself.
		exported.Name = doc.Name
		exported.Kind = doc.Kind
		assert.Equal(rt, exported, doc)

		weeks, days, slots := structure.Counts()
		gotDays, gotSlots := 0, 0
		for _, w := range doc.Weeks {
			gotDays += len(w.Days)
			for _, d := range w.Days {
				gotSlots += len(d.Exercises)
			}
		}
		assert.Equal(rt, weeks, len(doc.Weeks))
		assert.Equal(rt, days, gotDays)
		assert.Equal(rt, slots, gotSlots)
	})
}

func TestExport_Shape(t *testing.T) {
	structure := &domain.ProgramStructure{
		Plan: domain.Plan{Name: "Starter", Kind: domain.PlanKindSystem},
		Weeks: []domain.WeekView{{
			Week: domain.Week{WeekNumber: 1, Label: "Intro"},
			Days: []domain.DayView{
				{Day: domain.Day{DayOfWeek: 0, IsRestDay: true}},
				{Day: domain.Day{DayOfWeek: 1, Label: "Full Body"}, Slots: []domain.SlotView{
					{ExerciseSlot: domain.ExerciseSlot{ExerciseID: 2, Sets: 5, Reps: 5, ExerciseOrder: 0}},
				}},
			},
		}},
	}

	raw, err := json.Marshal(Export(structure))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "Starter",
		"kind": "SYSTEM",
		"weeks": [{
			"weekNumber": 1,
			"label": "Intro",
			"days": [
				{"dayOfWeek": 0, "dayLabel": "", "isRestDay": true, "exercises": []},
				{"dayOfWeek": 1, "dayLabel": "Full Body", "isRestDay": false,
				 "exercises": [{"exerciseId": 2, "sets": 5, "reps": 5, "order": 0}]}
			]
		}]
	}`, string(raw))
}

func TestExport_PartialWeekComesBackPadded(t *testing.T) {
	structure := &domain.ProgramStructure{
		Plan: domain.Plan{Name: "Twice A Week", Kind: domain.PlanKindCustom},
		Weeks: []domain.WeekView{{
			Week: domain.Week{WeekNumber: 1},
			Days: []domain.DayView{
				{Day: domain.Day{DayOfWeek: 1, Label: "Upper"}, Slots: []domain.SlotView{
					{ExerciseSlot: domain.ExerciseSlot{ExerciseID: 1, Sets: 3, Reps: 5}},
				}},
				{Day: domain.Day{DayOfWeek: 4, Label: "Lower"}, Slots: []domain.SlotView{
					{ExerciseSlot: domain.ExerciseSlot{ExerciseID: 2, Sets: 3, Reps: 5}},
				}},
			},
		}},
	}

	exported := Export(structure)
	require.Len(t, exported.Weeks[0].Days, 2, "export writes only the stored days")
	raw, err := json.Marshal(exported)
	require.NoError(t, err)

	doc, err := ValidateAndNormalize(raw)
	require.NoError(t, err)
	require.Len(t, doc.Weeks, 1)
	days := doc.Weeks[0].Days
	require.Len(t, days, domain.DaysInWeek, "import pads the week")

	for dow, day := range days {
		assert.Equal(t, dow, day.DayOfWeek)
		switch dow {
		case 1:
			assert.Equal(t, exported.Weeks[0].Days[0], day)
		case 4:
			assert.Equal(t, exported.Weeks[0].Days[1], day)
		default:
			assert.True(t, day.IsRestDay, "day %d", dow)
			assert.Empty(t, day.Exercises, "day %d", dow)
		}
	}
}
