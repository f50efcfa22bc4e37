package importer

import (
	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

// Export flattens a stored program into a portable document. Ids are dropped;
// weeks, days and exercises keep the order of the structure.
func Export(structure *domain.ProgramStructure) domain.ProgramDocument {
	doc := domain.ProgramDocument{
		Name:       structure.Plan.Name,
		Kind:       structure.Plan.Kind,
		Visibility: structure.Plan.Visibility,
		Weeks:      make([]domain.WeekDocument, 0, len(structure.Weeks)),
	}
	for _, w := range structure.Weeks {
		week := domain.WeekDocument{
			WeekNumber: w.WeekNumber,
			Label:      w.Label,
			Days:       make([]domain.DayDocument, 0, len(w.Days)),
		}
		for _, d := range w.Days {
			day := domain.DayDocument{
				DayOfWeek: d.DayOfWeek,
				DayLabel:  d.Label,
				IsRestDay: d.IsRestDay,
				Exercises: make([]domain.SlotDocument, 0, len(d.Slots)),
			}
			for _, s := range d.Slots {
				day.Exercises = append(day.Exercises, domain.SlotDocument{
					ExerciseID: s.ExerciseID,
					Sets:       s.Sets,
					Reps:       s.Reps,
					Order:      s.ExerciseOrder,
				})
			}
			week.Days = append(week.Days, day)
		}
		doc.Weeks = append(doc.Weeks, week)
	}
	return doc
}
