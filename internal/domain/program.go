// internal/domain/program.go
package domain

// ProgramDocument is the portable, versionless program format used by
// import and export. It is also the input of create and replace once normalized.
type ProgramDocument struct {
	Name       string         `json:"name"`
	Kind       PlanKind       `json:"kind,omitempty"`
	Visibility string         `json:"visibility,omitempty"`
	Weeks      []WeekDocument `json:"weeks"`
}

type WeekDocument struct {
	WeekNumber int           `json:"weekNumber"`
	Label      string        `json:"label"`
	Days       []DayDocument `json:"days"`
}

type DayDocument struct {
	DayOfWeek int            `json:"dayOfWeek"`
	DayLabel  string         `json:"dayLabel"`
	IsRestDay bool           `json:"isRestDay"`
	Exercises []SlotDocument `json:"exercises"`
}

type SlotDocument struct {
	ExerciseID int64 `json:"exerciseId"`
	Sets       int   `json:"sets"`
	Reps       int   `json:"reps"`
	Order      int   `json:"order"`
}

// ProgramStructure is the nested read view of a plan, rebuilt from flat rows.
type ProgramStructure struct {
	Plan  Plan       `json:"plan"`
	Weeks []WeekView `json:"weeks"`
}

type WeekView struct {
	Week
	Days []DayView `json:"days"`
}

type DayView struct {
	Day
	Slots []SlotView `json:"slots"`
}

// SlotView carries the slot plus its catalog exercise. Exercise is nil when the
// catalog no longer knows the id.
type SlotView struct {
	ExerciseSlot
	Exercise *Exercise `json:"exercise,omitempty"`
}

// Counts returns the number of weeks, days and slots in the structure.
func (s *ProgramStructure) Counts() (weeks, days, slots int) {
	for _, w := range s.Weeks {
		weeks++
		for _, d := range w.Days {
			days++
			slots += len(d.Slots)
		}
	}
	return weeks, days, slots
}
