// internal/domain/plan.go
package domain

import (
	"time"
)

// PlanKind tells hand-authored plans apart from the ones shipped with the app.
type PlanKind string

const (
	PlanKindSystem PlanKind = "SYSTEM"
	PlanKindCustom PlanKind = "CUSTOM"
)

// PlanStatus is the lifecycle flag of a plan. At most one plan per owner is active.
type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Plan is the root of a training program. Weeks, Days and ExerciseSlots are
// stored as flat rows pointing at their parent and never embedded here.
type Plan struct {
	ID         string     `bson:"_id" json:"id"`
	OwnerID    string     `bson:"ownerId" json:"ownerId"` // Scope for the single active plan rule
	Name       string     `bson:"name" json:"name"`
	Kind       PlanKind   `bson:"kind" json:"kind"`
	Status     PlanStatus `bson:"status" json:"status"`
	Visibility string     `bson:"visibility,omitempty" json:"visibility,omitempty"` // Optional tier, e.g. "free", "premium"
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

func (p *Plan) IsActive() bool {
	return p.Status == PlanStatusActive
}

// Week belongs to exactly one plan. WeekNumber is 1-based and dense within the plan.
type Week struct {
	ID         string `bson:"_id" json:"id"`
	PlanID     string `bson:"planId" json:"planId"`
	WeekNumber int    `bson:"weekNumber" json:"weekNumber"`
	Label      string `bson:"label,omitempty" json:"label,omitempty"`
}

// Day belongs to exactly one week. DayOfWeek is 0 (Sunday) to 6 (Saturday).
type Day struct {
	ID        string `bson:"_id" json:"id"`
	WeekID    string `bson:"weekId" json:"weekId"`
	DayOfWeek int    `bson:"dayOfWeek" json:"dayOfWeek"`
	Label     string `bson:"label,omitempty" json:"label,omitempty"`
	IsRestDay bool   `bson:"isRestDay" json:"isRestDay"`
}

// ExerciseSlot places one catalog exercise on a day with its target volume.
// ExerciseOrder is 0-based and dense within the day.
type ExerciseSlot struct {
	ID            string `bson:"_id" json:"id"`
	DayID         string `bson:"dayId" json:"dayId"`
	ExerciseID    int64  `bson:"exerciseId" json:"exerciseId"`
	Sets          int    `bson:"sets" json:"sets"`
	Reps          int    `bson:"reps" json:"reps"`
	ExerciseOrder int    `bson:"exerciseOrder" json:"exerciseOrder"`
}

// DaysInWeek is the number of days a normalized week always carries.
const DaysInWeek = 7
