// internal/domain/exercise.go
package domain

// Exercise is a reference catalog entry. The core only ever reads these.
type Exercise struct {
	ID           int64    `bson:"_id" json:"id"`
	Title        string   `bson:"title" json:"title"`
	MuscleGroups []string `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"` // e.g. "Chest", "Triceps"
	Equipment    string   `bson:"equipment,omitempty" json:"equipment,omitempty"`
}
