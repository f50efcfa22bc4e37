// internal/domain/session.go
package domain

import (
	"math/big"
	"regexp"
	"strings"
	"time"
)

// SessionStatus is the terminal status of a persisted session.
type SessionStatus string

const (
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusAbandoned SessionStatus = "ABANDONED"
)

// Session is one finished workout attempt. DayID is empty for ad-hoc sessions
// and for sessions whose day was later deleted.
type Session struct {
	ID              string        `bson:"_id" json:"id"`
	OwnerID         string        `bson:"ownerId" json:"ownerId"`
	DayID           string        `bson:"dayId,omitempty" json:"dayId,omitempty"`
	StartedAt       time.Time     `bson:"startedAt" json:"startedAt"`
	DurationSeconds int           `bson:"durationSeconds" json:"durationSeconds"`
	Status          SessionStatus `bson:"status" json:"status"`
}

// SetRecord is one logged set. Weight is kept as the exact decimal text the user typed.
type SetRecord struct {
	ID         string `bson:"_id" json:"id"`
	SessionID  string `bson:"sessionId" json:"sessionId"`
	ExerciseID int64  `bson:"exerciseId" json:"exerciseId"`
	Weight     string `bson:"weight" json:"weight"`
	RepsDone   int    `bson:"repsDone" json:"repsDone"`
	SetIndex   int    `bson:"setIndex" json:"setIndex"`
}

var weightPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseWeight parses weight text as an exact non-negative decimal.
// Empty text means no weight was entered and counts as zero.
func ParseWeight(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Rat), nil
	}
	if !weightPattern.MatchString(s) {
		return nil, NewValidationError("weight %q is not a non-negative decimal number", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, NewValidationError("weight %q is not a non-negative decimal number", s)
	}
	return r, nil
}

// VolumeRat returns weight × repsDone as an exact value.
// Unparseable weights contribute nothing.
func (r SetRecord) VolumeRat() *big.Rat {
	w, err := ParseWeight(r.Weight)
	if err != nil {
		return new(big.Rat)
	}
	return w.Mul(w, new(big.Rat).SetInt64(int64(r.RepsDone)))
}

// Volume sums weight × repsDone over records. It is always derived, never stored.
func Volume(records []SetRecord) float64 {
	total := new(big.Rat)
	for _, r := range records {
		total.Add(total, r.VolumeRat())
	}
	f, _ := total.Float64()
	return f
}
