package importer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

func requireProblems(t *testing.T, err error) []string {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Problems)
	return ve.Problems
}

func containsProblem(problems []string, substr string) bool {
	for _, p := range problems {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

func TestValidateAndNormalize_LegacyDaysShape(t *testing.T) {
	raw := `{
		"name": "Push Pull",
		"kind": "SYSTEM",
		"days": [
			{"dayOfWeek": "1", "dayLabel": "Push", "isRestDay": false,
			 "exercises": [{"exerciseId": "1", "sets": "3", "reps": 8, "order": 0}]},
			{"dayOfWeek": 4, "dayLabel": "Pull",
			 "exercises": [{"exerciseId": 4, "sets": 4, "reps": "6"}]}
		]
	}`

	doc, err := ValidateAndNormalize([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Push Pull (Imported)", doc.Name)
	assert.Equal(t, domain.PlanKindCustom, doc.Kind, "imported content is never trusted as SYSTEM")
	require.Len(t, doc.Weeks, 1)
	assert.Equal(t, 1, doc.Weeks[0].WeekNumber)

	days := doc.Weeks[0].Days
	require.Len(t, days, domain.DaysInWeek)
	for i, d := range days {
		assert.Equal(t, i, d.DayOfWeek)
	}
	assert.True(t, days[0].IsRestDay)
	assert.Empty(t, days[0].Exercises)
	assert.Equal(t, "Push", days[1].DayLabel)
	assert.False(t, days[1].IsRestDay)
	assert.Equal(t, domain.SlotDocument{ExerciseID: 1, Sets: 3, Reps: 8, Order: 0}, days[1].Exercises[0])
	assert.False(t, days[4].IsRestDay, "missing isRestDay with exercises means a workout day")
	assert.Equal(t, 6, days[4].Exercises[0].Reps)
	assert.True(t, days[6].IsRestDay)
}

func TestValidateAndNormalize_WeeksSortedAndRenumbered(t *testing.T) {
	raw := `{
		"name": "Block",
		"weeks": [
			{"weekNumber": 5, "label": "Peak", "days": [{"dayOfWeek": 2, "exercises": [{"exerciseId": 3, "sets": 1, "reps": 1}]}]},
			{"weekNumber": "2", "label": "Base", "days": [
				{"dayOfWeek": 0, "exercises": [
					{"exerciseId": 2, "sets": 5, "reps": 5, "order": 7},
					{"exerciseId": 1, "sets": 5, "reps": 5, "order": 3}
				]}
			]}
		]
	}`

	doc, err := ValidateAndNormalize([]byte(raw))
	require.NoError(t, err)
	require.Len(t, doc.Weeks, 2)

	assert.Equal(t, 1, doc.Weeks[0].WeekNumber)
	assert.Equal(t, "Base", doc.Weeks[0].Label)
	assert.Equal(t, 2, doc.Weeks[1].WeekNumber)
	assert.Equal(t, "Peak", doc.Weeks[1].Label)

	slots := doc.Weeks[0].Days[0].Exercises
	require.Len(t, slots, 2)
	assert.Equal(t, int64(1), slots[0].ExerciseID)
	assert.Equal(t, 0, slots[0].Order)
	assert.Equal(t, int64(2), slots[1].ExerciseID)
	assert.Equal(t, 1, slots[1].Order)
}

func TestValidateAndNormalize_RestDayWithExercisesIsRejected(t *testing.T) {
	raw := `{"name": "Bad", "weeks": [{"weekNumber": 1, "days": [
		{"dayOfWeek": 0, "isRestDay": true, "exercises": [{"exerciseId": 1, "sets": 3, "reps": 5}]},
		{"dayOfWeek": 1, "exercises": [{"exerciseId": 1, "sets": 3, "reps": 5}]}
	]}]}`

	_, err := ValidateAndNormalize([]byte(raw))
	problems := requireProblems(t, err)
	assert.True(t, containsProblem(problems, "week 1 day 0 is marked rest but has 1 exercises"), problems)
}

func TestValidateAndNormalize_NamesEveryViolatedRule(t *testing.T) {
	raw := `{"name": "Broken", "weeks": [{"weekNumber": 1, "days": [
		{"dayOfWeek": 3, "isRestDay": false, "exercises": []},
		{"dayOfWeek": 4, "exercises": [{"exerciseId": "abc", "sets": 0}]},
		{"dayOfWeek": 9}
	]}]}`

	_, err := ValidateAndNormalize([]byte(raw))
	problems := requireProblems(t, err)

	assert.True(t, containsProblem(problems, "week 1 day 3 has no exercises and is not marked rest"), problems)
	assert.True(t, containsProblem(problems, `exerciseId "abc" is not a number`), problems)
	assert.True(t, containsProblem(problems, "sets must be at least 1"), problems)
	assert.True(t, containsProblem(problems, "is missing reps"), problems)
	assert.True(t, containsProblem(problems, "dayOfWeek must be between 0 and 6, got 9"), problems)
}

func TestValidateAndNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		problem string
	}{
		{"not json", `{"name":`, "document is not valid JSON"},
		{"not an object", `[1,2]`, "document must be a JSON object"},
		{"no shape", `{"name": "x"}`, "neither weeks nor days"},
		{"both shapes", `{"weeks": [], "days": []}`, "both weeks and days"},
		{"zero weeks", `{"weeks": []}`, "document has no weeks"},
		{"weeks not array", `{"weeks": {}}`, "weeks must be an array"},
		{"all rest", `{"days": [{"dayOfWeek": 1, "isRestDay": true}]}`, "no workout content"},
		{"duplicate day", `{"days": [
			{"dayOfWeek": 1, "exercises": [{"exerciseId": 1, "sets": 1, "reps": 1}]},
			{"dayOfWeek": "1", "exercises": [{"exerciseId": 2, "sets": 1, "reps": 1}]}]}`, "day 1 appears more than once"},
		{"duplicate week", `{"weeks": [
			{"weekNumber": 1, "days": [{"dayOfWeek": 1, "exercises": [{"exerciseId": 1, "sets": 1, "reps": 1}]}]},
			{"weekNumber": 1, "days": []}]}`, "weekNumber 1 appears more than once"},
		{"fractional sets", `{"days": [{"dayOfWeek": 1, "exercises": [{"exerciseId": 1, "sets": 2.5, "reps": 1}]}]}`, "2.5 is not a whole number"},
		{"bool reps", `{"days": [{"dayOfWeek": 1, "exercises": [{"exerciseId": 1, "sets": 2, "reps": true}]}]}`, "has type bool"},
		{"missing dayOfWeek", `{"days": [{"exercises": [{"exerciseId": 1, "sets": 2, "reps": 2}]}]}`, "missing dayOfWeek"},
		{"bad isRestDay", `{"days": [{"dayOfWeek": 1, "isRestDay": "maybe", "exercises": [{"exerciseId": 1, "sets": 2, "reps": 2}]}]}`, `isRestDay "maybe" is not a boolean`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndNormalize([]byte(tt.raw))
			problems := requireProblems(t, err)
			assert.True(t, containsProblem(problems, tt.problem), "want %q in %v", tt.problem, problems)
		})
	}
}

func TestValidateAndNormalize_Name(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `"Strength"`, "Strength (Imported)"},
		{"already suffixed", `"Strength (Imported)"`, "Strength (Imported)"},
		{"blank", `"  "`, DefaultName + ImportedSuffix},
		{"not a string", `42`, DefaultName + ImportedSuffix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"name": ` + tt.in + `, "days": [{"dayOfWeek": 1, "exercises": [{"exerciseId": 1, "sets": 1, "reps": 1}]}]}`
			doc, err := ValidateAndNormalize([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Name)
		})
	}
}

func TestCoerceInt(t *testing.T) {
	good := map[string]struct {
		in   any
		want int
	}{
		"number":       {json.Number("12"), 12},
		"whole float":  {json.Number("5.0"), 5},
		"string":       {" 7 ", 7},
		"leading zero": {"08", 8},
		"float64":      {float64(3), 3},
		"negative":     {"-2", -2},
		"exponent":     {json.Number("1e2"), 100},
		"string float": {"4.0", 4},
		"native int":   {9, 9},
		"native int64": {int64(11), 11},
	}
	for name, tt := range good {
		t.Run(name, func(t *testing.T) {
			got, err := coerceInt(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for name, in := range map[string]any{
		"fraction": "1.5",
		"word":     "ten",
		"empty":    "",
		"bool":     true,
		"huge":     json.Number("99999999999"),
		"nested":   map[string]any{},
	} {
		t.Run("reject "+name, func(t *testing.T) {
			_, err := coerceInt(in)
			assert.Error(t, err)
		})
	}
}

func TestSplitBatch(t *testing.T) {
	docs, err := SplitBatch([]byte(`  {"name": "one"} `))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	docs, err = SplitBatch([]byte(`[{"name": "one"}, 3, {"name": "two"}]`))
	require.NoError(t, err)
	assert.Len(t, docs, 3, "non-object items are kept so they fail individually")

	_, err = SplitBatch([]byte(`   `))
	assert.True(t, domain.IsValidation(err))

	_, err = SplitBatch([]byte(`[{"name": `))
	assert.True(t, domain.IsValidation(err))

	for _, raw := range []string{`"just a string"`, `42`, `null`, `true`} {
		_, err = SplitBatch([]byte(raw))
		assert.True(t, domain.IsValidation(err), raw)
	}
}
