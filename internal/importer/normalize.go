// Package importer turns untrusted program documents into the canonical
// domain.ProgramDocument and flattens stored programs back into documents.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

const (
	// ImportedSuffix marks plans that came in through import.
	ImportedSuffix = " (Imported)"
	// DefaultName is used when a document carries no usable name.
	DefaultName = "Untitled Program"
)

// documentShape tags the recognized top-level layouts of a program document.
type documentShape int

const (
	shapeWeeks      documentShape = iota + 1 // { name, weeks: [...] }
	shapeLegacyDays                          // { name, days: [...] } single week
)

// ValidateAndNormalize parses one raw JSON document and returns its canonical
// form. All violations found are reported together in one *domain.ValidationError.
func ValidateAndNormalize(raw []byte) (domain.ProgramDocument, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return domain.ProgramDocument{}, err
	}
	return NormalizeObject(obj)
}

// SplitBatch splits raw into its documents. raw is either one JSON object or
// an array of them; any other top-level value is rejected. Array items are
// returned untouched so each one can fail on its own.
func SplitBatch(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, domain.NewValidationError("import payload is empty")
	}
	switch trimmed[0] {
	case '{':
		return []json.RawMessage{json.RawMessage(trimmed)}, nil
	case '[':
	default:
		return nil, domain.NewValidationError("import payload must be a document or an array of documents")
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return nil, domain.NewValidationError("import payload is not a valid JSON array: %v", err)
	}
	return docs, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, domain.NewValidationError("document is not valid JSON: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, domain.NewValidationError("document must be a JSON object")
	}
	return obj, nil
}

func detectShape(obj map[string]any) (documentShape, error) {
	_, hasWeeks := obj["weeks"]
	_, hasDays := obj["days"]
	switch {
	case hasWeeks && hasDays:
		return 0, fmt.Errorf("document has both weeks and days; use one shape")
	case hasWeeks:
		return shapeWeeks, nil
	case hasDays:
		return shapeLegacyDays, nil
	default:
		return 0, fmt.Errorf("document has neither weeks nor days")
	}
}

// NormalizeObject normalizes an already decoded document. Numbers are expected
// as json.Number, float64 or numeric strings.
func NormalizeObject(obj map[string]any) (domain.ProgramDocument, error) {
	var errs error

	shape, err := detectShape(obj)
	if err != nil {
		return domain.ProgramDocument{}, toValidationError(err)
	}

	// Legacy documents become a single synthetic week 1.
	var rawWeeks []any
	switch shape {
	case shapeWeeks:
		list, ok := obj["weeks"].([]any)
		if !ok {
			return domain.ProgramDocument{}, domain.NewValidationError("weeks must be an array")
		}
		rawWeeks = list
	case shapeLegacyDays:
		rawWeeks = []any{map[string]any{"weekNumber": json.Number("1"), "days": obj["days"]}}
	}

	if len(rawWeeks) == 0 {
		return domain.ProgramDocument{}, domain.NewValidationError("document has no weeks")
	}

	doc := domain.ProgramDocument{
		Name: importedName(obj["name"]),
		Kind: domain.PlanKindCustom,
	}
	if v, ok := obj["visibility"].(string); ok {
		doc.Visibility = strings.TrimSpace(v)
	}

	seenWeeks := make(map[int]bool, len(rawWeeks))
	for i, rw := range rawWeeks {
		wm, ok := rw.(map[string]any)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("week at position %d must be an object", i+1))
			continue
		}
		week, err := normalizeWeek(wm, i)
		errs = multierr.Append(errs, err)
		if err != nil {
			continue
		}
		if seenWeeks[week.WeekNumber] {
			errs = multierr.Append(errs, fmt.Errorf("weekNumber %d appears more than once", week.WeekNumber))
			continue
		}
		seenWeeks[week.WeekNumber] = true
		doc.Weeks = append(doc.Weeks, week)
	}

	if errs == nil && !hasWorkoutContent(doc) {
		errs = fmt.Errorf("program has no workout content: every day is a rest day")
	}
	if errs != nil {
		return domain.ProgramDocument{}, toValidationError(errs)
	}

	sort.SliceStable(doc.Weeks, func(i, j int) bool {
		return doc.Weeks[i].WeekNumber < doc.Weeks[j].WeekNumber
	})
	for i := range doc.Weeks {
		doc.Weeks[i].WeekNumber = i + 1
	}
	return doc, nil
}

func importedName(v any) string {
	name, _ := v.(string)
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if strings.HasSuffix(name, ImportedSuffix) {
		return name
	}
	return name + ImportedSuffix
}

func normalizeWeek(wm map[string]any, position int) (domain.WeekDocument, error) {
	var errs error
	week := domain.WeekDocument{WeekNumber: position + 1}

	if v, present := wm["weekNumber"]; present {
		n, err := coerceInt(v)
		switch {
		case err != nil:
			return week, fmt.Errorf("week at position %d: weekNumber %v", position+1, err)
		case n < 1:
			return week, fmt.Errorf("week at position %d: weekNumber must be at least 1, got %d", position+1, n)
		}
		week.WeekNumber = n
	}
	label, err := optionalString(wm, "label")
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("week %d: %v", week.WeekNumber, err))
	}
	week.Label = label

	rawDays, ok := wm["days"].([]any)
	if !ok && wm["days"] != nil {
		return week, multierr.Append(errs, fmt.Errorf("week %d: days must be an array", week.WeekNumber))
	}

	byDay := make(map[int]domain.DayDocument, domain.DaysInWeek)
	for i, rd := range rawDays {
		dm, ok := rd.(map[string]any)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("week %d: day at position %d must be an object", week.WeekNumber, i+1))
			continue
		}
		day, err := normalizeDay(dm, week.WeekNumber, i)
		errs = multierr.Append(errs, err)
		if err != nil {
			continue
		}
		if _, dup := byDay[day.DayOfWeek]; dup {
			errs = multierr.Append(errs, fmt.Errorf("week %d: day %d appears more than once", week.WeekNumber, day.DayOfWeek))
			continue
		}
		byDay[day.DayOfWeek] = day
	}
	if errs != nil {
		return week, errs
	}

	// Missing days of the week become rest days.
	week.Days = make([]domain.DayDocument, 0, domain.DaysInWeek)
	for dow := 0; dow < domain.DaysInWeek; dow++ {
		day, ok := byDay[dow]
		if !ok {
			day = domain.DayDocument{DayOfWeek: dow, IsRestDay: true, Exercises: []domain.SlotDocument{}}
		}
		week.Days = append(week.Days, day)
	}
	return week, nil
}

func normalizeDay(dm map[string]any, weekNumber, position int) (domain.DayDocument, error) {
	var errs error
	var day domain.DayDocument

	rawDow, present := dm["dayOfWeek"]
	if !present {
		return day, fmt.Errorf("week %d: day at position %d is missing dayOfWeek", weekNumber, position+1)
	}
	dow, err := coerceInt(rawDow)
	if err != nil {
		return day, fmt.Errorf("week %d: day at position %d: dayOfWeek %v", weekNumber, position+1, err)
	}
	if dow < 0 || dow >= domain.DaysInWeek {
		return day, fmt.Errorf("week %d: dayOfWeek must be between 0 and 6, got %d", weekNumber, dow)
	}
	day.DayOfWeek = dow
	where := fmt.Sprintf("week %d day %d", weekNumber, dow)

	label, err := optionalString(dm, "dayLabel")
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %v", where, err))
	}
	if label == "" {
		label, _ = optionalString(dm, "label")
	}
	day.DayLabel = label

	var rawExercises []any
	if v, present := dm["exercises"]; present && v != nil {
		list, ok := v.([]any)
		if !ok {
			return day, multierr.Append(errs, fmt.Errorf("%s: exercises must be an array", where))
		}
		rawExercises = list
	}

	rest, restGiven, err := optionalBool(dm, "isRestDay")
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %v", where, err))
		restGiven = false
	}
	if !restGiven {
		rest = len(rawExercises) == 0
	}
	day.IsRestDay = rest

	switch {
	case rest && len(rawExercises) > 0:
		errs = multierr.Append(errs, fmt.Errorf("%s is marked rest but has %d exercises", where, len(rawExercises)))
	case !rest && len(rawExercises) == 0:
		errs = multierr.Append(errs, fmt.Errorf("%s has no exercises and is not marked rest", where))
	}

	day.Exercises = make([]domain.SlotDocument, 0, len(rawExercises))
	for i, re := range rawExercises {
		em, ok := re.(map[string]any)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%s: exercise at position %d must be an object", where, i+1))
			continue
		}
		slot, err := normalizeSlot(em, where, i)
		errs = multierr.Append(errs, err)
		if err == nil {
			day.Exercises = append(day.Exercises, slot)
		}
	}
	if errs != nil {
		return day, errs
	}

	sort.SliceStable(day.Exercises, func(i, j int) bool {
		return day.Exercises[i].Order < day.Exercises[j].Order
	})
	for i := range day.Exercises {
		day.Exercises[i].Order = i
	}
	return day, nil
}

func normalizeSlot(em map[string]any, where string, position int) (domain.SlotDocument, error) {
	var errs error
	slot := domain.SlotDocument{Order: position}
	at := fmt.Sprintf("%s exercise %d", where, position+1)

	required := func(field string, min int) int {
		v, present := em[field]
		if !present || v == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s is missing %s", at, field))
			return 0
		}
		n, err := coerceInt(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s %v", at, field, err))
			return 0
		}
		if n < min {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s must be at least %d, got %d", at, field, min, n))
		}
		return n
	}

	slot.ExerciseID = int64(required("exerciseId", 1))
	slot.Sets = required("sets", 1)
	slot.Reps = required("reps", 1)

	if v, present := em["order"]; present && v != nil {
		n, err := coerceInt(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: order %v", at, err))
		}
		slot.Order = n
	}
	return slot, errs
}

func hasWorkoutContent(doc domain.ProgramDocument) bool {
	for _, w := range doc.Weeks {
		for _, d := range w.Days {
			if !d.IsRestDay || len(d.Exercises) > 0 {
				return true
			}
		}
	}
	return false
}

func optionalString(m map[string]any, key string) (string, error) {
	v, present := m[key]
	if !present || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return strings.TrimSpace(s), nil
}

// toValidationError flattens the collected errors into one ValidationError.
func toValidationError(err error) error {
	errs := multierr.Errors(err)
	problems := make([]string, 0, len(errs))
	for _, e := range errs {
		problems = append(problems, e.Error())
	}
	return &domain.ValidationError{Problems: problems}
}
