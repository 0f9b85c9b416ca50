package models

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/learnapp/learn-client/internal/wire"
)

// GradeFromAge maps a pupil age to a primary-school grade (6 is grade 1,
// 7 is grade 2, and so on), clamped to the 1..4 range
func GradeFromAge(age int) int {
	g := age - 5
	if g < 1 {
		return 1
	}
	if g > 4 {
		return 4
	}
	return g
}

func gradeFromAgePtr(age *int) *int {
	if age == nil {
		return nil
	}
	g := GradeFromAge(*age)
	return &g
}

// ActivityToMaterial normalizes a raw catalog activity. Lossy fields that
// failed to decode stay absent; unknown device and topic values are dropped
// rather than surfaced.
func ActivityToMaterial(a wire.Activity, isFavorite bool) Material {
	ageMin := a.AgeMin.Ptr()
	ageMax := a.AgeMax.Ptr()

	gMin := gradeFromAgePtr(ageMin)
	gMax := gradeFromAgePtr(ageMax)
	switch {
	case gMin != nil && gMax == nil:
		gMax = gMin
	case gMin == nil && gMax != nil:
		gMin = gMax
	}

	// Legacy single grade, derived from age_min alone
	grade := 0
	if ageMin != nil {
		grade = GradeFromAge(*ageMin)
	}

	category := ""
	if a.Format != nil {
		category = capitalize(strings.TrimSpace(*a.Format))
	}
	if category == "" {
		category = capitalize(a.Type)
	}

	devices := make([]string, 0, len(a.ResourcesNeeded))
	for _, raw := range a.ResourcesNeeded {
		if d, ok := ParseDevice(raw); ok {
			devices = append(devices, d.Label())
		}
	}

	topics := make([]string, 0, len(a.Topics))
	for _, raw := range a.Topics {
		if t, ok := ParseTopic(raw); ok {
			topics = append(topics, t.Label())
		}
	}

	return Material{
		ID:                 a.ID,
		Category:           category,
		Title:              a.Name,
		Grade:              grade,
		GradeMin:           gMin,
		GradeMax:           gMax,
		Duration:           a.DurationMinMinutes.Or(0),
		Devices:            devices,
		Topics:             topics,
		IsFavorite:         isFavorite,
		AgeMin:             ageMin,
		AgeMax:             ageMax,
		DurationMax:        a.DurationMaxMinutes.Ptr(),
		PrepTimeMinutes:    a.PrepTimeMinutes.Ptr(),
		CleanupTimeMinutes: a.CleanupTimeMinutes.Ptr(),
		BreakAfter:         a.BreakAfter.Ptr(),
		MentalLoad:         effortLevelPtr(a.MentalLoad),
		PhysicalEnergy:     effortLevelPtr(a.PhysicalEnergy),
		BloomLevel:         a.BloomLevel,
		Source:             a.Source,
		DocumentID:         a.DocumentID.Ptr(),
	}
}

func effortLevelPtr(s wire.LossyString) *EffortLevel {
	raw, ok := s.Get()
	if !ok {
		return nil
	}
	level, ok := ParseEffortLevel(raw)
	if !ok {
		return nil
	}
	return &level
}

// capitalize upper-cases the first letter of every word and lower-cases the
// rest, so "hands on" displays as "Hands On"
func capitalize(s string) string {
	r := []rune(s)
	inWord := false
	for i, c := range r {
		if !unicode.IsLetter(c) {
			inWord = false
			continue
		}
		if inWord {
			r[i] = unicode.ToLower(c)
		} else {
			r[i] = unicode.ToUpper(c)
		}
		inWord = true
	}
	return string(r)
}

// RecommendationFromBundle maps one scored bundle into the domain. The score
// stays absent when the server omitted it or sent an unparseable value.
func RecommendationFromBundle(b wire.RecommendationBundle) Recommendation {
	activities := make([]Material, 0, len(b.Activities))
	for _, a := range b.Activities {
		activities = append(activities, ActivityToMaterial(a, false))
	}
	return Recommendation{
		Activities: activities,
		Score:      b.Score.Ptr(),
	}
}

// UserFromAPI converts the backend user representation
func UserFromAPI(u wire.APIUser) User {
	user := User{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
	if u.CreatedAt != nil && !u.CreatedAt.IsZero() {
		t := u.CreatedAt.Time
		user.CreatedAt = &t
	}
	return user
}

// SearchHistoryFromWire converts one recorded search. The backend stores
// every criteria field as a string, so each is parsed back into its logical
// type; unparseable values stay absent.
func SearchHistoryFromWire(e wire.SearchHistoryEntry) SearchHistory {
	h := SearchHistory{
		ID: e.ID,
		SearchCriteria: SearchCriteria{
			TargetAge:          atoiPtr(e.SearchCriteria.TargetAge),
			TargetDuration:     atoiPtr(e.SearchCriteria.TargetDuration),
			AvailableResources: splitCSV(e.SearchCriteria.AvailableResources),
			PreferredTopics:    splitCSV(e.SearchCriteria.PreferredTopics),
			PriorityCategories: splitCSV(e.SearchCriteria.PriorityCategories),
			IncludeBreaks:      boolPtr(e.SearchCriteria.IncludeBreaks),
			Limit:              atoiPtr(e.SearchCriteria.Limit),
			MaxActivityCount:   atoiPtr(e.SearchCriteria.MaxActivityCount),
		},
	}
	if t, ok := wire.ParseBackendTime(e.CreatedAt); ok {
		h.CreatedAt = &t
	}
	return h
}

func atoiPtr(s *string) *int {
	if s == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &n
}

func boolPtr(s *string) *bool {
	if s == nil {
		return nil
	}
	b := strings.EqualFold(strings.TrimSpace(*s), "true")
	return &b
}

func splitCSV(s *string) []string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	parts := strings.Split(*s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
