package models

import (
	"fmt"
	"strings"
	"time"
)

// Material is the normalized form of a catalog activity: derived grade
// range, display-ready device and topic labels, reconciled durations.
type Material struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`

	// Grade is the legacy single value kept for older display code;
	// GradeMin and GradeMax are the authoritative range.
	Grade    int  `json:"grade"`
	GradeMin *int `json:"gradeMin,omitempty"`
	GradeMax *int `json:"gradeMax,omitempty"`

	Duration int      `json:"duration"`
	Devices  []string `json:"devices"`
	Topics   []string `json:"topics"`

	IsFavorite bool `json:"isFavorite"`

	AgeMin             *int         `json:"ageMin,omitempty"`
	AgeMax             *int         `json:"ageMax,omitempty"`
	DurationMax        *int         `json:"durationMax,omitempty"`
	PrepTimeMinutes    *int         `json:"prepTimeMinutes,omitempty"`
	CleanupTimeMinutes *int         `json:"cleanupTimeMinutes,omitempty"`
	BreakAfter         *int         `json:"breakAfter,omitempty"`
	MentalLoad         *EffortLevel `json:"mentalLoad,omitempty"`
	PhysicalEnergy     *EffortLevel `json:"physicalEnergy,omitempty"`
	BloomLevel         *string      `json:"bloomLevel,omitempty"`
	Source             *string      `json:"source,omitempty"`
	DocumentID         *string      `json:"documentId,omitempty"`
}

// Recommendation is a scored bundle of materials suggested together as one
// lesson plan. Its identity for favourite matching is the set of activity
// IDs, not the order.
type Recommendation struct {
	Activities []Material
	Score      *float64
}

// TotalDuration sums the minimum duration of every activity, flooring each
// at zero
func (r Recommendation) TotalDuration() int {
	total := 0
	for _, m := range r.Activities {
		if m.Duration > 0 {
			total += m.Duration
		}
	}
	return total
}

// TotalDurationMax sums the maximum duration of every activity, falling back
// to the minimum duration where no maximum is set
func (r Recommendation) TotalDurationMax() int {
	total := 0
	for _, m := range r.Activities {
		d := m.Duration
		if m.DurationMax != nil {
			d = *m.DurationMax
		}
		if d > 0 {
			total += d
		}
	}
	return total
}

// ActivityIDSet returns the recommendation's identity set
func (r Recommendation) ActivityIDSet() map[int]struct{} {
	ids := make(map[int]struct{}, len(r.Activities))
	for _, m := range r.Activities {
		ids[m.ID] = struct{}{}
	}
	return ids
}

// SameActivitySet reports whether two ID collections describe the same set
// of activities, ignoring order and duplicates
func SameActivitySet(a map[int]struct{}, b []int) bool {
	seen := make(map[int]struct{}, len(b))
	for _, id := range b {
		if _, ok := a[id]; !ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return len(seen) == len(a)
}

// User is an immutable account snapshot, replaced wholesale on every
// successful auth call
type User struct {
	ID         int
	Email      string
	FirstName  *string
	LastName   *string
	Role       *string
	IsVerified *bool
	CreatedAt  *time.Time
}

// DisplayName prefers the structured name fields and falls back to the email
func (u User) DisplayName() string {
	parts := make([]string, 0, 2)
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return u.Email
}

// FavoriteLessonPlan is a saved lesson plan with its activities fully
// resolved. The server keeps only activity IDs; Activities is reconstructed
// from the catalog or a local snapshot.
type FavoriteLessonPlan struct {
	ID             int
	Name           *string
	Activities     []Material
	TotalDuration  int
	SearchCriteria map[string]string
	CreatedAt      *time.Time
}

// SearchHistory is one recorded recommendation search. Created server-side;
// read-only for the client.
type SearchHistory struct {
	ID             int
	SearchCriteria SearchCriteria
	ResultsCount   int
	CreatedAt      *time.Time
	Name           *string
}

// SearchCriteria is the typed form of a recorded search's parameters
type SearchCriteria struct {
	TargetAge          *int
	TargetDuration     *int
	AvailableResources []string
	PreferredTopics    []string
	PriorityCategories []string
	IncludeBreaks      *bool
	Limit              *int
	MaxActivityCount   *int
}

// GradeText renders the target grade for display
func (c SearchCriteria) GradeText() string {
	if c.TargetAge == nil {
		return "Alle Klassen"
	}
	return fmt.Sprintf("Klasse %d", *c.TargetAge-5)
}

// DurationText renders the target duration for display
func (c SearchCriteria) DurationText() string {
	if c.TargetDuration == nil {
		return "Alle Dauern"
	}
	return fmt.Sprintf("%d Minuten", *c.TargetDuration)
}

// TopicsText renders the preferred topics for display
func (c SearchCriteria) TopicsText() string {
	if len(c.PreferredTopics) == 0 {
		return "Alle Themen"
	}
	return strings.Join(c.PreferredTopics, ", ")
}

// DevicesText renders the available devices for display
func (c SearchCriteria) DevicesText() string {
	if len(c.AvailableResources) == 0 {
		return "Alle Geräte"
	}
	return strings.Join(c.AvailableResources, ", ")
}

// SummaryText is the compact one-line form shown in history lists
func (c SearchCriteria) SummaryText() string {
	return c.GradeText() + " • " + c.DurationText()
}
