package wire

// FavoriteLessonPlanRecord is the server's favourite-lesson-plan record. It
// stores activity IDs only; full activity detail has to be resolved against
// the catalog (or a local snapshot) by the caller.
type FavoriteLessonPlanRecord struct {
	ID            int                `json:"id"`
	ActivityIDs   []int              `json:"activity_ids"`
	LessonPlan    LessonPlanMetadata `json:"lesson_plan"`
	FavouriteType string             `json:"favourite_type"`
	CreatedAt     string             `json:"created_at"`
	Name          *string            `json:"name"`
}

// LessonPlanMetadata is the free-form metadata blob attached to a favourite
// lesson plan. Older records carry total_duration, newer ones
// total_duration_minutes; both are observed in the wild.
type LessonPlanMetadata struct {
	Name                 *string           `json:"name"`
	SearchCriteria       map[string]string `json:"search_criteria"`
	TotalDuration        *int              `json:"total_duration"`
	TotalDurationMinutes *int              `json:"total_duration_minutes"`
	OrderingStrategy     *string           `json:"ordering_strategy"`
	Title                *string           `json:"title"`
}

// ActualTotalDuration reconciles the two duration fields
func (m LessonPlanMetadata) ActualTotalDuration() int {
	if m.TotalDuration != nil {
		return *m.TotalDuration
	}
	if m.TotalDurationMinutes != nil {
		return *m.TotalDurationMinutes
	}
	return 0
}

// FavoriteLessonPlansResponse lists favourite lesson-plan records
type FavoriteLessonPlansResponse struct {
	Favourites []FavoriteLessonPlanRecord `json:"favourites"`
	Pagination *Pagination                `json:"pagination"`
}

// FavoriteLessonPlanRequest saves a lesson plan as a favourite
type FavoriteLessonPlanRequest struct {
	ActivityIDs []int                     `json:"activity_ids"`
	LessonPlan  LessonPlanRequestMetadata `json:"lesson_plan"`
	Name        *string                   `json:"name"`
}

// LessonPlanRequestMetadata is the metadata sent alongside a favourite save
type LessonPlanRequestMetadata struct {
	Name           *string           `json:"name"`
	SearchCriteria map[string]string `json:"search_criteria"`
	TotalDuration  int               `json:"total_duration"`
}

// FavoriteLessonPlanSaveResponse acknowledges a favourite save and carries
// the server-assigned record ID needed for later deletion
type FavoriteLessonPlanSaveResponse struct {
	Message     string `json:"message"`
	FavouriteID *int   `json:"favourite_id"`
}

// LessonPlanPDFRequest asks the backend to render a lesson plan as a PDF.
// Unlike the favourite save it carries full denormalized activities.
type LessonPlanPDFRequest struct {
	Activities     []ActivityForPDF  `json:"activities"`
	SearchCriteria map[string]string `json:"search_criteria"`
	Name           *string           `json:"name"`
}

// ActivityForPDF is the denormalized activity shape the PDF renderer expects
type ActivityForPDF struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Grade              int      `json:"grade"`
	GradeMin           *int     `json:"gradeMin"`
	GradeMax           *int     `json:"gradeMax"`
	Duration           int      `json:"duration"`
	Devices            []string `json:"devices"`
	Topics             []string `json:"topics"`
	AgeMin             *int     `json:"ageMin"`
	AgeMax             *int     `json:"ageMax"`
	DurationMax        *int     `json:"durationMax"`
	PrepTimeMinutes    *int     `json:"prepTimeMinutes"`
	CleanupTimeMinutes *int     `json:"cleanupTimeMinutes"`
	BreakAfter         *int     `json:"breakAfter"`
	MentalLoad         *string  `json:"mentalLoad"`
	PhysicalEnergy     *string  `json:"physicalEnergy"`
	BloomLevel         *string  `json:"bloomLevel"`
	Source             *string  `json:"source"`
	DocumentID         *string  `json:"documentId"`
}
