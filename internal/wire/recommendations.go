package wire

// RecommendationsResponse is the recommendation engine's answer: a list of
// scored activity bundles
type RecommendationsResponse struct {
	Activities  []RecommendationBundle `json:"activities"`
	GeneratedAt *Timestamp             `json:"generated_at"`
	Total       *int                   `json:"total"`
}

// RecommendationBundle is one suggested lesson plan
type RecommendationBundle struct {
	Activities     []Activity                `json:"activities"`
	Score          LossyFloat                `json:"score"`
	ScoreBreakdown map[string]ScoreBreakdown `json:"score_breakdown"`
}

// ScoreBreakdown explains one scoring dimension of a bundle
type ScoreBreakdown struct {
	Category           *string    `json:"category"`
	Impact             LossyFloat `json:"impact"`
	IsPriority         *bool      `json:"is_priority"`
	PriorityMultiplier LossyFloat `json:"priority_multiplier"`
	Score              LossyFloat `json:"score"`
}
