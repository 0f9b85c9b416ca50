package wire

// SearchHistoryResponse lists past recommendation searches, recorded
// server-side as a side effect of recommendation queries
type SearchHistoryResponse struct {
	SearchHistory []SearchHistoryEntry `json:"search_history"`
	Pagination    *Pagination          `json:"pagination"`
}

// SearchHistoryEntry is one recorded search
type SearchHistoryEntry struct {
	ID             int                `json:"id"`
	SearchCriteria SearchCriteriaWire `json:"search_criteria"`
	CreatedAt      string             `json:"created_at"`
}

// SearchCriteriaWire is the criteria blob as stored by the backend: every
// field comes back as a string regardless of its logical type
type SearchCriteriaWire struct {
	TargetAge          *string `json:"target_age"`
	TargetDuration     *string `json:"target_duration"`
	AvailableResources *string `json:"available_resources"`
	PreferredTopics    *string `json:"preferred_topics"`
	PriorityCategories *string `json:"priority_categories"`
	IncludeBreaks      *string `json:"include_breaks"`
	Limit              *string `json:"limit"`
	MaxActivityCount   *string `json:"max_activity_count"`
}
