package wire

// ActivitiesResponse is the activity catalog page
type ActivitiesResponse struct {
	Activities []Activity `json:"activities"`
	Limit      *int       `json:"limit"`
	Offset     *int       `json:"offset"`
	Total      *int       `json:"total"`
}

// Activity is a single catalog item. Only id, name and type are stable;
// every other scalar is lossy-decoded.
type Activity struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Format *string `json:"format"`

	AgeMin             LossyInt    `json:"age_min"`
	AgeMax             LossyInt    `json:"age_max"`
	DurationMinMinutes LossyInt    `json:"duration_min_minutes"`
	DurationMaxMinutes LossyInt    `json:"duration_max_minutes"`
	PrepTimeMinutes    LossyInt    `json:"prep_time_minutes"`
	CleanupTimeMinutes LossyInt    `json:"cleanup_time_minutes"`
	BreakAfter         LossyInt    `json:"break_after"`
	MentalLoad         LossyString `json:"mental_load"`
	PhysicalEnergy     LossyString `json:"physical_energy"`

	BloomLevel      *string     `json:"bloom_level"`
	ResourcesNeeded []string    `json:"resources_needed"`
	Topics          []string    `json:"topics"`
	Source          *string     `json:"source"`
	DocumentID      LossyString `json:"document_id"`
}

// FavoriteRecord is a favourite-activity record: a server-side reference to a
// catalog activity, not the activity itself
type FavoriteRecord struct {
	ID            int     `json:"id"`
	ActivityID    int     `json:"activity_id"`
	Name          *string `json:"name"`
	FavouriteType string  `json:"favourite_type"`
	CreatedAt     string  `json:"created_at"`
}

// FavoriteActivitiesResponse lists favourite-activity records
type FavoriteActivitiesResponse struct {
	Favourites []FavoriteRecord `json:"favourites"`
	Pagination *Pagination      `json:"pagination"`
}

// Pagination carries list paging info
type Pagination struct {
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SaveFavoriteActivityRequest pins a single activity
type SaveFavoriteActivityRequest struct {
	ActivityID int     `json:"activity_id"`
	Name       *string `json:"name"`
}

// FavoriteStatusResponse reports whether one activity is favourited
type FavoriteStatusResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

// MessageResponse is the generic {"message": ...} acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
