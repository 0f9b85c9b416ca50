package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/learnapp/learn-client/internal/wire"
)

var validate = validator.New()

// RecommendationQuery holds the recommendation search criteria. List
// parameters are encoded three ways (CSV, repeated key, bracketed key) since
// different backend versions accepted different conventions.
type RecommendationQuery struct {
	Name               string   `validate:"omitempty,max=200"`
	TargetAge          *int     `validate:"omitempty,gte=1,lte=18"`
	Format             []string `validate:"omitempty,dive,min=1"`
	BloomLevels        []string `validate:"omitempty,dive,min=1"`
	TargetDuration     *int     `validate:"omitempty,gte=1"`
	AvailableResources []string `validate:"omitempty,dive,min=1"`
	PreferredTopics    []string `validate:"omitempty,dive,min=1"`
	PriorityCategories []string `validate:"omitempty,dive,min=1"`
	IncludeBreaks      bool
	Limit              int `validate:"gte=1,lte=50"`
	MaxActivityCount   int `validate:"gte=1,lte=10"`
}

// DefaultRecommendationQuery returns a query with the standard limits
func DefaultRecommendationQuery() RecommendationQuery {
	return RecommendationQuery{
		Limit:            10,
		MaxActivityCount: 2,
	}
}

// Values encodes the query as URL parameters
func (q RecommendationQuery) Values() url.Values {
	values := url.Values{}

	if q.Name != "" {
		values.Set("name", q.Name)
	}
	if q.TargetAge != nil {
		values.Set("target_age", strconv.Itoa(*q.TargetAge))
	}
	addListParam(values, "format", q.Format)
	addListParam(values, "bloom_levels", q.BloomLevels)
	if q.TargetDuration != nil {
		values.Set("target_duration", strconv.Itoa(*q.TargetDuration))
	}
	addListParam(values, "available_resources", q.AvailableResources)
	addListParam(values, "preferred_topics", q.PreferredTopics)
	addListParam(values, "priority_categories", q.PriorityCategories)
	values.Set("include_breaks", strconv.FormatBool(q.IncludeBreaks))
	values.Set("limit", strconv.Itoa(q.Limit))
	values.Set("max_activity_count", strconv.Itoa(q.MaxActivityCount))

	return values
}

// addListParam encodes a list as a CSV value, then repeats the plain and
// bracketed key once per element
func addListParam(values url.Values, key string, list []string) {
	clean := make([]string, 0, len(list))
	for _, v := range list {
		if v != "" {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return
	}

	values.Add(key, strings.Join(clean, ","))
	for _, v := range clean {
		values.Add(key, v)
	}
	for _, v := range clean {
		values.Add(key+"[]", v)
	}
}

// ActivitiesAPI wraps the catalog, recommendation, favourite and history
// endpoints
type ActivitiesAPI struct {
	client *Client
}

// NewActivitiesAPI creates the activities endpoint group
func NewActivitiesAPI(client *Client) *ActivitiesAPI {
	return &ActivitiesAPI{client: client}
}

// ListActivities fetches one page of the activity catalog
func (a *ActivitiesAPI) ListActivities(ctx context.Context, limit int) (wire.ActivitiesResponse, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return Send[wire.ActivitiesResponse](ctx, a.client, http.MethodGet, "/api/activities/", query, nil)
}

// GetRecommendations runs a recommendation search
func (a *ActivitiesAPI) GetRecommendations(ctx context.Context, q RecommendationQuery) (wire.RecommendationsResponse, error) {
	if err := validate.Struct(q); err != nil {
		return wire.RecommendationsResponse{}, fmt.Errorf("invalid recommendation query: %w", err)
	}
	return Send[wire.RecommendationsResponse](ctx, a.client, http.MethodGet, "/api/activities/recommendations", q.Values(), nil)
}

// GetFavoriteActivities fetches the favourite-activity records
func (a *ActivitiesAPI) GetFavoriteActivities(ctx context.Context) (wire.FavoriteActivitiesResponse, error) {
	return Send[wire.FavoriteActivitiesResponse](ctx, a.client, http.MethodGet, "/api/history/favourites/activities", nil, nil)
}

// SaveFavoriteActivity pins a single activity
func (a *ActivitiesAPI) SaveFavoriteActivity(ctx context.Context, activityID int, name *string) (wire.MessageResponse, error) {
	body := wire.SaveFavoriteActivityRequest{ActivityID: activityID, Name: name}
	return Send[wire.MessageResponse](ctx, a.client, http.MethodPost, "/api/history/favourites/activities", nil, body)
}

// CheckActivityFavoriteStatus reports whether one activity is favourited
func (a *ActivitiesAPI) CheckActivityFavoriteStatus(ctx context.Context, activityID int) (bool, error) {
	path := fmt.Sprintf("/api/history/favourites/activities/%d/status", activityID)
	res, err := Send[wire.FavoriteStatusResponse](ctx, a.client, http.MethodGet, path, nil, nil)
	if err != nil {
		return false, err
	}
	return res.IsFavorite, nil
}

// RemoveFavoriteActivity unpins a single activity
func (a *ActivitiesAPI) RemoveFavoriteActivity(ctx context.Context, activityID int) (wire.MessageResponse, error) {
	path := fmt.Sprintf("/api/history/favourites/activities/%d", activityID)
	return Send[wire.MessageResponse](ctx, a.client, http.MethodDelete, path, nil, nil)
}

// GetFavoriteLessonPlans fetches the favourite lesson-plan records
func (a *ActivitiesAPI) GetFavoriteLessonPlans(ctx context.Context) (wire.FavoriteLessonPlansResponse, error) {
	return Send[wire.FavoriteLessonPlansResponse](ctx, a.client, http.MethodGet, "/api/history/favourites/lesson-plans", nil, nil)
}

// SaveFavoriteLessonPlan saves a lesson plan as a favourite and returns the
// server-assigned record ID when the backend provides one
func (a *ActivitiesAPI) SaveFavoriteLessonPlan(ctx context.Context, req wire.FavoriteLessonPlanRequest) (wire.FavoriteLessonPlanSaveResponse, error) {
	return Send[wire.FavoriteLessonPlanSaveResponse](ctx, a.client, http.MethodPost, "/api/history/favourites/lesson-plans", nil, req)
}

// DeleteFavoriteLessonPlan deletes a favourite by server record ID
func (a *ActivitiesAPI) DeleteFavoriteLessonPlan(ctx context.Context, favouriteID int) (wire.MessageResponse, error) {
	path := fmt.Sprintf("/api/history/favourites/%d", favouriteID)
	return Send[wire.MessageResponse](ctx, a.client, http.MethodDelete, path, nil, nil)
}

// GetSearchHistory fetches the recorded recommendation searches
func (a *ActivitiesAPI) GetSearchHistory(ctx context.Context) (wire.SearchHistoryResponse, error) {
	return Send[wire.SearchHistoryResponse](ctx, a.client, http.MethodGet, "/api/history/search", nil, nil)
}

// DeleteSearchHistory removes one recorded search
func (a *ActivitiesAPI) DeleteSearchHistory(ctx context.Context, historyID int) (wire.MessageResponse, error) {
	path := fmt.Sprintf("/api/history/search/%d", historyID)
	return Send[wire.MessageResponse](ctx, a.client, http.MethodDelete, path, nil, nil)
}

// GenerateLessonPlanPDF renders a lesson plan server-side and returns the
// raw PDF bytes
func (a *ActivitiesAPI) GenerateLessonPlanPDF(ctx context.Context, req wire.LessonPlanPDFRequest) ([]byte, error) {
	return a.client.SendBinary(ctx, http.MethodPost, "/api/activities/lesson-plan", req)
}
