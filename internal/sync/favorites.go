package sync

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/learnapp/learn-client/internal/api"
	"github.com/learnapp/learn-client/internal/models"
	"github.com/learnapp/learn-client/internal/store"
	"github.com/learnapp/learn-client/internal/wire"
	"github.com/learnapp/learn-client/pkg/logger"
	"github.com/learnapp/learn-client/pkg/metrics"
	"go.uber.org/zap"
)

// FavoritesService is the slice of the backend API the synchronizer
// depends on
type FavoritesService interface {
	GetFavoriteActivities(ctx context.Context) (wire.FavoriteActivitiesResponse, error)
	SaveFavoriteActivity(ctx context.Context, activityID int, name *string) (wire.MessageResponse, error)
	RemoveFavoriteActivity(ctx context.Context, activityID int) (wire.MessageResponse, error)
	CheckActivityFavoriteStatus(ctx context.Context, activityID int) (bool, error)
	GetFavoriteLessonPlans(ctx context.Context) (wire.FavoriteLessonPlansResponse, error)
	SaveFavoriteLessonPlan(ctx context.Context, req wire.FavoriteLessonPlanRequest) (wire.FavoriteLessonPlanSaveResponse, error)
	DeleteFavoriteLessonPlan(ctx context.Context, favouriteID int) (wire.MessageResponse, error)
	GetSearchHistory(ctx context.Context) (wire.SearchHistoryResponse, error)
	DeleteSearchHistory(ctx context.Context, historyID int) (wire.MessageResponse, error)
	GetRecommendations(ctx context.Context, q api.RecommendationQuery) (wire.RecommendationsResponse, error)
	GenerateLessonPlanPDF(ctx context.Context, req wire.LessonPlanPDFRequest) ([]byte, error)
}

// AccountProvider returns the key for per-account local state, "" when
// logged out. The account is the lowercased email of the current user.
type AccountProvider func() string

// Synchronizer reconciles favourite and lesson-plan state between the
// backend (authoritative for existence) and the local store (authoritative
// for full activity snapshots)
type Synchronizer struct {
	api     FavoritesService
	catalog *Catalog
	store   *store.Store
	account AccountProvider
}

// NewSynchronizer creates the favourites synchronizer
func NewSynchronizer(svc FavoritesService, catalog *Catalog, st *store.Store, account AccountProvider) *Synchronizer {
	if account == nil {
		account = func() string { return "" }
	}
	return &Synchronizer{
		api:     svc,
		catalog: catalog,
		store:   st,
		account: account,
	}
}

// Recommendations runs a recommendation search and maps the result into the
// domain
func (s *Synchronizer) Recommendations(ctx context.Context, q api.RecommendationQuery) ([]models.Recommendation, error) {
	res, err := s.api.GetRecommendations(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]models.Recommendation, 0, len(res.Activities))
	for _, bundle := range res.Activities {
		out = append(out, models.RecommendationFromBundle(bundle))
	}
	return out, nil
}

// ListCatalog returns the full activity catalog mapped into materials,
// ordered by ID
func (s *Synchronizer) ListCatalog(ctx context.Context) ([]models.Material, error) {
	catalog, err := s.catalog.Activities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Material, 0, len(catalog))
	for _, activity := range catalog {
		out = append(out, models.ActivityToMaterial(activity, false))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListFavoriteActivities resolves the favourite-activity records against the
// catalog. With zero favourites the catalog fetch is skipped entirely.
func (s *Synchronizer) ListFavoriteActivities(ctx context.Context) ([]models.Material, error) {
	res, err := s.api.GetFavoriteActivities(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Favourites) == 0 {
		return []models.Material{}, nil
	}

	favoriteIDs := make(map[int]struct{}, len(res.Favourites))
	for _, record := range res.Favourites {
		favoriteIDs[record.ActivityID] = struct{}{}
	}

	catalog, err := s.catalog.Activities(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Material, 0, len(favoriteIDs))
	ids := make([]int, 0, len(favoriteIDs))
	for id := range favoriteIDs {
		activity, ok := catalog[id]
		if !ok {
			continue
		}
		out = append(out, models.ActivityToMaterial(activity, true))
		ids = append(ids, id)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if account := s.account(); account != "" {
		sort.Ints(ids)
		if err := s.store.SetFavoriteIDs(account, ids); err != nil {
			logger.Warn("Failed to persist favourite IDs", zap.Error(err))
		}
	}

	return out, nil
}

// ToggleFavoriteActivity flips the favourite flag optimistically, then
// performs the backend call; on failure the flag is restored exactly and
// the error surfaced. No retry.
func (s *Synchronizer) ToggleFavoriteActivity(ctx context.Context, m *models.Material) error {
	m.IsFavorite = !m.IsFavorite

	var err error
	if m.IsFavorite {
		_, err = s.api.SaveFavoriteActivity(ctx, m.ID, nil)
	} else {
		_, err = s.api.RemoveFavoriteActivity(ctx, m.ID)
	}

	if err != nil {
		m.IsFavorite = !m.IsFavorite
		metrics.FavoriteToggles.WithLabelValues("activity", "error").Inc()
		logger.Warn("Favourite toggle failed, reverted",
			zap.Int("activity_id", m.ID),
			zap.Error(err))
		return err
	}

	metrics.FavoriteToggles.WithLabelValues("activity", "success").Inc()

	if account := s.account(); account != "" {
		var storeErr error
		if m.IsFavorite {
			storeErr = s.store.AddFavoriteID(account, m.ID)
		} else {
			storeErr = s.store.RemoveFavoriteID(account, m.ID)
		}
		if storeErr != nil {
			logger.Warn("Failed to persist favourite IDs", zap.Error(storeErr))
		}
	}

	return nil
}

// IsActivityFavorited asks the backend for one activity's favourite status
func (s *Synchronizer) IsActivityFavorited(ctx context.Context, activityID int) (bool, error) {
	return s.api.CheckActivityFavoriteStatus(ctx, activityID)
}

// ListFavoriteLessonPlans resolves favourite lesson-plan records against
// the catalog. A record whose IDs do not all resolve is rebuilt from the
// local snapshot when one exists, and dropped otherwise; partial resolution
// is never surfaced.
func (s *Synchronizer) ListFavoriteLessonPlans(ctx context.Context) ([]models.FavoriteLessonPlan, error) {
	res, err := s.api.GetFavoriteLessonPlans(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Favourites) == 0 {
		return []models.FavoriteLessonPlan{}, nil
	}

	catalog, err := s.catalog.Activities(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.FavoriteLessonPlan, 0, len(res.Favourites))
	for _, record := range res.Favourites {
		activities := make([]models.Material, 0, len(record.ActivityIDs))
		for _, id := range record.ActivityIDs {
			if activity, ok := catalog[id]; ok {
				activities = append(activities, models.ActivityToMaterial(activity, false))
			}
		}

		if len(activities) != len(record.ActivityIDs) {
			snap, ok := s.store.LessonPlanSnapshot(record.ID)
			if !ok {
				logger.Debug("Dropping favourite with unresolvable activities",
					zap.Int("favourite_id", record.ID),
					zap.Int("wanted", len(record.ActivityIDs)),
					zap.Int("resolved", len(activities)))
				continue
			}
			out = append(out, planFromSnapshot(record, snap))
			continue
		}

		out = append(out, planFromRecord(record, activities))
	}

	return out, nil
}

func planFromRecord(record wire.FavoriteLessonPlanRecord, activities []models.Material) models.FavoriteLessonPlan {
	plan := models.FavoriteLessonPlan{
		ID:             record.ID,
		Name:           planName(record),
		Activities:     activities,
		TotalDuration:  record.LessonPlan.ActualTotalDuration(),
		SearchCriteria: record.LessonPlan.SearchCriteria,
	}
	if t, ok := wire.ParseBackendTime(record.CreatedAt); ok {
		plan.CreatedAt = &t
	}
	return plan
}

func planFromSnapshot(record wire.FavoriteLessonPlanRecord, snap store.LessonPlanSnapshot) models.FavoriteLessonPlan {
	plan := models.FavoriteLessonPlan{
		ID:             record.ID,
		Name:           planName(record),
		Activities:     snap.Activities,
		TotalDuration:  snap.TotalDuration,
		SearchCriteria: snap.SearchCriteria,
	}
	if plan.Name == nil {
		plan.Name = snap.Name
	}
	if t, ok := wire.ParseBackendTime(record.CreatedAt); ok {
		plan.CreatedAt = &t
	}
	return plan
}

// planName tries the metadata name, then the metadata title, then the
// record-level name
func planName(record wire.FavoriteLessonPlanRecord) *string {
	if record.LessonPlan.Name != nil && *record.LessonPlan.Name != "" {
		return record.LessonPlan.Name
	}
	if record.LessonPlan.Title != nil && *record.LessonPlan.Title != "" {
		return record.LessonPlan.Title
	}
	return record.Name
}

// SaveFavoriteLessonPlan saves a recommendation as a favourite. The server
// keeps only the activity IDs, so the full materials are additionally
// snapshotted locally under the returned favourite ID.
func (s *Synchronizer) SaveFavoriteLessonPlan(ctx context.Context, rec models.Recommendation, name *string) (int, error) {
	ids := make([]int, 0, len(rec.Activities))
	for _, m := range rec.Activities {
		ids = append(ids, m.ID)
	}

	total := rec.TotalDuration()
	criteria := buildSearchCriteria(rec)

	req := wire.FavoriteLessonPlanRequest{
		ActivityIDs: ids,
		LessonPlan: wire.LessonPlanRequestMetadata{
			SearchCriteria: criteria,
			TotalDuration:  total,
		},
		Name: name,
	}

	res, err := s.api.SaveFavoriteLessonPlan(ctx, req)
	if err != nil {
		metrics.FavoriteToggles.WithLabelValues("lesson_plan", "error").Inc()
		return 0, err
	}
	metrics.FavoriteToggles.WithLabelValues("lesson_plan", "success").Inc()

	favouriteID := 0
	if res.FavouriteID != nil {
		favouriteID = *res.FavouriteID
	}

	if favouriteID != 0 {
		snap := store.LessonPlanSnapshot{
			FavoriteID:     favouriteID,
			Name:           name,
			Activities:     rec.Activities,
			TotalDuration:  total,
			SearchCriteria: criteria,
			SavedAt:        time.Now(),
		}
		if err := s.store.SaveLessonPlanSnapshot(snap); err != nil {
			logger.Warn("Failed to snapshot lesson plan locally",
				zap.Int("favourite_id", favouriteID),
				zap.Error(err))
		}
	}

	return favouriteID, nil
}

// FindFavorite matches a recommendation against the stored favourite
// lesson plans by set-equality of activity IDs, ignoring order
func (s *Synchronizer) FindFavorite(ctx context.Context, rec models.Recommendation) (int, bool, error) {
	res, err := s.api.GetFavoriteLessonPlans(ctx)
	if err != nil {
		return 0, false, err
	}

	want := rec.ActivityIDSet()
	for _, record := range res.Favourites {
		if models.SameActivitySet(want, record.ActivityIDs) {
			return record.ID, true, nil
		}
	}
	return 0, false, nil
}

// IsFavorited reports whether a recommendation matches any stored favourite
func (s *Synchronizer) IsFavorited(ctx context.Context, rec models.Recommendation) (bool, error) {
	_, found, err := s.FindFavorite(ctx, rec)
	return found, err
}

// RemoveFavoriteLessonPlan deletes a favourite by server record ID. The
// local snapshot is removed optimistically and re-inserted when the delete
// fails.
func (s *Synchronizer) RemoveFavoriteLessonPlan(ctx context.Context, favouriteID int) error {
	snap, hadSnapshot := s.store.LessonPlanSnapshot(favouriteID)
	if hadSnapshot {
		if err := s.store.RemoveLessonPlanSnapshot(favouriteID); err != nil {
			logger.Warn("Failed to remove lesson-plan snapshot", zap.Error(err))
		}
	}

	if _, err := s.api.DeleteFavoriteLessonPlan(ctx, favouriteID); err != nil {
		if hadSnapshot {
			if restoreErr := s.store.SaveLessonPlanSnapshot(snap); restoreErr != nil {
				logger.Warn("Failed to restore lesson-plan snapshot after delete failure",
					zap.Error(restoreErr))
			}
		}
		metrics.FavoriteToggles.WithLabelValues("lesson_plan", "error").Inc()
		return err
	}

	metrics.FavoriteToggles.WithLabelValues("lesson_plan", "success").Inc()
	return nil
}

// SearchHistory fetches the recorded recommendation searches
func (s *Synchronizer) SearchHistory(ctx context.Context) ([]models.SearchHistory, error) {
	res, err := s.api.GetSearchHistory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SearchHistory, 0, len(res.SearchHistory))
	for _, entry := range res.SearchHistory {
		out = append(out, models.SearchHistoryFromWire(entry))
	}
	return out, nil
}

// DeleteSearchHistory removes one recorded search
func (s *Synchronizer) DeleteSearchHistory(ctx context.Context, historyID int) error {
	_, err := s.api.DeleteSearchHistory(ctx, historyID)
	return err
}

// ExportLessonPlanPDF renders a recommendation as a PDF server-side
func (s *Synchronizer) ExportLessonPlanPDF(ctx context.Context, rec models.Recommendation, name *string) ([]byte, error) {
	activities := make([]wire.ActivityForPDF, 0, len(rec.Activities))
	for _, m := range rec.Activities {
		activities = append(activities, materialForPDF(m))
	}
	req := wire.LessonPlanPDFRequest{
		Activities:     activities,
		SearchCriteria: buildSearchCriteria(rec),
		Name:           name,
	}
	return s.api.GenerateLessonPlanPDF(ctx, req)
}

func materialForPDF(m models.Material) wire.ActivityForPDF {
	return wire.ActivityForPDF{
		ID:                 m.ID,
		Title:              m.Title,
		Category:           m.Category,
		Grade:              m.Grade,
		GradeMin:           m.GradeMin,
		GradeMax:           m.GradeMax,
		Duration:           m.Duration,
		Devices:            m.Devices,
		Topics:             m.Topics,
		AgeMin:             m.AgeMin,
		AgeMax:             m.AgeMax,
		DurationMax:        m.DurationMax,
		PrepTimeMinutes:    m.PrepTimeMinutes,
		CleanupTimeMinutes: m.CleanupTimeMinutes,
		BreakAfter:         m.BreakAfter,
		MentalLoad:         effortString(m.MentalLoad),
		PhysicalEnergy:     effortString(m.PhysicalEnergy),
		BloomLevel:         m.BloomLevel,
		Source:             m.Source,
		DocumentID:         m.DocumentID,
	}
}

func effortString(e *models.EffortLevel) *string {
	if e == nil {
		return nil
	}
	s := string(*e)
	return &s
}

// buildSearchCriteria summarizes a recommendation as the criteria map the
// backend stores with a favourite: total duration plus the deduplicated
// topic and device label sets, comma-joined in sorted order
func buildSearchCriteria(rec models.Recommendation) map[string]string {
	topicSet := make(map[string]struct{})
	deviceSet := make(map[string]struct{})
	for _, m := range rec.Activities {
		for _, t := range m.Topics {
			topicSet[t] = struct{}{}
		}
		for _, d := range m.Devices {
			deviceSet[d] = struct{}{}
		}
	}

	return map[string]string{
		"duration": strconv.Itoa(rec.TotalDuration()),
		"topics":   joinSorted(topicSet),
		"devices":  joinSorted(deviceSet),
	}
}

func joinSorted(set map[string]struct{}) string {
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}
