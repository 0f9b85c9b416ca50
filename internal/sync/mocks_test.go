package sync_test

import (
	"context"

	"github.com/learnapp/learn-client/internal/api"
	"github.com/learnapp/learn-client/internal/wire"
	"github.com/stretchr/testify/mock"
)

// MockCatalogSource is a testify mock of the catalog endpoint
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) ListActivities(ctx context.Context, limit int) (wire.ActivitiesResponse, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(wire.ActivitiesResponse), args.Error(1)
}

// MockFavoritesService is a testify mock of the favourites and history
// endpoints
type MockFavoritesService struct {
	mock.Mock
}

func (m *MockFavoritesService) GetFavoriteActivities(ctx context.Context) (wire.FavoriteActivitiesResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(wire.FavoriteActivitiesResponse), args.Error(1)
}

func (m *MockFavoritesService) SaveFavoriteActivity(ctx context.Context, activityID int, name *string) (wire.MessageResponse, error) {
	args := m.Called(ctx, activityID, name)
	return args.Get(0).(wire.MessageResponse), args.Error(1)
}

func (m *MockFavoritesService) RemoveFavoriteActivity(ctx context.Context, activityID int) (wire.MessageResponse, error) {
	args := m.Called(ctx, activityID)
	return args.Get(0).(wire.MessageResponse), args.Error(1)
}

func (m *MockFavoritesService) CheckActivityFavoriteStatus(ctx context.Context, activityID int) (bool, error) {
	args := m.Called(ctx, activityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoritesService) GetFavoriteLessonPlans(ctx context.Context) (wire.FavoriteLessonPlansResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(wire.FavoriteLessonPlansResponse), args.Error(1)
}

func (m *MockFavoritesService) SaveFavoriteLessonPlan(ctx context.Context, req wire.FavoriteLessonPlanRequest) (wire.FavoriteLessonPlanSaveResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(wire.FavoriteLessonPlanSaveResponse), args.Error(1)
}

func (m *MockFavoritesService) DeleteFavoriteLessonPlan(ctx context.Context, favouriteID int) (wire.MessageResponse, error) {
	args := m.Called(ctx, favouriteID)
	return args.Get(0).(wire.MessageResponse), args.Error(1)
}

func (m *MockFavoritesService) GetSearchHistory(ctx context.Context) (wire.SearchHistoryResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(wire.SearchHistoryResponse), args.Error(1)
}

func (m *MockFavoritesService) DeleteSearchHistory(ctx context.Context, historyID int) (wire.MessageResponse, error) {
	args := m.Called(ctx, historyID)
	return args.Get(0).(wire.MessageResponse), args.Error(1)
}

func (m *MockFavoritesService) GetRecommendations(ctx context.Context, q api.RecommendationQuery) (wire.RecommendationsResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(wire.RecommendationsResponse), args.Error(1)
}

func (m *MockFavoritesService) GenerateLessonPlanPDF(ctx context.Context, req wire.LessonPlanPDFRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
