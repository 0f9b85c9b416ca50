package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/learnapp/learn-client/internal/api"
	"github.com/learnapp/learn-client/internal/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CachesBetweenCalls(t *testing.T) {
	src := new(MockCatalogSource)
	src.On("ListActivities", mock.Anything, 50).
		Return(catalogResponse(t, 1, 2, 3), nil).Once()

	catalog := sync.NewCatalog(src, 50, time.Minute)

	first, err := catalog.Activities(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 3)

	// Second call is served from the cache
	second, err := catalog.Activities(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 3)

	src.AssertExpectations(t)
}

func TestCatalog_InvalidateForcesRefetch(t *testing.T) {
	src := new(MockCatalogSource)
	src.On("ListActivities", mock.Anything, 50).
		Return(catalogResponse(t, 1), nil).Twice()

	catalog := sync.NewCatalog(src, 50, time.Minute)

	_, err := catalog.Activities(context.Background())
	require.NoError(t, err)

	catalog.Invalidate()

	_, err = catalog.Activities(context.Background())
	require.NoError(t, err)

	src.AssertExpectations(t)
}

func TestCatalog_ClientErrorNotRetried(t *testing.T) {
	src := new(MockCatalogSource)
	src.On("ListActivities", mock.Anything, 50).
		Return(catalogResponse(t), &api.APIError{Status: 403, Message: "forbidden"}).Once()

	catalog := sync.NewCatalog(src, 50, 0)

	_, err := catalog.Activities(context.Background())
	require.Error(t, err)

	// A 4xx fails immediately without further attempts
	src.AssertNumberOfCalls(t, "ListActivities", 1)
}
