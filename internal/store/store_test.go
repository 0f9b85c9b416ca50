package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/learnapp/learn-client/internal/models"
	"github.com/learnapp/learn-client/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func TestStore_EmptyReadsReturnDefaults(t *testing.T) {
	s := store.New(tempStorePath(t))

	access, refresh, expiresAt := s.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Nil(t, expiresAt)
	assert.Empty(t, s.FavoriteIDs("someone@example.com"))
	assert.Empty(t, s.LessonPlanSnapshots())
}

func TestStore_TokensRoundTrip(t *testing.T) {
	path := tempStorePath(t)
	s := store.New(path)

	refresh := "rt-1"
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, s.SetTokens("at-1", &refresh, &expires))

	// A fresh instance reads the persisted state back
	reloaded := store.New(path)
	access, gotRefresh, gotExpires := reloaded.Tokens()
	assert.Equal(t, "at-1", access)
	assert.Equal(t, "rt-1", gotRefresh)
	require.NotNil(t, gotExpires)
	assert.True(t, gotExpires.Equal(expires))
}

func TestStore_NilRefreshKeepsExisting(t *testing.T) {
	s := store.New(tempStorePath(t))

	refresh := "rt-1"
	require.NoError(t, s.SetTokens("at-1", &refresh, nil))
	// The backend does not always rotate the refresh token
	require.NoError(t, s.SetTokens("at-2", nil, nil))

	access, gotRefresh, _ := s.Tokens()
	assert.Equal(t, "at-2", access)
	assert.Equal(t, "rt-1", gotRefresh)
}

func TestStore_ClearTokens(t *testing.T) {
	s := store.New(tempStorePath(t))
	refresh := "rt-1"
	require.NoError(t, s.SetTokens("at-1", &refresh, nil))
	require.NoError(t, s.ClearTokens())

	access, gotRefresh, expiresAt := s.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, gotRefresh)
	assert.Nil(t, expiresAt)
}

func TestStore_FavoriteIDsKeyedByLowercasedEmail(t *testing.T) {
	s := store.New(tempStorePath(t))

	require.NoError(t, s.SetFavoriteIDs("Teacher@Example.COM", []int{3, 7}))
	assert.Equal(t, []int{3, 7}, s.FavoriteIDs("teacher@example.com"))
	assert.Equal(t, []int{3, 7}, s.FavoriteIDs(" TEACHER@example.com "))
	assert.Empty(t, s.FavoriteIDs("other@example.com"))
}

func TestStore_AddRemoveFavoriteID(t *testing.T) {
	s := store.New(tempStorePath(t))
	email := "a@b.c"

	require.NoError(t, s.AddFavoriteID(email, 3))
	require.NoError(t, s.AddFavoriteID(email, 7))
	require.NoError(t, s.AddFavoriteID(email, 3)) // duplicate ignored
	assert.Equal(t, []int{3, 7}, s.FavoriteIDs(email))

	require.NoError(t, s.RemoveFavoriteID(email, 3))
	assert.Equal(t, []int{7}, s.FavoriteIDs(email))
}

func TestStore_RemoveFavoriteIDOnFreshStore(t *testing.T) {
	s := store.New(tempStorePath(t))

	// Removing from an account that was never written must be a no-op,
	// not a panic. This happens when an activity favourited on another
	// device is toggled off against a fresh state file.
	require.NoError(t, s.RemoveFavoriteID("teacher@example.com", 3))
	assert.Empty(t, s.FavoriteIDs("teacher@example.com"))

	require.NoError(t, s.AddFavoriteID("teacher@example.com", 7))
	require.NoError(t, s.RemoveFavoriteID("teacher@example.com", 99))
	assert.Equal(t, []int{7}, s.FavoriteIDs("teacher@example.com"))
}

func TestStore_LessonPlanSnapshots(t *testing.T) {
	path := tempStorePath(t)
	s := store.New(path)

	name := "Idee 1"
	snap := store.LessonPlanSnapshot{
		FavoriteID:    42,
		Name:          &name,
		Activities:    []models.Material{{ID: 3, Title: "Sortiernetzwerk", Duration: 20}},
		TotalDuration: 20,
		SearchCriteria: map[string]string{
			"duration": "20",
		},
		SavedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveLessonPlanSnapshot(snap))

	got, ok := s.LessonPlanSnapshot(42)
	require.True(t, ok)
	assert.Equal(t, 42, got.FavoriteID)
	require.Len(t, got.Activities, 1)
	assert.Equal(t, "Sortiernetzwerk", got.Activities[0].Title)

	// Saving the same ID replaces the snapshot
	snap.TotalDuration = 25
	require.NoError(t, s.SaveLessonPlanSnapshot(snap))
	all := s.LessonPlanSnapshots()
	require.Len(t, all, 1)
	assert.Equal(t, 25, all[0].TotalDuration)

	// Survives a reload
	reloaded := store.New(path)
	_, ok = reloaded.LessonPlanSnapshot(42)
	assert.True(t, ok)

	require.NoError(t, s.RemoveLessonPlanSnapshot(42))
	_, ok = s.LessonPlanSnapshot(42)
	assert.False(t, ok)
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := store.New(path)
	access, _, _ := s.Tokens()
	assert.Empty(t, access)

	// And stays writable
	require.NoError(t, s.SetTokens("at-1", nil, nil))
}
