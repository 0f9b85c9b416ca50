// Package store is the local persistence layer: a single JSON state file
// holding auth tokens, per-account favourite activity IDs, and full
// lesson-plan snapshots. The backend keeps only activity-ID references for
// favourite lesson plans, so the snapshots here are what lets a previously
// saved plan be redisplayed when the catalog lookup comes back incomplete.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/learnapp/learn-client/internal/models"
	"github.com/learnapp/learn-client/pkg/logger"
	"go.uber.org/zap"
)

// LessonPlanSnapshot is a denormalized copy of a favourited lesson plan,
// keyed by the server-assigned favourite ID
type LessonPlanSnapshot struct {
	FavoriteID     int               `json:"favorite_id"`
	Name           *string           `json:"name,omitempty"`
	Activities     []models.Material `json:"activities"`
	TotalDuration  int               `json:"total_duration"`
	SearchCriteria map[string]string `json:"search_criteria,omitempty"`
	SavedAt        time.Time         `json:"saved_at"`
}

type state struct {
	AccessToken  string               `json:"access_token,omitempty"`
	RefreshToken string               `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time           `json:"expires_at,omitempty"`
	FavoriteIDs  map[string][]int     `json:"favorite_ids,omitempty"`
	LessonPlans  []LessonPlanSnapshot `json:"lesson_plans,omitempty"`
}

// Store is the JSON-file-backed local state. All methods are safe for
// concurrent use; reads return zero values when no data exists, never an
// error.
type Store struct {
	mu    sync.RWMutex
	path  string
	state state
}

// New opens the store at path, loading any existing state. A missing or
// unreadable file starts empty rather than failing.
func New(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read state file, starting empty",
				zap.String("path", path),
				zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		logger.Warn("State file is corrupt, starting empty",
			zap.String("path", path),
			zap.Error(err))
		s.state = state{}
	}
	return s
}

// Tokens returns the persisted token triple. Empty strings and a nil expiry
// mean no session is stored.
func (s *Store) Tokens() (access, refresh string, expiresAt *time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken, s.state.RefreshToken, s.state.ExpiresAt
}

// SetTokens persists a new token triple. A nil refresh token keeps the
// previously stored one, since the backend only rotates it sometimes.
func (s *Store) SetTokens(access string, refresh *string, expiresAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = access
	if refresh != nil {
		s.state.RefreshToken = *refresh
	}
	s.state.ExpiresAt = expiresAt
	return s.persist()
}

// ClearTokens drops the persisted session
func (s *Store) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = ""
	s.state.RefreshToken = ""
	s.state.ExpiresAt = nil
	return s.persist()
}

// accountKey normalizes an account identifier; favourite lists are keyed by
// lowercased email
func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FavoriteIDs returns the favourite activity IDs stored for an account
func (s *Store) FavoriteIDs(email string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.state.FavoriteIDs[accountKey(email)]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// SetFavoriteIDs replaces the favourite activity IDs for an account
func (s *Store) SetFavoriteIDs(email string, ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.FavoriteIDs == nil {
		s.state.FavoriteIDs = make(map[string][]int)
	}
	stored := make([]int, len(ids))
	copy(stored, ids)
	s.state.FavoriteIDs[accountKey(email)] = stored
	return s.persist()
}

// AddFavoriteID records one favourite activity ID for an account, ignoring
// duplicates
func (s *Store) AddFavoriteID(email string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := accountKey(email)
	for _, existing := range s.state.FavoriteIDs[key] {
		if existing == id {
			return nil
		}
	}
	if s.state.FavoriteIDs == nil {
		s.state.FavoriteIDs = make(map[string][]int)
	}
	s.state.FavoriteIDs[key] = append(s.state.FavoriteIDs[key], id)
	return s.persist()
}

// RemoveFavoriteID drops one favourite activity ID for an account
func (s *Store) RemoveFavoriteID(email string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := accountKey(email)
	ids := s.state.FavoriteIDs[key]
	if len(ids) == 0 {
		return nil
	}
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	s.state.FavoriteIDs[key] = kept
	return s.persist()
}

// LessonPlanSnapshots returns every stored lesson-plan snapshot
func (s *Store) LessonPlanSnapshots() []LessonPlanSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LessonPlanSnapshot, len(s.state.LessonPlans))
	copy(out, s.state.LessonPlans)
	return out
}

// LessonPlanSnapshot returns the snapshot for one favourite ID
func (s *Store) LessonPlanSnapshot(favoriteID int) (LessonPlanSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snap := range s.state.LessonPlans {
		if snap.FavoriteID == favoriteID {
			return snap, true
		}
	}
	return LessonPlanSnapshot{}, false
}

// SaveLessonPlanSnapshot stores or replaces the snapshot for a favourite ID
func (s *Store) SaveLessonPlanSnapshot(snap LessonPlanSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.state.LessonPlans {
		if existing.FavoriteID == snap.FavoriteID {
			s.state.LessonPlans[i] = snap
			return s.persist()
		}
	}
	s.state.LessonPlans = append(s.state.LessonPlans, snap)
	return s.persist()
}

// RemoveLessonPlanSnapshot drops the snapshot for a favourite ID
func (s *Store) RemoveLessonPlanSnapshot(favoriteID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.state.LessonPlans[:0]
	for _, snap := range s.state.LessonPlans {
		if snap.FavoriteID != favoriteID {
			kept = append(kept, snap)
		}
	}
	s.state.LessonPlans = kept
	return s.persist()
}

// persist writes the state file atomically via a temp file and rename.
// Callers must hold the write lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        //nolint:errcheck
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
