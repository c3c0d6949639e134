package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"compass-go/internal/models"
)

// ErrUserNotFound marks a session applied for a user id with no user row.
var ErrUserNotFound = errors.New("user not found")

// Store is the persistence contract the tracker needs. The repository
// package provides the GORM-backed implementation.
type Store interface {
	UserExists(ctx context.Context, userID uint) (bool, error)
	// GetProgress returns (nil, nil) when the user has no progress row yet.
	GetProgress(ctx context.Context, userID uint) (*models.UserProgress, error)
	SaveProgress(ctx context.Context, progress *models.UserProgress) error
}

// Tracker folds finished sessions into each user's rolling progress record.
// Updates for the same user are serialized through a per-user lock so the
// read-modify-write never works from a stale snapshot; different users
// proceed in parallel.
type Tracker struct {
	store Store
	log   *zap.Logger

	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store, log *zap.Logger) *Tracker {
	return &Tracker{
		store:     store,
		log:       log,
		userLocks: make(map[uint]*sync.Mutex),
	}
}

// ApplySession folds one completed session into the user's progress and
// returns the updated record. A missing progress row is zero-initialized;
// an unknown user is a typed failure.
func (t *Tracker) ApplySession(ctx context.Context, userID uint, sess *models.PracticeSession) (*models.UserProgress, error) {
	exists, err := t.store.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking user %d: %w", userID, err)
	}
	if !exists {
		return nil, fmt.Errorf("applying session for user %d: %w", userID, ErrUserNotFound)
	}

	lock := t.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	progress, err := t.store.GetProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading progress for user %d: %w", userID, err)
	}
	if progress == nil {
		// First completed session for this user.
		progress = &models.UserProgress{UserID: userID}
	}

	n := progress.TotalSessions
	progress.AvgEyeContact = rollingMean(progress.AvgEyeContact, n, sess.EyeContactScore)
	progress.AvgVoiceClarity = rollingMean(progress.AvgVoiceClarity, n, sess.Summary.AverageClarity)
	progress.AvgSpeakingPace = rollingMean(progress.AvgSpeakingPace, n, sess.Summary.SpeakingPaceWpm)
	progress.TotalSessions = n + 1
	progress.TotalPracticeTimeMs += sess.Summary.DurationMs
	progress.LastSessionDate = sess.CompletedAt

	if err := t.store.SaveProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("saving progress for user %d: %w", userID, err)
	}

	t.log.Debug("Applied session to user progress",
		zap.Uint("user_id", userID),
		zap.Int("total_sessions", progress.TotalSessions),
	)
	return progress, nil
}

// rollingMean is the weighted running mean update: the old average carries
// its session count as weight, the new value carries weight one.
func rollingMean(oldAvg float64, oldCount int, value float64) float64 {
	return (oldAvg*float64(oldCount) + value) / float64(oldCount+1)
}

// lockFor returns the mutex serializing updates for one user, creating it
// on first use.
func (t *Tracker) lockFor(userID uint) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, ok := t.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.userLocks[userID] = lock
	}
	return lock
}
