package progress

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"compass-go/internal/models"
)

// fakeStore is an in-memory Store. The map mutex only keeps the map itself
// safe; serialization of read-modify-write cycles is the tracker's job.
type fakeStore struct {
	mu       sync.Mutex
	users    map[uint]bool
	progress map[uint]models.UserProgress
}

func newFakeStore(userIDs ...uint) *fakeStore {
	s := &fakeStore{
		users:    make(map[uint]bool),
		progress: make(map[uint]models.UserProgress),
	}
	for _, id := range userIDs {
		s.users[id] = true
	}
	return s
}

func (s *fakeStore) UserExists(ctx context.Context, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID], nil
}

func (s *fakeStore) GetProgress(ctx context.Context, userID uint) (*models.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.progress[userID]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeStore) SaveProgress(ctx context.Context, progress *models.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progress.UserID] = *progress
	return nil
}

func session(clarity, pace, eyeContact, durationMs float64, completedAt time.Time) *models.PracticeSession {
	return &models.PracticeSession{
		UserID:          1,
		CompletedAt:     completedAt,
		EyeContactScore: eyeContact,
		Summary: models.SessionSummary{
			DurationMs:      durationMs,
			AverageClarity:  clarity,
			SpeakingPaceWpm: pace,
		},
	}
}

func TestApplySessionFirstSession(t *testing.T) {
	store := newFakeStore(1)
	tracker := NewTracker(store, zap.NewNop())

	completed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	p, err := tracker.ApplySession(context.Background(), 1, session(70, 140, 55, 300000, completed))
	if err != nil {
		t.Fatal(err)
	}

	if p.TotalSessions != 1 {
		t.Errorf("TotalSessions = %d, want 1", p.TotalSessions)
	}
	if p.AvgVoiceClarity != 70 || p.AvgSpeakingPace != 140 || p.AvgEyeContact != 55 {
		t.Errorf("first-session averages = %+v, want the session's own values", p)
	}
	if p.TotalPracticeTimeMs != 300000 {
		t.Errorf("TotalPracticeTimeMs = %v, want 300000", p.TotalPracticeTimeMs)
	}
	if !p.LastSessionDate.Equal(completed) {
		t.Errorf("LastSessionDate = %v, want %v", p.LastSessionDate, completed)
	}
}

func TestApplySessionWeightedRunningMean(t *testing.T) {
	store := newFakeStore(1)
	store.progress[1] = models.UserProgress{
		UserID:          1,
		TotalSessions:   2,
		AvgVoiceClarity: 50,
	}
	tracker := NewTracker(store, zap.NewNop())

	p, err := tracker.ApplySession(context.Background(), 1, session(80, 0, 0, 0, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", p.TotalSessions)
	}
	// (50*2 + 80) / 3
	if math.Abs(p.AvgVoiceClarity-60) > 1e-9 {
		t.Errorf("AvgVoiceClarity = %v, want 60", p.AvgVoiceClarity)
	}
}

func TestApplySessionUnknownUser(t *testing.T) {
	tracker := NewTracker(newFakeStore(1), zap.NewNop())

	_, err := tracker.ApplySession(context.Background(), 42, session(50, 120, 40, 1000, time.Now()))
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestApplySessionConcurrentNoLostUpdates(t *testing.T) {
	store := newFakeStore(1)
	tracker := NewTracker(store, zap.NewNop())

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := tracker.ApplySession(context.Background(), 1, session(60, 150, 45, 1000, time.Now())); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	p, err := store.GetProgress(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("no progress stored")
	}
	if p.TotalSessions != workers*perWorker {
		t.Errorf("TotalSessions = %d, want %d (lost update)", p.TotalSessions, workers*perWorker)
	}
	if p.TotalPracticeTimeMs != float64(workers*perWorker*1000) {
		t.Errorf("TotalPracticeTimeMs = %v, want %v", p.TotalPracticeTimeMs, workers*perWorker*1000)
	}
	// Every session carried the same values, so any serialization order
	// leaves the averages at exactly those values.
	if math.Abs(p.AvgVoiceClarity-60) > 1e-6 || math.Abs(p.AvgSpeakingPace-150) > 1e-6 {
		t.Errorf("averages drifted under concurrency: clarity=%v pace=%v", p.AvgVoiceClarity, p.AvgSpeakingPace)
	}
}
