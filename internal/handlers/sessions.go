package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"compass-go/internal/analysis"
	"compass-go/internal/config"
	"compass-go/internal/models"
	"compass-go/internal/progress"
	"compass-go/internal/repository"
)

// SessionHandler ingests completed practice sessions and serves back the
// stored summaries and rolling progress.
type SessionHandler struct {
	log        *zap.Logger
	classifier *analysis.Classifier
	tracker    *progress.Tracker
}

func NewSessionHandler(log *zap.Logger, lex *models.Lexicon, tracker *progress.Tracker) *SessionHandler {
	return &SessionHandler{
		log:        log,
		classifier: analysis.NewClassifier(lex),
		tracker:    tracker,
	}
}

// IngestSession takes a completed session's streams, classifies and
// aggregates them, persists the result and folds it into the user's
// progress. Unparseable transcript events are skipped and reported, not
// fatal.
func (h *SessionHandler) IngestSession(c *gin.Context) {
	var payload models.SessionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Error("Failed to bind session payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session payload"})
		return
	}
	if payload.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user id"})
		return
	}

	if _, err := repository.GetUserByID(c.Request.Context(), payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown user"})
			return
		}
		h.log.Error("Failed to look up user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	events := make([]models.TranscriptEvent, 0, len(payload.Events))
	skipped := 0
	for _, raw := range payload.Events {
		event, err := h.classifier.Classify(raw)
		if err != nil {
			skipped++
			h.log.Warn("Skipping transcript event",
				zap.Error(err),
				zap.Float64("start", raw.Start),
			)
			continue
		}
		events = append(events, event)
	}

	aggregator := analysis.NewAggregator(config.Conf.Analysis)
	summary := aggregator.Summarize(payload.Metrics, events, payload.DurationMs)

	sess := &models.PracticeSession{
		UserID:          payload.UserID,
		CompletedAt:     payload.CompletedAt,
		EyeContactScore: payload.EyeContactScore,
		Summary:         summary,
	}
	if err := repository.SaveSessionTx(c.Request.Context(), sess, events); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	updated, err := h.tracker.ApplySession(c.Request.Context(), payload.UserID, sess)
	if err != nil {
		h.log.Error("Failed to update user progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":       sess,
		"progress":      updated,
		"skippedEvents": skipped,
	})
}

// GetProgress serves the user's rolling aggregate.
func (h *SessionHandler) GetProgress(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	prog, err := repository.GetUserProgress(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to load progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
		return
	}
	if prog == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No completed sessions for user"})
		return
	}
	c.JSON(http.StatusOK, prog)
}

// ListSessions serves the user's recent session summaries, newest first.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	sessions, err := repository.GetRecentSessions(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return uint(id), true
}
