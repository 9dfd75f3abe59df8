package services

import (
	"context"
	"time"

	"github.com/quizo-app/quiz-service/internal/cache"
	"github.com/quizo-app/quiz-service/internal/events"
	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"github.com/quizo-app/quiz-service/internal/utils"
)

// Sweeper is the periodic lifecycle pass. On each tick it promotes draft
// quizzes whose window has opened and completes any non-completed quiz
// whose window has closed, so a quiz with no traffic still transitions on
// schedule. Both updates are conditional on the stored status, making the
// sweep idempotent. A failed tick is logged and retried naturally on the
// next one; it never takes the process down.
type Sweeper struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    utils.Logger
	interval  time.Duration
}

func NewSweeper(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger utils.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		interval:  interval,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	s.logger.Info("Lifecycle sweeper started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Lifecycle sweeper stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("Lifecycle sweep failed", "error", err)
			}
		}
	}
}

// Sweep performs one lifecycle pass. Exported so the composition root can
// run an immediate pass at startup and tests can drive it directly.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := time.Now().UTC()

	activated, err := s.repo.Quiz().ActivateDue(ctx, now)
	if err != nil {
		return err
	}
	completed, err := s.repo.Quiz().CompleteExpired(ctx, now)
	if err != nil {
		return err
	}

	if len(activated) == 0 && len(completed) == 0 {
		return nil
	}

	s.logger.Info("Lifecycle sweep applied transitions",
		"activated", len(activated),
		"completed", len(completed))

	for _, id := range activated {
		s.publish(ctx, id, models.StatusActive)
	}
	for _, id := range completed {
		s.publish(ctx, id, models.StatusCompleted)
	}

	if err := s.cache.Delete(ctx, cache.LiveQuizzesKey); err != nil {
		s.logger.Warn("Live quiz cache invalidation failed", "error", err)
	}
	return nil
}

func (s *Sweeper) publish(ctx context.Context, quizID uint, status models.QuizStatus) {
	if err := s.publisher.PublishQuizEvent(ctx, events.NewQuizLifecycleEvent(quizID, status)); err != nil {
		s.logger.Warn("Failed to publish lifecycle event",
			"quiz_id", quizID,
			"status", status,
			"error", err)
	}
}
