package subscription

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cardtrack/internal/model"
	"cardtrack/pkg/metrics"
)

// TransactionLister loads the full transaction history for one user.
type TransactionLister interface {
	ListByUser(ctx context.Context, userID string) ([]model.Transaction, error)
}

type Service struct {
	transactions TransactionLister
	cache        *Cache // nil disables caching
	logger       *zap.Logger
}

func NewService(transactions TransactionLister, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		transactions: transactions,
		cache:        cache,
		logger:       logger,
	}
}

// Candidates runs the detector over the user's history. With a cache
// configured, a fresh result is served from redis instead of recomputing;
// the detector itself stays pure.
func (s *Service) Candidates(ctx context.Context, userID string) ([]Candidate, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	history, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	candidates := Detect(history)
	metrics.RecordDetectorRun(time.Since(started), len(candidates))

	s.logger.Info("Recurrence detection finished",
		zap.String("user_id", userID),
		zap.Int("transactions", len(history)),
		zap.Int("candidates", len(candidates)),
	)

	if s.cache != nil {
		s.cache.Set(ctx, userID, candidates)
	}
	return candidates, nil
}
