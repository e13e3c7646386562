// services/stats_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sidestack/sidestacker/persistence"
)

// StatsService answers read-only questions about persisted matches. It sits
// between the admin RPC surface and the store.
type StatsService struct {
	store persistence.Store
}

func NewStatsService(store persistence.Store) *StatsService {
	return &StatsService{store: store}
}

// GetMatchSummary returns the aggregated move log for one match.
func (s *StatsService) GetMatchSummary(ctx context.Context, matchID int64) (*persistence.MatchSummary, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id %d", matchID)
	}

	summary, err := s.store.MatchSummary(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("match summary for %d: %w", matchID, err)
	}
	return summary, nil
}
