package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidestack/sidestacker/game"
	"github.com/sidestack/sidestacker/persistence"
)

type stubStore struct {
	summary *persistence.MatchSummary
	err     error
}

func (s *stubStore) CreateMatch(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubStore) RecordMove(ctx context.Context, matchID int64, piece game.Piece, side game.Side, row game.RowID) error {
	return nil
}

func (s *stubStore) MatchSummary(ctx context.Context, matchID int64) (*persistence.MatchSummary, error) {
	return s.summary, s.err
}

func (s *stubStore) Close() error { return nil }

func TestStatsService_GetMatchSummary(t *testing.T) {
	t.Run("rejects non-positive match ids without hitting the store", func(t *testing.T) {
		svc := NewStatsService(&stubStore{err: persistence.ErrMatchNotFound})

		for _, id := range []int64{0, -1} {
			_, err := svc.GetMatchSummary(context.Background(), id)
			require.Error(t, err)
			assert.NotErrorIs(t, err, persistence.ErrMatchNotFound)
		}
	})

	t.Run("wraps store errors", func(t *testing.T) {
		svc := NewStatsService(&stubStore{err: persistence.ErrMatchNotFound})

		_, err := svc.GetMatchSummary(context.Background(), 7)
		assert.ErrorIs(t, err, persistence.ErrMatchNotFound)
	})

	t.Run("passes the summary through", func(t *testing.T) {
		want := &persistence.MatchSummary{MatchID: 7, CreatedAt: time.Now(), Moves: 2}
		svc := NewStatsService(&stubStore{summary: want})

		got, err := svc.GetMatchSummary(context.Background(), 7)
		require.NoError(t, err)
		assert.Same(t, want, got)
	})
}
