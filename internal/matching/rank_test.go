package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cfp-scout/internal/types"
)

func TestRankAll_SortsByDescendingScore(t *testing.T) {
	candidates := []types.CandidateRecord{
		{ID: "weak", Topics: []string{"Embedded"}},
		{ID: "strong", Topics: []string{"Go", "Kubernetes"}, Technologies: []string{"Docker"}},
	}

	ranked, err := RankAll(context.Background(), candidates, richProfile())
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "strong", ranked[0].Candidate.ID)
	assert.GreaterOrEqual(t, ranked[0].Result.Score, ranked[1].Result.Score)
}

func TestRankAll_StableForEqualScores(t *testing.T) {
	candidates := []types.CandidateRecord{
		{ID: "first", Topics: []string{"Go"}},
		{ID: "second", Topics: []string{"Go"}},
	}

	ranked, err := RankAllTopics(context.Background(), candidates, []string{"Go"})
	require.NoError(t, err)

	assert.Equal(t, "first", ranked[0].Candidate.ID)
	assert.Equal(t, "second", ranked[1].Candidate.ID)
}

func TestRankAll_ManyCandidates(t *testing.T) {
	candidates := make([]types.CandidateRecord, 500)
	for i := range candidates {
		candidates[i] = types.CandidateRecord{ID: "cfp", Topics: []string{"Go"}}
	}

	ranked, err := RankAll(context.Background(), candidates, richProfile())
	require.NoError(t, err)
	require.Len(t, ranked, 500)

	for _, rc := range ranked {
		assert.Equal(t, ranked[0].Result.Score, rc.Result.Score)
	}
}

func TestRankAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := make([]types.CandidateRecord, 100)
	_, err := RankAll(ctx, candidates, richProfile())

	assert.Error(t, err)
}
