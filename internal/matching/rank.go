package matching

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cfp-scout/internal/types"
)

// defaultConcurrency bounds the scoring fan-out in RankAll.
const defaultConcurrency = 8

// RankedCandidate pairs a candidate with its match result.
type RankedCandidate struct {
	Candidate types.CandidateRecord `json:"candidate"`
	Result    types.MatchResult     `json:"result"`
}

// RankAll scores every candidate against the profile concurrently and returns
// them sorted by descending score. The sort is stable, so candidates with
// equal scores keep their input order.
func RankAll(ctx context.Context, candidates []types.CandidateRecord, profile *types.InterviewProfile) ([]RankedCandidate, error) {
	return rankAll(ctx, candidates, func(cfp *types.CandidateRecord) types.MatchResult {
		return Score(cfp, profile)
	})
}

// RankAllTopics is RankAll for flat topic lists.
func RankAllTopics(ctx context.Context, candidates []types.CandidateRecord, topics []string) ([]RankedCandidate, error) {
	return rankAll(ctx, candidates, func(cfp *types.CandidateRecord) types.MatchResult {
		return ScoreTopics(cfp, topics)
	})
}

func rankAll(ctx context.Context, candidates []types.CandidateRecord, scoreFn func(*types.CandidateRecord) types.MatchResult) ([]RankedCandidate, error) {
	ranked := make([]RankedCandidate, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultConcurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ranked[i] = RankedCandidate{
				Candidate: candidates[i],
				Result:    scoreFn(&candidates[i]),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})
	return ranked, nil
}
