package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/veridict/veridict/internal/logger"
	"github.com/veridict/veridict/internal/model"
)

// Reranker orders a candidate pool against a claim. Implementations must
// not mutate snippets other than RelevanceScore.
type Reranker interface {
	Name() string
	Rerank(ctx context.Context, claim model.Claim, candidates []model.EvidenceSnippet) []model.EvidenceSnippet
}

// PairScorer scores how relevant one evidence text is to a claim, 0-1.
// The cross-encoder reranker drives it with (claim, snippet) pairs.
type PairScorer interface {
	ScorePair(ctx context.Context, claim, evidence string) (float64, error)
}

// NewReranker resolves a reranker by configured name. The cross_encoder
// strategy needs a scorer; passing nil for it is a construction error.
func NewReranker(name string, scorer PairScorer) (Reranker, error) {
	switch name {
	case "", "hybrid":
		return &hybridReranker{}, nil
	case "cross_encoder":
		if scorer == nil {
			return nil, fmt.Errorf("cross_encoder reranker requires a pair scorer")
		}
		return &crossEncoderReranker{scorer: scorer, log: logger.New("rerank")}, nil
	default:
		return nil, fmt.Errorf("unknown rerank strategy: %q", name)
	}
}

// hybridReranker keeps the initial hybrid relevance as the final rank
type hybridReranker struct{}

func (r *hybridReranker) Name() string {
	return "hybrid"
}

func (r *hybridReranker) Rerank(ctx context.Context, claim model.Claim, candidates []model.EvidenceSnippet) []model.EvidenceSnippet {
	sortByRelevance(candidates)
	return candidates
}

// crossEncoderReranker rescores each (claim, snippet) pair jointly with
// the configured model. A failed inference keeps the pair's hybrid score.
type crossEncoderReranker struct {
	scorer PairScorer
	log    *slog.Logger
}

func (r *crossEncoderReranker) Name() string {
	return "cross_encoder"
}

func (r *crossEncoderReranker) Rerank(ctx context.Context, claim model.Claim, candidates []model.EvidenceSnippet) []model.EvidenceSnippet {
	for i := range candidates {
		score, err := r.scorer.ScorePair(ctx, claim.Text, candidates[i].Text)
		if err != nil {
			r.log.Warn("pair scoring failed, keeping hybrid score",
				"claim_id", claim.ID, "evidence_id", candidates[i].ID, "error", err)
			continue
		}
		candidates[i].RelevanceScore = clamp01(score)
	}
	sortByRelevance(candidates)
	return candidates
}

// sortByRelevance orders by score descending. The sort is stable, so
// ties keep the merge order: adapter routing order first, then each
// adapter's own result ranking.
func sortByRelevance(candidates []model.EvidenceSnippet) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
