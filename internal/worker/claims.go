package worker

import (
	"context"

	"github.com/veridict/veridict/internal/model"
)

// Verifier runs the full pipeline for a single claim
type Verifier interface {
	VerifyClaim(ctx context.Context, claim model.Claim) (model.ClaimResult, error)
}

// ClaimJob verifies one claim on the pool
type ClaimJob struct {
	Claim    model.Claim
	Verifier Verifier
}

// Execute executes the verification job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	result, err := j.Verifier.VerifyClaim(ctx, j.Claim)
	return &ClaimOutcome{
		Claim:  j.Claim,
		Result: result,
		Err:    err,
	}
}

// ClaimOutcome is the pool result for one claim
type ClaimOutcome struct {
	Claim  model.Claim
	Result model.ClaimResult
	Err    error
}

// GetError returns the error from the claim outcome
func (r *ClaimOutcome) GetError() error {
	return r.Err
}

// ClaimProcessor verifies claims with bounded parallelism. The bound
// keeps concurrent adapter traffic inside third-party rate limits.
type ClaimProcessor struct {
	verifier Verifier
	workers  int
}

// NewClaimProcessor creates a processor running at most workers claims
// at once
func NewClaimProcessor(verifier Verifier, workers int) *ClaimProcessor {
	return &ClaimProcessor{
		verifier: verifier,
		workers:  workers,
	}
}

// Process verifies all claims and returns their outcomes in claim order.
// Claims whose jobs never ran because the context was cancelled are
// absent from the result; the caller decides how to represent them.
func (p *ClaimProcessor) Process(ctx context.Context, claims []model.Claim) []*ClaimOutcome {
	if len(claims) == 0 {
		return []*ClaimOutcome{}
	}

	pool := NewPool(ctx, p.workers)
	pool.Start()

	// Submit from a goroutine while collecting here, so batches larger
	// than the channel buffers cannot stall the pool.
	go func() {
		for i := range claims {
			pool.Submit(&ClaimJob{Claim: claims[i], Verifier: p.verifier})
		}
		pool.Close()
	}()

	results := pool.Collect()

	// Completion order is nondeterministic; re-key by claim id
	byID := make(map[string]*ClaimOutcome, len(results))
	for _, result := range results {
		outcome := result.(*ClaimOutcome)
		byID[outcome.Claim.ID] = outcome
	}

	ordered := make([]*ClaimOutcome, 0, len(claims))
	for _, claim := range claims {
		if outcome, ok := byID[claim.ID]; ok {
			ordered = append(ordered, outcome)
		}
	}
	return ordered
}
