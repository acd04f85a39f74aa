// Package pipeline wires retrieval, verification, judgment and scoring
// into the claim verification run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/veridict/veridict/internal/adapters"
	"github.com/veridict/veridict/internal/cache"
	"github.com/veridict/veridict/internal/judge"
	"github.com/veridict/veridict/internal/logger"
	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/nli"
	"github.com/veridict/veridict/internal/retrieve"
	"github.com/veridict/veridict/internal/score"
	"github.com/veridict/veridict/internal/util"
	"github.com/veridict/veridict/internal/worker"
)

// Runner orchestrates the full verification of claims: evidence
// retrieval, per-pair NLI verification, consensus judgment and pool
// diagnostics. One Runner serves a whole run; it is safe for
// concurrent claims.
type Runner struct {
	retriever *retrieve.Retriever
	verifier  *nli.Verifier
	judge     *judge.Judge
	scorer    *score.Scorer
	store     *cache.EvidenceStore
	cfg       *model.Config
	log       *slog.Logger
}

// NewRunner builds a Runner from configuration, wiring every stage.
func NewRunner(cfg *model.Config) (*Runner, error) {
	log := logger.New("pipeline")

	classifier, err := nli.NewClassifier(cfg.Verify)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	httpClient := adapters.NewHTTPClient(cfg.HTTP)
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	deps := adapters.Deps{
		HTTPClient:  httpClient,
		Limiter:     limiter,
		UserAgent:   cfg.HTTP.UserAgent,
		Credibility: adapters.NewCredibilityClassifier(),
	}
	available := adapters.BuildAdapters(cfg.Sources, deps)
	if len(available) == 0 {
		return nil, fmt.Errorf("no evidence sources enabled")
	}
	router := adapters.NewRouter(available)

	store, err := buildEvidenceStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}

	reranker, err := buildReranker(cfg.Retrieval.RerankStrategy, classifier, log)
	if err != nil {
		return nil, fmt.Errorf("build reranker: %w", err)
	}

	var embedder *retrieve.Embedder
	if cfg.Embeddings.Enabled {
		embedder, err = retrieve.NewEmbedder(cfg.Embeddings)
		if err != nil {
			return nil, fmt.Errorf("build embedder: %w", err)
		}
	}

	var enricher *retrieve.Enricher
	if cfg.Retrieval.EnrichTopN > 0 {
		robots := util.NewRobotsChecker(httpClient, cfg.HTTP.UserAgent)
		fetcher := retrieve.NewFetcher(httpClient, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, robots, limiter)
		enricher = retrieve.NewEnricher(fetcher, cfg.Retrieval.EnrichTopN, cfg.Retrieval.MinSnippetWords)
	}

	return &Runner{
		retriever: retrieve.NewRetriever(router, store, reranker, embedder, enricher, cfg.Retrieval),
		verifier:  nli.NewVerifier(classifier, cfg.Verify),
		judge:     judge.NewJudge(cfg.Judge),
		scorer:    score.NewScorer(cfg.Judge.MinSources),
		store:     store,
		cfg:       cfg,
		log:       log,
	}, nil
}

// buildEvidenceStore assembles the layered cache behind the evidence
// store, honoring the disabled case with a nil backend.
func buildEvidenceStore(cfg model.CacheConfig) (*cache.EvidenceStore, error) {
	if !cfg.Enabled {
		return cache.NewEvidenceStore(nil, cfg, cache.NewMetrics()), nil
	}

	dir, err := ResolveCacheDir(cfg.Dir)
	if err != nil {
		return nil, err
	}

	metrics, err := cache.LoadMetrics(MetricsPath(dir))
	if err != nil {
		// Stale or corrupt counters are not worth failing a run over
		metrics = cache.NewMetrics()
	}

	backend := cache.NewLayeredCache(cfg.DefaultTTL, dir, cfg.DefaultTTL)
	return cache.NewEvidenceStore(backend, cfg, metrics), nil
}

// buildReranker maps the configured strategy to a Reranker. The cross
// encoder needs a classifier that can score claim/evidence pairs; when
// the configured one cannot, retrieval degrades to hybrid ranking.
func buildReranker(strategy string, classifier nli.Classifier, log *slog.Logger) (retrieve.Reranker, error) {
	if strategy == "cross_encoder" {
		scorer, ok := classifier.(retrieve.PairScorer)
		if !ok {
			log.Warn("classifier cannot score pairs, falling back to hybrid reranking",
				"classifier", classifier.Name())
			return retrieve.NewReranker("hybrid", nil)
		}
		return retrieve.NewReranker(strategy, scorer)
	}
	return retrieve.NewReranker(strategy, nil)
}

// ResolveCacheDir expands an empty dir to ~/.veridict/cache
func ResolveCacheDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".veridict", "cache"), nil
}

// MetricsPath returns where cache hit/miss counters persist for a dir
func MetricsPath(cacheDir string) string {
	return filepath.Join(cacheDir, "metrics.json")
}

// ClassifierName reports which NLI classifier the runner verifies with
func (r *Runner) ClassifierName() string {
	return r.verifier.ClassifierName()
}

// CacheMetrics exposes the evidence store's hit/miss registry
func (r *Runner) CacheMetrics() *cache.Metrics {
	return r.store.Metrics()
}

// SaveCacheMetrics persists cache counters so hit rates accumulate
// across runs. A disabled cache persists nothing.
func (r *Runner) SaveCacheMetrics() error {
	if !r.cfg.Cache.Enabled {
		return nil
	}
	dir, err := ResolveCacheDir(r.cfg.Cache.Dir)
	if err != nil {
		return err
	}
	return r.store.Metrics().Save(MetricsPath(dir))
}

// VerifyClaim runs the full pipeline for one claim under the configured
// deadline. Retrieval and verification failures shrink the evidence
// pool rather than erroring; the judge turns an empty pool into an
// abstention, so the returned error is reserved for future stages.
func (r *Runner) VerifyClaim(ctx context.Context, claim model.Claim) (model.ClaimResult, error) {
	start := time.Now()

	if r.cfg.Retrieval.ClaimDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Retrieval.ClaimDeadline)
		defer cancel()
	}

	evidence := r.retriever.Retrieve(ctx, claim, r.cfg.Retrieval.MaxSources)
	signals := r.verifier.VerifyPool(ctx, claim, evidence)
	verdict := r.judge.Judge(claim, signals)
	diagnostics := r.scorer.Analyze(claim, evidence, signals, verdict)

	elapsed := time.Since(start)
	r.log.Debug("claim verified",
		"claim_id", claim.ID,
		"verdict", verdict.Verdict,
		"abstained", verdict.Abstained,
		"evidence", len(evidence),
		"elapsed_ms", elapsed.Milliseconds())

	return model.ClaimResult{
		Claim:       claim,
		Evidence:    evidence,
		Signals:     signals,
		Verdict:     verdict,
		Diagnostics: diagnostics,
		ElapsedMS:   elapsed.Milliseconds(),
	}, nil
}

// VerifyClaims verifies a batch with bounded parallelism and assembles
// the run report. Results keep input order whatever order workers
// finish in; claims whose jobs never ran still appear, abstained.
func (r *Runner) VerifyClaims(ctx context.Context, subject string, claims []model.Claim) *model.VerificationReport {
	workers := r.cfg.Concurrency.ClaimWorkers
	processor := worker.NewClaimProcessor(r, workers)
	outcomes := processor.Process(ctx, claims)

	completed := make(map[string]model.ClaimResult, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			r.log.Warn("claim verification failed", "claim_id", outcome.Claim.ID, "error", outcome.Err)
			completed[outcome.Claim.ID] = r.abstainedResult(outcome.Claim)
			continue
		}
		completed[outcome.Claim.ID] = outcome.Result
	}

	results := make([]model.ClaimResult, 0, len(claims))
	for _, claim := range claims {
		result, ok := completed[claim.ID]
		if !ok {
			// Job skipped by cancellation
			result = r.abstainedResult(claim)
		}
		results = append(results, result)
	}

	return &model.VerificationReport{
		Subject:     subject,
		GeneratedAt: time.Now().UTC(),
		Results:     results,
		Summary:     summarize(results),
		CacheStats:  r.store.Metrics().All(),
	}
}

// abstainedResult represents a claim the pipeline never got evidence
// for. Judging an empty pool keeps the abstention reason single-sourced.
func (r *Runner) abstainedResult(claim model.Claim) model.ClaimResult {
	verdict := r.judge.Judge(claim, nil)
	return model.ClaimResult{
		Claim:       claim,
		Evidence:    []model.EvidenceSnippet{},
		Verdict:     verdict,
		Diagnostics: r.scorer.Analyze(claim, nil, nil, verdict),
	}
}

// summarize tallies verdicts. Mean confidence covers decided claims
// only; abstentions would drag it toward zero without saying anything.
func summarize(results []model.ClaimResult) model.Summary {
	summary := model.Summary{Total: len(results)}

	confidenceSum := 0
	decided := 0
	for _, result := range results {
		if result.Verdict.Abstained {
			summary.Abstained++
			continue
		}
		switch result.Verdict.Verdict {
		case model.VerdictSupported:
			summary.Supported++
		case model.VerdictContradicted:
			summary.Contradicted++
		default:
			summary.Uncertain++
		}
		confidenceSum += result.Verdict.Confidence
		decided++
	}

	if decided > 0 {
		summary.MeanConfidence = float64(confidenceSum) / float64(decided)
	}
	return summary
}
