package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridict/veridict/internal/intake"
	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	runTimeout     time.Duration
	maxSources     int
	classifierName string
	claimWorkers   int
	enrichTop      int
	userAgent      string
	noCache        bool
	noFooter       bool
	insecureTLS    bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claims-file>",
	Short: "Verify claims from a file against independent evidence",
	Long: `Verify loads claims from a JSON or YAML file and runs each through
the full pipeline:
- Retrieve evidence from the enabled sources
- Classify each claim/evidence pair (entails, contradicts, neutral)
- Render a credibility-weighted consensus verdict per claim
- Flag weak evidence pools with diagnostic signals

Example:
  veridict verify claims.json
  veridict verify claims.yaml --json report.json --md report.md
  veridict verify claims.json --classifier openai --max-sources 15`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Pipeline flags
	verifyCmd.Flags().IntVar(&maxSources, "max-sources", 0, "evidence snippets kept per claim (0 = config default)")
	verifyCmd.Flags().StringVar(&classifierName, "classifier", "", "NLI classifier (lexical, openai, anthropic, ollama)")
	verifyCmd.Flags().IntVar(&claimWorkers, "workers", 0, "concurrent claim workers (0 = config default)")
	verifyCmd.Flags().IntVar(&enrichTop, "enrich", 0, "fetch full pages for the top N evidence URLs")
	verifyCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")

	// HTTP flags
	verifyCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable evidence cache (force fresh retrieval)")
	verifyCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyVerifyFlags(cmd, &cfg)
	if err := resolveProviderEnv(&cfg); err != nil {
		return err
	}

	claims, err := intake.LoadClaims(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", file)
		fmt.Fprintf(os.Stderr, "Claims: %d\n", len(claims))
		fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Concurrency.ClaimWorkers)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	runner, err := pipeline.NewRunner(&cfg)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Verifying %d claims with %s classifier...\n", len(claims), runner.ClassifierName())
	}

	report := runner.VerifyClaims(ctx, filepath.Base(file), claims)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Verified %d claims (%d abstained)\n", report.Summary.Total, report.Summary.Abstained)
		fmt.Fprintln(os.Stderr)
	}

	if err := writeReports(report, cfg, outJSON, outMD); err != nil {
		return err
	}

	if err := runner.SaveCacheMetrics(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to persist cache metrics: %v\n", err)
	}
	return nil
}

// applyVerifyFlags overlays explicitly-set flags on the merged config.
// Flag defaults never clobber config file values.
func applyVerifyFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-sources") {
		cfg.Retrieval.MaxSources = maxSources
	}
	if flags.Changed("classifier") {
		cfg.Verify.Classifier = classifierName
	}
	if flags.Changed("workers") {
		cfg.Concurrency.ClaimWorkers = claimWorkers
	}
	if flags.Changed("enrich") {
		cfg.Retrieval.EnrichTopN = enrichTop
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
}

// resolveProviderEnv fills API credentials from the environment. Keys
// never live in config files.
func resolveProviderEnv(cfg *model.Config) error {
	switch cfg.Verify.Classifier {
	case "openai":
		cfg.Verify.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Verify.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.Verify.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.Verify.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama runs locally and needs no key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Verify.BaseURL = baseURL
		}
	}

	if cfg.Embeddings.Enabled && cfg.Embeddings.APIKey == "" {
		cfg.Embeddings.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return nil
}

// writeReports renders the JSON/Markdown outputs plus the console
// summary.
func writeReports(report *model.VerificationReport, cfg model.Config, jsonPath, mdPath string) error {
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if jsonPath != "" {
		if err := renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON report: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render Markdown: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown report: %s\n", mdPath)
		}
	}
	if cfg.Output.Verbose {
		fmt.Fprintln(os.Stderr)
	}

	renderer.RenderSummary(report)
	return nil
}
