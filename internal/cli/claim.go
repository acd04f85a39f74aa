package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridict/veridict/internal/intake"
	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/pipeline"
)

var (
	claimType       string
	claimJSON       string
	claimMD         string
	claimClassifier string
	claimTimeout    time.Duration
	claimMaxSources int
	claimNoCache    bool
)

// claimCmd represents the claim command
var claimCmd = &cobra.Command{
	Use:   "claim <text>",
	Short: "Verify a single claim from the command line",
	Long: `Claim verifies one claim without a claims file. The claim type is
inferred from the text unless --type sets it explicitly.

Example:
  veridict claim "The unemployment rate fell to 3.9 percent in 2019"
  veridict claim "GDP grew by 2.1 percent" --type statistical --md claim.md
  veridict claim "The court upheld the statute" --classifier openai`,
	Args: cobra.ExactArgs(1),
	RunE: runClaim,
}

func init() {
	rootCmd.AddCommand(claimCmd)

	claimCmd.Flags().StringVar(&claimType, "type", "", "claim type (statistical, historical, legal, current_event, other)")
	claimCmd.Flags().StringVar(&claimJSON, "json", "", "output JSON path (optional)")
	claimCmd.Flags().StringVar(&claimMD, "md", "", "output Markdown path (optional)")
	claimCmd.Flags().StringVar(&claimClassifier, "classifier", "", "NLI classifier (lexical, openai, anthropic, ollama)")
	claimCmd.Flags().IntVar(&claimMaxSources, "max-sources", 0, "evidence snippets kept (0 = config default)")
	claimCmd.Flags().DurationVar(&claimTimeout, "timeout", 2*time.Minute, "overall timeout")
	claimCmd.Flags().BoolVar(&claimNoCache, "no-cache", false, "disable evidence cache (force fresh retrieval)")
}

func runClaim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("classifier") {
		cfg.Verify.Classifier = claimClassifier
	}
	if flags.Changed("max-sources") {
		cfg.Retrieval.MaxSources = claimMaxSources
	}
	if claimNoCache {
		cfg.Cache.Enabled = false
	}
	if err := resolveProviderEnv(&cfg); err != nil {
		return err
	}

	claim := intake.NewClaim(args[0], claimType)
	if claim.Text == "" {
		return fmt.Errorf("claim text is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), claimTimeout)
	defer cancel()

	runner, err := pipeline.NewRunner(&cfg)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Verifying %s claim with %s classifier...\n", claim.ClaimType, runner.ClassifierName())
		fmt.Fprintln(os.Stderr)
	}

	report := runner.VerifyClaims(ctx, truncateText(claim.Text, 60), []model.Claim{claim})

	if err := writeReports(report, cfg, claimJSON, claimMD); err != nil {
		return err
	}

	result := report.Results[0]
	fmt.Printf("\n%s\n", result.Verdict.Explanation)

	if err := runner.SaveCacheMetrics(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to persist cache metrics: %v\n", err)
	}
	return nil
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
