package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridict/veridict/internal/cache"
	"github.com/veridict/veridict/internal/pipeline"
)

var cacheStatsJSON bool

// cacheCmd groups cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the evidence cache",
	Long: `Manage the on-disk evidence cache under ~/.veridict/cache.

Cached evidence keeps repeat verifications fast and spares the upstream
sources. Hit/miss counters persist across runs and survive 'cache clear'.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache hit rates per evidence source",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := pipeline.ResolveCacheDir(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		metrics, err := cache.LoadMetrics(pipeline.MetricsPath(dir))
		if err != nil {
			return err
		}

		stats := metrics.All()
		if cacheStatsJSON {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal stats: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(stats) == 0 {
			fmt.Println("No cache activity recorded yet.")
			return nil
		}

		fmt.Printf("%-20s %8s %8s %9s  %s\n", "SOURCE", "HITS", "MISSES", "HIT RATE", "STATUS")
		for _, s := range stats {
			fmt.Printf("%-20s %8d %8d %8.0f%%  %s\n", s.Source, s.Hits, s.Misses, s.HitRate*100, s.Status)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached evidence entries",
	Long:  `Delete all cached evidence entries. Hit/miss counters are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := pipeline.ResolveCacheDir(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		if err := cache.NewDiskCache(dir, 0).Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Printf("✓ Cleared evidence cache: %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheStatsCmd.Flags().BoolVar(&cacheStatsJSON, "json", false, "output stats as JSON")
}
