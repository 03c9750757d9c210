package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/analysis"
	"github.com/datacanary/datacanary/internal/connectors"
	"github.com/datacanary/datacanary/internal/logging"
	"github.com/datacanary/datacanary/internal/reporting"
	"github.com/datacanary/datacanary/internal/rules"
)

var (
	checkFile      string
	checkDir       string
	checkFormat    string
	checkRecursive bool
	checkRules     string
	checkReport    string
	checkJSON      string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run data quality checks against a file or directory",
	Long: `Run the full quality pipeline: per-column statistics, rule
evaluation, health scoring, insights, and a text report.

Rules come from --rules (YAML or JSON); without it a default set is used:
null percentage, unique values, and a non-negative value range`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		engine := rules.NewEngine(logger)
		if checkRules != "" {
			if err := rules.ApplyRules(engine, checkRules, logger); err != nil {
				log.Fatalf("Failed to load rules: %v", err)
			}
		} else {
			addDefaultRules(engine)
		}

		switch {
		case checkFile != "":
			if err := checkOne(checkFile, engine, logger, true); err != nil {
				log.Fatalf("Check failed: %v", err)
			}
		case checkDir != "":
			checkDirectory(engine, logger)
		default:
			log.Fatalf("Specify a file with --file or a directory with --dir")
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "",
		"Path to the data file (csv or xlsx)")
	checkCmd.Flags().StringVarP(&checkDir, "dir", "d", "",
		"Directory of data files to check")
	checkCmd.Flags().StringVar(&checkFormat, "format", "csv",
		"File format to check in directory mode (csv, xlsx)")
	checkCmd.Flags().BoolVarP(&checkRecursive, "recursive", "r", false,
		"Search directories recursively")
	checkCmd.Flags().StringVar(&checkRules, "rules", "",
		"Path to rule configuration file (YAML or JSON)")
	checkCmd.Flags().StringVar(&checkReport, "report", "",
		"Output file path for the text report")
	checkCmd.Flags().StringVar(&checkJSON, "json", "",
		"Output file path for the JSON results")
	checkCmd.MarkFlagsMutuallyExclusive("file", "dir")
}

// addDefaultRules mirrors the stock rule set, with thresholds taken from
// the config file / environment.
func addDefaultRules(engine *rules.Engine) {
	rangeMin := viper.GetFloat64("range_min")
	engine.AddRule(rules.NewNullPercentageRule(viper.GetFloat64("null_threshold")))
	engine.AddRule(rules.NewUniqueValueRule(viper.GetFloat64("unique_threshold")))
	engine.AddRule(rules.NewValueRangeRule(&rangeMin, nil))
}

func checkOne(path string, engine *rules.Engine, logger *logging.Logger, verbose bool) error {
	ds, err := connectors.ReadFile(path)
	if err != nil {
		return err
	}

	results, err := analyser.New(logger).Analyse(ds)
	if err != nil {
		return err
	}
	eval := engine.EvaluateAll(results)

	agg := analysis.NewAggregator(logger)
	health := agg.CalculateHealthScore(results, eval)

	if !verbose {
		fmt.Printf("\nFile: %s\n", path)
		fmt.Printf("- Health Score: %g (%s)\n", health.Score, health.Status)
		return nil
	}

	insights := agg.DataInsights(results)

	fmt.Printf("\nHealth Score: %g (%s)\n", health.Score, health.Status)

	if len(insights.Summary) > 0 {
		fmt.Println("\nData Insights:")
		for _, s := range insights.Summary {
			fmt.Printf("- %s\n", s)
		}
	}
	if len(insights.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range insights.Recommendations {
			fmt.Printf("- %s\n", r)
		}
	}

	report := reporting.NewRenderer(logger).GenerateTextReport(path, results, eval)
	fmt.Println("\nData Quality Report:")
	fmt.Println(report)

	if checkReport != "" {
		if err := os.WriteFile(checkReport, []byte(report), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report saved to %s\n", checkReport)
	}

	if checkJSON != "" {
		data, err := reporting.NewExport(path, results, eval).JSON()
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		if err := os.WriteFile(checkJSON, data, 0644); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		fmt.Printf("JSON results saved to %s\n", checkJSON)
	}

	return nil
}

func checkDirectory(engine *rules.Engine, logger *logging.Logger) {
	options := connectors.DiscoveryOptions{Recursive: checkRecursive}
	files, err := connectors.DiscoverFiles(checkDir, checkFormat, options)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	if len(files) == 0 {
		fmt.Printf("No %s files found in %s\n", checkFormat, checkDir)
		return
	}

	fmt.Printf("Found %d %s files\n", len(files), checkFormat)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][reset] Checking files..."),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	start := time.Now()
	for _, file := range files {
		bar.Add(1)
		if err := checkOne(file.Path, engine, logger, false); err != nil {
			log.Printf("Failed to check %s: %v", file.Path, err)
		}
	}
	bar.Finish()

	fmt.Printf("\nChecked %d files in %v\n", len(files), time.Since(start).Round(time.Millisecond))
}
