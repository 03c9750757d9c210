package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/connectors"
)

var (
	analyseFile   string
	analyseOutput string
)

var analyseCmd = &cobra.Command{
	Use:   "analyse",
	Short: "Compute per-column statistics for a data file",
	Long: `Analyse a CSV or XLSX file and print per-column statistics:
counts, nulls, uniqueness, and kind-specific summaries`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		ds, err := connectors.ReadFile(analyseFile)
		if err != nil {
			log.Fatalf("Error reading data: %v", err)
		}
		fmt.Printf("Read %s rows and %d columns\n",
			humanize.Comma(int64(ds.Rows())), ds.Width())

		results, err := analyser.New(logger).Analyse(ds)
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}

		printOverview(results)

		if analyseOutput != "" {
			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				log.Fatalf("Failed to encode results: %v", err)
			}
			if err := os.WriteFile(analyseOutput, data, 0644); err != nil {
				log.Fatalf("Failed to write %s: %v", analyseOutput, err)
			}
			fmt.Printf("Results saved to %s\n", analyseOutput)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyseCmd)
	analyseCmd.Flags().StringVarP(&analyseFile, "file", "f", "",
		"Path to the data file (csv or xlsx)")
	analyseCmd.Flags().StringVarP(&analyseOutput, "output", "o", "",
		"Output file path for JSON results")
	analyseCmd.MarkFlagRequired("file")
}

func printOverview(results *analyser.Results) {
	fmt.Println("\nAnalysis Results Overview:")
	fmt.Println(strings.Repeat("-", 50))
	for _, column := range results.Columns() {
		rec, _ := results.Get(column)
		s := rec.Stats

		fmt.Printf("Column: %s\n", column)
		fmt.Printf("  Type: %s\n", rec.Type)
		fmt.Printf("  Nulls: %d (%g%%)\n", s.NullCount, s.NullPercentage)
		fmt.Printf("  Unique Values: %d (%g%%)\n", s.UniqueCount, s.UniquePercentage)

		switch {
		case s.NumericStats != nil:
			fmt.Printf("  Range: %g to %g\n", s.NumericStats.Min, s.NumericStats.Max)
		case s.TextStats != nil:
			fmt.Printf("  String Length: %d to %d\n", s.TextStats.MinLength, s.TextStats.MaxLength)
		case s.TemporalStats != nil:
			fmt.Printf("  Date Range: %s to %s\n", s.TemporalStats.MinDate, s.TemporalStats.MaxDate)
		}

		fmt.Println(strings.Repeat("-", 50))
	}
}
