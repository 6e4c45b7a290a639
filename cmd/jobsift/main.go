// Package main is the jobsift command line: run one batch or watch on a schedule.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobsift",
	Short: "Collect, filter and deduplicate job postings into a CSV",
	Long: `jobsift searches job boards for every configured term and location, drops postings
outside the target region or from excluded companies or titles, skips LinkedIn postings
exported by earlier runs, and writes the rest to a timestamped CSV.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
