// Package main provides the entry point for the placement pipeline HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "placement_agent",
	Short: "Campus placement resume pipeline server",
	Long:  "Placement agent ingests student resumes, extracts and scores them with AI, reconciles the results into student profiles, and generates improved resume PDFs via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
