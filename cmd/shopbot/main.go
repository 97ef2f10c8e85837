// Package main provides the entry point for the shopbot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/adityaverma/shopbot-go/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
