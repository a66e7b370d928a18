package main

import (
	"os"

	"github.com/tradelens/backend/cmd/lens/commands"
)

// main is the entry point for the TradeLens CLI
// ⭐ Unified CLI entry point: go run ./cmd/lens [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
