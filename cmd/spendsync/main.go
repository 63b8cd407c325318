package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cleared-dev/spendsync/internal/commands"
)

func main() {
	// Environment overrides (LOG_LEVEL, SPENDSYNC_DB) may come from a .env file.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
