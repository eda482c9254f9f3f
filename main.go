package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"equipment-logbook/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
	cmd.Execute()
}
