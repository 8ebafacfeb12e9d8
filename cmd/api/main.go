package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/metinatakli/movie-booking-engine/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		slog.Error("booking api stopped", "error", err)
		os.Exit(1)
	}
}
