package main

import (
	"log/slog"
	"os"
)

var version string = "DEV"

func main() {
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})))
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
