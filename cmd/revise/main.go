package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		slog.Default().Error("revise failed", "err", err)
		os.Exit(1)
	}
}
