package main

import (
	"os"
	"strconv"

	"GambleBench/internal/fakehouse"
	"GambleBench/internal/logging"
)

func main() {
	addr := getenvDefault("FAKEHOUSE_ADDR", ":8080")
	logger := logging.NewLogger(getenvDefault("LOG_LEVEL", "info"))

	h := fakehouse.New(fakehouse.Config{
		Edge:       getenvFloatDefault("FAKEHOUSE_EDGE", 0),
		FailRate:   getenvFloatDefault("FAKEHOUSE_FAIL_RATE", 0),
		ClientSeed: os.Getenv("FAKEHOUSE_CLIENT_SEED"),
	}, logger)

	logger.Info().Str("addr", addr).Str("seed_hash", h.SeedHash()).Msg("fake house listening")
	if err := h.App().Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("fake house stopped")
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
