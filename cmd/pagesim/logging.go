package main

import (
	"io"
	"log/slog"
	"os"
)

const logLevelEnv = "PAGECACHE_LOG_LEVEL"

var logLevel = new(slog.LevelVar)

// configureLogging sets up the default logger with a TextHandler
// whose level is taken from the PAGECACHE_LOG_LEVEL environment variable.
// It defaults to Info level if not specified.
func configureLogging(w io.Writer) *slog.Logger {
	logLevel.Set(slog.LevelInfo)
	switch os.Getenv(logLevelEnv) {
	case "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "WARN":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
