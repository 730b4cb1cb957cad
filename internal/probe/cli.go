package probe

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/uplinkhq/trophy/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "probe_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the badge probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Trophy Badge Probe
==================

A concurrent smoke-test tool for a running trophy badge service. It renders
badges for a set of users, then repeats the round to verify that cached
responses are byte-identical and faster.

Usage:
  go run cmd/badge-probe/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -users string
        Comma-separated GitHub logins to probe (default "octocat,torvalds,defunkt")
  -workers int
        Number of concurrent workers (default CPU cores)
  -timeout duration
        HTTP request timeout (default 30s)
  -theme string
        Theme to request (default: service default)
  -columns int
        Columns to request (default: service default)
  -log string
        Log file for probe output (default: probe_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Probe with default settings
  go run cmd/badge-probe/main.go

  # Probe specific users against a remote instance
  go run cmd/badge-probe/main.go -users alice,bob -url http://badge.example.com

  # Probe with a theme and verbose output
  go run cmd/badge-probe/main.go -theme dark -verbose
`)
}
