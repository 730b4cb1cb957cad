package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/uplinkhq/trophy/internal/probe"
)

// Default configuration constants.
const (
	defaultUsers        = "octocat,torvalds,defunkt"
	defaultTimeout      = 30 * time.Second
	defaultProbeTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		users   = flag.String("users", defaultUsers, "Comma-separated GitHub logins to probe")
		workers = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		theme   = flag.String("theme", "", "Theme to request (default: service default)")
		columns = flag.Int("columns", 0, "Columns to request (default: service default)")
		logFile = flag.String("log", "", "Log file for probe output (default: probe_log_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	// Setup logging
	if err := probe.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	usernames := make([]string, 0)
	for _, u := range strings.Split(*users, ",") {
		if u = strings.TrimSpace(u); u != "" {
			usernames = append(usernames, u)
		}
	}

	// Create probe configuration
	config := &probe.Config{
		BaseURL:   *baseURL,
		Usernames: usernames,
		Workers:   *workers,
		Timeout:   *timeout,
		Theme:     *theme,
		Columns:   *columns,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	// Run the probe
	if err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		return
	}
}
