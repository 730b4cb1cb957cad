package probe

import "time"

// Config holds configuration for the badge probe.
type Config struct {
	BaseURL   string        // Base URL of the service
	Usernames []string      // GitHub logins to probe
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Theme     string        // Theme parameter to request
	Columns   int           // Columns parameter to request (0 omits it)
	LogFile   string        // Log file for probe output
	Verbose   bool          // Enable verbose logging
}

// result captures the outcome of one badge request.
type result struct {
	Username   string
	Status     int
	CacheState string        // X-Cache header: HIT or MISS
	Latency    time.Duration
	Body       []byte
	Err        error
}

// Stats holds probe statistics.
type Stats struct {
	RequestsSent   int
	Succeeded      int
	Failed         int
	NotFound       int
	CacheHits      int
	CacheMisses    int
	MissLatencyAvg time.Duration
	HitLatencyAvg  time.Duration
	BytesIdentical int
	BytesDivergent int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
