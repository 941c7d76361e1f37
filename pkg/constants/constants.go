// Package constants provides shared constants used throughout the carmap codebase.
// This includes timeouts, retry policy, file permissions, dataset layout and the
// vPIC endpoint defaults.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for a single request to the vehicle API
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds how long sinks and publishers get to flush on exit
	ShutdownTimeout = 5 * time.Second

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries = 3
)

// Year range defaults. The vehicle API reports no models before 1981.
const (
	// FirstModelYear is the earliest model year scanned by default
	FirstModelYear = 1981

	// FutureModelYears is how far past the current year the default scan reaches
	FutureModelYears = 1
)

// Dataset layout, relative to the data directory
const (
	// MakesFile holds every make with its models and year coverage
	MakesFile = "makes_and_models.json"

	// StylesDir holds one <make_slug>.json style file per make
	StylesDir = "styles"

	// OrphansFile holds style labels that matched no model
	OrphansFile = "all_orphaned_styles.json"

	// UnclassifiedFile holds discovered makes missing from both allow and deny lists
	UnclassifiedFile = "unclassified_makes.json"

	// DefaultDataDir is the default dataset directory
	DefaultDataDir = "data"

	// DefaultReadmePath is the README whose stats section is rewritten
	DefaultReadmePath = "README.md"
)

// External resources
const (
	// VPICBaseURL is the NHTSA vPIC vehicles API
	VPICBaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"

	// UserAgent identifies carmap to the vehicle API
	UserAgent = "carmap/1.0 (+https://github.com/agentstation/carmap)"

	// DefaultSubjectPrefix prefixes every NATS subject carmap publishes to
	DefaultSubjectPrefix = "carmap"
)
