package config

// Defaults applied by SetDefaults
const (
	// DefaultHost is the address the preview server binds to
	DefaultHost = "127.0.0.1"

	// DefaultPort is the preview server port
	DefaultPort = 8000

	// DefaultTimeoutSeconds bounds a single /update long-poll
	DefaultTimeoutSeconds = 60

	// DefaultPollIntervalMS is the cadence at which a long-poll checks for changes
	DefaultPollIntervalMS = 1000

	// DefaultMaxFileSize is the largest document the renderer will read
	DefaultMaxFileSize = 10 * 1000 * 1000

	// DefaultAccessPath is used when access_log is enabled without a path
	DefaultAccessPath = "access.log"
)
