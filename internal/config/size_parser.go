package config

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ParseSize converts a size string such as "10MB" or "512KB" to bytes.
// SI units (base 1000) and IEC units ("1MiB") are both accepted; a plain
// number is taken as bytes.
func ParseSize(sizeStr string) (int, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("size string cannot be empty")
	}

	bytes, err := humanize.ParseBytes(sizeStr)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %s (expected format: 10MB, 512KB, etc.): %w", sizeStr, err)
	}

	// Check for overflow when converting uint64 to int
	if bytes > uint64(int(^uint(0)>>1)) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}

	return int(bytes), nil
}

// FormatSize converts bytes to a human-readable SI string, e.g. "2.1 MB"
func FormatSize(bytes int) string {
	if bytes < 0 {
		return fmt.Sprintf("%dB", bytes)
	}
	return humanize.Bytes(uint64(bytes))
}
