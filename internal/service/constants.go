package service

import "time"

// Timeout constants for service operations
const (
	// DefaultChangelogTimeout is the timeout for changelog tool operations
	DefaultChangelogTimeout = 60 * time.Second
)
