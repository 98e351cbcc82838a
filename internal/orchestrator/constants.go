package orchestrator

import (
	"os"
	"strconv"
	"testing"
	"time"
)

// Each value can be overridden with the named environment variable. Test binaries get
// short values so retry paths run quickly.
var (
	// DefaultWorkflowTimeout bounds a whole prepare run, prompts included
	DefaultWorkflowTimeout = envDuration("RELEASE_PREP_WORKFLOW_TIMEOUT", 60*time.Minute, 5*time.Second)
	// DefaultRetryCount is the number of retries of a GitHub API call
	DefaultRetryCount = uint64(envCount("RELEASE_PREP_RETRY_COUNT", 3, 1))
	// DefaultRetryDelay is the first backoff delay; it doubles on every retry
	DefaultRetryDelay = envDuration("RELEASE_PREP_RETRY_DELAY", time.Second, 10*time.Millisecond)
)

func envDuration(name string, value, testValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(name)); err == nil && d > 0 {
		return d
	}
	if testing.Testing() {
		return testValue
	}
	return value
}

func envCount(name string, value, testValue int) int {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil && n >= 0 {
		return n
	}
	if testing.Testing() {
		return testValue
	}
	return value
}
