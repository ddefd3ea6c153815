package conifer

import (
	"fmt"
	"os"
	"time"
)

// tickStats holds per-tick timing metrics. Only populated when the
// engine's debug mode is on.
type tickStats struct {
	drainTime   time.Duration
	advanceTime time.Duration
	entityCount int
}

// debugLog prints tick timing to stderr.
func debugLog(stats tickStats) {
	_, _ = fmt.Fprintf(os.Stderr,
		"[conifer] drain: %v | advance: %v | entities: %d\n",
		stats.drainTime, stats.advanceTime, stats.entityCount)
}
