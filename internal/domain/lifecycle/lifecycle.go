// Package lifecycle holds shared timing constants for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds each OnStart/OnStop hook and graceful shutdown.
const DefaultTimeout = 10 * time.Second
