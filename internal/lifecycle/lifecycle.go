// Package lifecycle holds process-wide state flags read by the health handler.
package lifecycle

import "sync/atomic"

var (
	shuttingDown atomic.Bool
	modelsReady  atomic.Bool
)

// SetShuttingDown sets the shutdown flag. Call when SIGTERM/SIGINT is
// received; the health handler answers 503 shutting-down while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown reports whether the process is draining and should not
// receive new traffic.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// SetModelsReady marks the linguistic models as loaded. The service starts
// answering queries only after this flips to true.
func SetModelsReady(v bool) {
	modelsReady.Store(v)
}

// ModelsReady reports whether the linguistic models finished loading.
func ModelsReady() bool {
	return modelsReady.Load()
}
