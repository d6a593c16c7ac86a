// Package startup handles configuration loading, base directory
// provisioning, and formatted startup/shutdown logging.
//
// Configuration comes from environment variables with sensible defaults
// and is frozen into an immutable Config before any component starts.
package startup
