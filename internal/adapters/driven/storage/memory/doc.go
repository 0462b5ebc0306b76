// Package memory provides in-memory implementations of the storage ports.
// Used for tests and as the default when no data directory is configured.
package memory
