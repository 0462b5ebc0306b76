// Package file provides a TOML file-backed settings store with optional
// change watching for external edits.
package file
