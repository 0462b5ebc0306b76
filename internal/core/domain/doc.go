// Package domain contains the core business entities and rules for AITabManager.
// It has no dependencies on infrastructure - pure Go types and logic.
package domain
