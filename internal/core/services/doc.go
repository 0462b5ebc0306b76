// Package services implements the core use cases: session capture and
// management, asynchronous enrichment, and the tiered search pipeline.
package services
