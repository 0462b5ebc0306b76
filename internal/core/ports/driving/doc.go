// Package driving provides interfaces for use cases exposed to external actors
// (primary/inbound ports).
package driving
