// Package kv implements the session collection store over an opaque durable
// key/value map. The whole collection lives under one key and every mutation
// is a read-merge-write cycle under a serializing lock.
package kv
