// Package sqlite provides durable storage backed by a single SQLite database:
// the opaque key/value map holding the session collection and the embedding
// record store. Vectors are stored as little-endian float32 BLOBs.
package sqlite
