// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Config configures a Store via a preset-constructor style rather
// than field-by-field defaults.
type Config struct {
	// Path is the directory the embedded key-value store persists to.
	Path string

	// CacheSize is the vertex-cache capacity in entries; the parent
	// cache is sized at CacheSize/2.
	CacheSize int

	// MaxWriteCacheSize bounds the write-through cache in entries
	// before it is flushed and cleared.
	MaxWriteCacheSize int
}

// DefaultConfig returns reasonable defaults for a single-node deployment.
func DefaultConfig(path string) Config {
	return Config{
		Path:              path,
		CacheSize:         10_000,
		MaxWriteCacheSize: 1_000,
	}
}
