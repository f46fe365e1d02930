// Package store provides the key-value persistence collaborators the canvas
// engine saves snapshots through.
//
// Supported backends:
//   - Memory: for development and testing (default)
//   - File: for single-node desktop deployments
//   - SQLite: for single-node deployments that want durable structured storage
//   - Redis: for hosted deployments sharing state across instances
package store

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound    = errors.New("not found")
	ErrStoreClosed = errors.New("store is closed")
	ErrInvalidKey  = errors.New("invalid key")
)

// KV is the persistence collaborator contract: a plain string key-value
// store. Get returns ErrNotFound for absent keys.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Type selects a storage backend.
type Type string

const (
	TypeMemory Type = "memory"
	TypeFile   Type = "file"
	TypeSQLite Type = "sqlite"
	TypeRedis  Type = "redis"
)

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	Password  string `yaml:"password" json:"password"`
	DB        int    `yaml:"db" json:"db"`
	PoolSize  int    `yaml:"pool_size" json:"pool_size"`
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`
}

// Config is the backend selection plus per-backend settings.
type Config struct {
	Type Type `yaml:"type" json:"type"`

	// BaseDir is the directory for file-based storage.
	BaseDir string `yaml:"base_dir" json:"base_dir"`

	// Path is the SQLite database file, ":memory:" for in-memory.
	Path string `yaml:"path" json:"path"`

	// Redis settings, only used when Type is "redis".
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Type:    TypeMemory,
		BaseDir: ".flowcanvas",
		Path:    "flowcanvas.db",
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  10,
			KeyPrefix: "flowcanvas:",
		},
	}
}

// New creates the KV backend selected by cfg.Type. An empty type falls back
// to the in-memory store.
func New(cfg Config) (KV, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemoryKV(), nil
	case TypeFile:
		return NewFileKV(cfg.BaseDir)
	case TypeSQLite:
		return NewSQLiteKV(cfg.Path)
	case TypeRedis:
		return NewRedisKV(cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
