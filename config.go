package dataservice

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/goforj/dataservice/storecore"
)

const (
	defaultStorePrefix  = "dataservice"
	defaultSQLTable     = "dataservice_records"
	defaultDynamoTable  = "dataservice_records"
	defaultDynamoRegion = "us-east-1"
)

func defaultFileDir() string {
	return filepath.Join(os.TempDir(), "dataservice")
}

// CacheMode controls whether and how a persisted value is used at construction.
type CacheMode string

const (
	// CacheModeNone disables persistence entirely.
	CacheModeNone CacheMode = "none"
	// CacheModeBootOnly shows the persisted value optimistically but always refetches.
	CacheModeBootOnly CacheMode = "boot_only"
	// CacheModeFull treats the persisted value as authoritative until reset.
	CacheModeFull CacheMode = "full"
)

// Persistent reports whether the mode reads or writes the store.
func (m CacheMode) Persistent() bool {
	return m == CacheModeBootOnly || m == CacheModeFull
}

// ParseCacheMode maps a textual mode to a CacheMode. Empty input means none.
func ParseCacheMode(s string) (CacheMode, bool) {
	switch CacheMode(s) {
	case "", CacheModeNone:
		return CacheModeNone, true
	case CacheModeBootOnly:
		return CacheModeBootOnly, true
	case CacheModeFull:
		return CacheModeFull, true
	default:
		return CacheModeNone, false
	}
}

// ServiceConfig controls how a Service is constructed.
type ServiceConfig struct {
	// CacheKey overrides the storage key. Defaults to the fetcher's type identity.
	CacheKey string

	// CacheMode selects the persistence strategy. Defaults to CacheModeNone.
	CacheMode CacheMode

	// Store receives persisted records. Defaults to a file store when CacheMode persists.
	Store Store

	// Codec serializes records. Defaults to JSON.
	Codec Codec

	Logger *zerolog.Logger

	// Registry receives the service for ResetAll. Defaults to DefaultRegistry().
	Registry *Registry

	Observer Observer
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.CacheMode == "" {
		c.CacheMode = CacheModeNone
	}
	if c.Codec == nil {
		c.Codec = JSONCodec{}
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
	if c.Store == nil && c.CacheMode.Persistent() {
		c.Store = newFileStore(defaultFileDir())
	}
	return c
}

// StoreConfig controls how a Store is constructed.
type StoreConfig struct {
	storecore.BaseConfig

	Driver Driver

	// FileDir controls where the file driver writes records.
	FileDir string

	// RedisClient is required when DriverRedis is used.
	RedisClient RedisClient

	// NATSKeyValue is required when DriverNATS is used.
	NATSKeyValue NATSKeyValue

	SQLDriverName string
	SQLDSN        string
	SQLTable      string

	DynamoClient   DynamoAPI
	DynamoEndpoint string
	DynamoRegion   string
	DynamoTable    string

	// Memoize wraps the store with per-process read memoization.
	Memoize bool
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.Prefix == "" {
		c.Prefix = defaultStorePrefix
	}
	if c.Compression == "" {
		c.Compression = CompressionNone
	}
	if c.FileDir == "" {
		c.FileDir = defaultFileDir()
	}
	if c.SQLTable == "" {
		c.SQLTable = defaultSQLTable
	}
	if c.DynamoTable == "" {
		c.DynamoTable = defaultDynamoTable
	}
	if c.DynamoRegion == "" {
		c.DynamoRegion = defaultDynamoRegion
	}
	return c
}
