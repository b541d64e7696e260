package dataservice

import "github.com/rs/zerolog"

// Option mutates ServiceConfig when constructing a Service.
type Option func(ServiceConfig) ServiceConfig

// WithCacheKey sets an explicit storage key instead of the fetcher's type identity.
func WithCacheKey(key string) Option {
	return func(cfg ServiceConfig) ServiceConfig {
		cfg.CacheKey = key
		return cfg
	}
}

// WithCacheMode selects the persistence strategy.
func WithCacheMode(mode CacheMode) Option {
	return func(cfg ServiceConfig) ServiceConfig {
		cfg.CacheMode = mode
		return cfg
	}
}

// WithStore sets the store that receives persisted records.
func WithStore(store Store) Option {
	return func(cfg ServiceConfig) ServiceConfig {
		cfg.Store = store
		return cfg
	}
}

// WithCodec sets the record codec.
func WithCodec(codec Codec) Option {
	return func(cfg ServiceConfig) ServiceConfig {
		cfg.Codec = codec
		return cfg
	}
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg ServiceConfig) ServiceConfig {
		cfg.Logger = &logger
		return cfg
	}
}

// WithRegistry registers the service in r instead of the process-wide registry.
func WithRegistry(r *Registry) Option {
	return func(cfg ServiceConfig) ServiceConfig {
		cfg.Registry = r
		return cfg
	}
}

// WithObserver attaches an observer to receive operation events.
func WithObserver(o Observer) Option {
	return func(cfg ServiceConfig) ServiceConfig {
		cfg.Observer = o
		return cfg
	}
}

// StoreOption mutates StoreConfig when constructing a store.
type StoreOption func(StoreConfig) StoreConfig

// WithPrefix sets the key prefix for shared backends.
func WithPrefix(prefix string) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.Prefix = prefix
		return cfg
	}
}

// WithFileDir sets the directory used by the file driver.
func WithFileDir(dir string) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.FileDir = dir
		return cfg
	}
}

// WithRedisClient sets the redis client; required when using DriverRedis.
func WithRedisClient(client RedisClient) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.RedisClient = client
		return cfg
	}
}

// WithNATSKeyValue sets the JetStream key-value bucket; required when using DriverNATS.
func WithNATSKeyValue(kv NATSKeyValue) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.NATSKeyValue = kv
		return cfg
	}
}

// WithSQL configures the SQL driver name, DSN, and table.
func WithSQL(driverName, dsn, table string) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.SQLDriverName = driverName
		cfg.SQLDSN = dsn
		cfg.SQLTable = table
		return cfg
	}
}

// WithDynamoClient injects a DynamoDB client.
func WithDynamoClient(client DynamoAPI) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.DynamoClient = client
		return cfg
	}
}

// WithDynamoEndpoint points the generated DynamoDB client at a custom endpoint (e.g. DynamoDB Local).
func WithDynamoEndpoint(endpoint string) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.DynamoEndpoint = endpoint
		return cfg
	}
}

// WithDynamoTable sets the DynamoDB table name.
func WithDynamoTable(table string) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.DynamoTable = table
		return cfg
	}
}

// WithCompression compresses stored records with codec.
func WithCompression(codec CompressionCodec) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.Compression = codec
		return cfg
	}
}

// WithMaxValueBytes rejects records larger than n bytes after encoding.
func WithMaxValueBytes(n int) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.MaxValueBytes = n
		return cfg
	}
}

// WithEncryptionKey encrypts stored records with AES-GCM. Key must be 16, 24, or 32 bytes.
func WithEncryptionKey(key []byte) StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.EncryptionKey = key
		return cfg
	}
}

// WithMemoize wraps the store with per-process read memoization.
func WithMemoize() StoreOption {
	return func(cfg StoreConfig) StoreConfig {
		cfg.Memoize = true
		return cfg
	}
}
