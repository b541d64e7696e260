package dataservice

import (
	"context"
	"errors"
)

// NewStore returns a concrete store for the requested driver.
// A driver that fails to initialize yields a store that reports the
// construction error on every call; services treat that as a cache miss.
//
// Example: select driver explicitly
//
//	ctx := context.Background()
//	store := dataservice.NewStore(ctx, dataservice.StoreConfig{
//		Driver: dataservice.DriverMemory,
//	})
//	fmt.Println(store.Driver()) // memory
func NewStore(ctx context.Context, cfg StoreConfig) Store {
	cfg = cfg.withDefaults()
	store, err := newBaseStore(ctx, cfg)
	if err != nil {
		return &errorStore{driver: cfg.Driver, err: err}
	}
	store, err = newEncryptingStore(store, cfg.EncryptionKey)
	if err != nil {
		return &errorStore{driver: cfg.Driver, err: err}
	}
	store = newShapingStore(store, cfg.Compression, cfg.MaxValueBytes)
	if cfg.Memoize {
		store = NewMemoStore(store)
	}
	return store
}

func newBaseStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Driver {
	case DriverNull:
		return newNullStore(), nil
	case DriverFile:
		return newFileStore(cfg.FileDir), nil
	case DriverRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("redis driver requires a client")
		}
		return newRedisStore(cfg.RedisClient, cfg.Prefix), nil
	case DriverNATS:
		if cfg.NATSKeyValue == nil {
			return nil, errors.New("nats driver requires a key-value bucket")
		}
		return newNATSStore(cfg.NATSKeyValue, cfg.Prefix), nil
	case DriverSQL:
		return newSQLStore(cfg)
	case DriverDynamo:
		return newDynamoStore(ctx, cfg)
	default:
		return newMemoryStore(), nil
	}
}

// NewStoreWith builds a store using a driver and a set of functional options.
//
// Example: file store (options)
//
//	ctx := context.Background()
//	store := dataservice.NewStoreWith(ctx, dataservice.DriverFile,
//		dataservice.WithFileDir("/var/lib/app/records"),
//		dataservice.WithCompression(dataservice.CompressionGzip),
//	)
//	fmt.Println(store.Driver()) // file
func NewStoreWith(ctx context.Context, driver Driver, opts ...StoreOption) Store {
	cfg := StoreConfig{Driver: driver}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return NewStore(ctx, cfg)
}

// NewMemoryStore is a convenience for an in-process store.
func NewMemoryStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverMemory, opts...)
}

// NewNullStore returns a store that never holds anything.
func NewNullStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverNull, opts...)
}

// NewFileStore is a convenience for a filesystem-backed store.
func NewFileStore(ctx context.Context, dir string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverFile, append([]StoreOption{WithFileDir(dir)}, opts...)...)
}

// NewRedisStore is a convenience for a redis-backed store. Redis client is required.
//
// Example: redis helper
//
//	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
//	store := dataservice.NewRedisStore(ctx, rdb, dataservice.WithPrefix("app"))
//	fmt.Println(store.Driver()) // redis
func NewRedisStore(ctx context.Context, client RedisClient, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverRedis, append([]StoreOption{WithRedisClient(client)}, opts...)...)
}

// NewNATSStore is a convenience for a JetStream key-value backed store.
func NewNATSStore(ctx context.Context, kv NATSKeyValue, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverNATS, append([]StoreOption{WithNATSKeyValue(kv)}, opts...)...)
}

// NewSQLStore is a convenience for a database/sql backed store (sqlite, pgx, mysql).
func NewSQLStore(ctx context.Context, driverName, dsn, table string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverSQL, append([]StoreOption{WithSQL(driverName, dsn, table)}, opts...)...)
}

// NewDynamoStore is a convenience for a DynamoDB-backed store.
func NewDynamoStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverDynamo, opts...)
}
