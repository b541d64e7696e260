package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/goforj/dataservice"
)

func addStoreFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("driver", "file", "Store driver (file, sql, redis)")
	flags.String("dir", "", "Record directory for the file driver")
	flags.String("prefix", "", "Key prefix for shared backends")
	flags.String("sql-driver", "sqlite", "database/sql driver name for the sql driver")
	flags.String("dsn", "", "Data source name for the sql driver")
	flags.String("table", "", "Table for the sql driver")
	flags.String("redis-addr", "127.0.0.1:6379", "Address for the redis driver")
	flags.String("codec", "json", "Record codec (json, cbor)")
}

// openStore builds the store selected by flags. The returned close function
// releases any client the store owns.
func openStore(ctx context.Context, cmd *cobra.Command) (dataservice.Store, func(), error) {
	flags := cmd.Flags()
	driver, _ := flags.GetString("driver")
	prefix, _ := flags.GetString("prefix")

	var opts []dataservice.StoreOption
	if prefix != "" {
		opts = append(opts, dataservice.WithPrefix(prefix))
	}
	noop := func() {}

	switch dataservice.Driver(driver) {
	case dataservice.DriverFile:
		dir, _ := flags.GetString("dir")
		if dir == "" {
			return nil, noop, fmt.Errorf("--dir is required for the file driver")
		}
		return dataservice.NewFileStore(ctx, dir, opts...), noop, nil
	case dataservice.DriverSQL:
		name, _ := flags.GetString("sql-driver")
		dsn, _ := flags.GetString("dsn")
		table, _ := flags.GetString("table")
		return dataservice.NewSQLStore(ctx, name, dsn, table, opts...), noop, nil
	case dataservice.DriverRedis:
		addr, _ := flags.GetString("redis-addr")
		client := redis.NewClient(&redis.Options{Addr: addr})
		return dataservice.NewRedisStore(ctx, client, opts...), func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unsupported driver %q", driver)
	}
}

func codecFromFlags(cmd *cobra.Command) (dataservice.Codec, error) {
	name, _ := cmd.Flags().GetString("codec")
	switch name {
	case "", "json":
		return dataservice.JSONCodec{}, nil
	case "cbor":
		return dataservice.NewCBORCodec()
	default:
		return nil, fmt.Errorf("unsupported codec %q", name)
	}
}
