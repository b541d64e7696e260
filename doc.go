// Package dataservice provides Service, a generic fetch-once, cache-forever,
// observable data container.
//
// A Service lazily fetches its payload through a Fetcher, multicasts every
// update to subscribers, and can persist the payload across restarts in a
// Store. Three cache modes are supported:
//
//   - CacheModeNone never touches the store.
//   - CacheModeBootOnly shows a persisted value at startup but always refetches.
//   - CacheModeFull treats a persisted value as authoritative until Reset.
//
// Every Service registers with a Registry so ResetAll can restore all of them
// to their defaults.
//
// Store drivers (memory, file, redis, NATS KV, SQL, DynamoDB, null) live in
// this package and share the storecore.Store contract.
package dataservice
