// Package storetest provides reusable store contract tests for storecore.Store implementations.
//
// Example pattern:
//
//	func TestRedisStoreContract(t *testing.T) {
//		store := dataservice.NewRedisStore(ctx, newTestRedisClient(t), dataservice.WithPrefix("test"))
//		storetest.RunStoreContract(t, store, storetest.Options{CaseName: t.Name()})
//	}
//
// Example factory/cleanup wrapper:
//
//	func runContractWithFactory(t *testing.T, mk func(t *testing.T) (storecore.Store, func())) {
//		t.Helper()
//		store, cleanup := mk(t)
//		t.Cleanup(cleanup)
//		storetest.RunStoreContract(t, store, storetest.Options{CaseName: t.Name()})
//	}
package storetest
