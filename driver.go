package dataservice

import "github.com/goforj/dataservice/storecore"

// Driver identifies a persistence backend.
type Driver = storecore.Driver

// Store is the durable key-value contract used by the persistence adapter.
type Store = storecore.Store

const (
	DriverNull   = storecore.DriverNull
	DriverFile   = storecore.DriverFile
	DriverMemory = storecore.DriverMemory
	DriverDynamo = storecore.DriverDynamo
	DriverSQL    = storecore.DriverSQL
	DriverRedis  = storecore.DriverRedis
	DriverNATS   = storecore.DriverNATS
)
