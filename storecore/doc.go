// Package storecore holds the backend-agnostic persistence contract shared by the
// dataservice root package, its store drivers, and the storefake/storetest helpers.
package storecore
