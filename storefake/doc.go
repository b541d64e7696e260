// Package storefake provides a counting in-memory store for tests that need
// to assert how a service touches persistence.
package storefake
