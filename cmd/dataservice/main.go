// Command dataservice inspects and purges persisted service records and runs
// a URL-backed service for manual testing.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
