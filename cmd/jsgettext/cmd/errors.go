package cmd

import "strings"

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns guidance for a cache database held by another
// process.
func diagnoseDBLock() string {
	return "cache database is locked by another jsgettext process\n" +
		"  → a watch may be running:  ps aux | grep 'jsgettext'\n" +
		"  → or run without the cache: --no-cache"
}
