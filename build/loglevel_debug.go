//go:build debug && !nolog && !trace
// +build debug,!nolog,!trace

package build

// LogLevel specifies a debug log level.
var LogLevel = "debug"
