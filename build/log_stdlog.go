//go:build stdlog
// +build stdlog

package build

// LoggingType is a log type that only writes to standard error.
const LoggingType = LogTypeStdErr
