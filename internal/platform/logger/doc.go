// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured logging
// with configurable log levels and JSON or text output. Logs go to stderr so
// that stdout stays free for command output.
package logger
