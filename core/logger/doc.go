// Package logger is a standardized event logging framework for shell
// sessions.
package logger
