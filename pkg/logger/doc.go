// Package logger is a thin factory around log/slog adding functional options,
// attribute helper constructors, and transparent injection of context values
// (such as request ids) into every log record.
package logger
