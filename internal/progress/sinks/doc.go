// Package sinks implements concrete progress consumers: structured zap logging
// that reproduces the run's milestone log lines, and Prometheus counters for
// fetch failures, parsed entries, and uploads. Each sink satisfies the
// progress.Sink interface and is safe for repeated Consume/Close cycles.
package sinks
