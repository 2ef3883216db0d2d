// Package progress provides the event primitives, hub, and emitter interface
// that the crawler and run driver use to report lifecycle milestones. The hub
// stamps each event with the run ID and time and fans it out synchronously to
// pluggable sinks such as structured logging or Prometheus metrics.
package progress
