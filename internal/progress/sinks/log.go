package sinks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/oja-awards-crawler/internal/progress"
)

// LogSink writes the run's milestone log lines. Swallowed failures are logged
// at error level with their cause; milestones at debug, matching the
// operator-facing debug log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		msg, ok := Message(evt)
		if !ok {
			continue
		}
		fields := []zap.Field{zap.String("run_id", evt.RunID.String())}
		if evt.Failed() {
			fields = append(fields, zap.Error(evt.Err))
			s.logger.Error(msg, fields...)
			continue
		}
		s.logger.Debug(msg, fields...)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}

// Message renders the log line for an event. ENTRY_PARSED has no line.
func Message(evt progress.Event) (string, bool) {
	switch evt.Stage {
	case progress.StageFetchFailed:
		return fmt.Sprintf("Catch an exception - url=%s", evt.URL), true
	case progress.StageListingFailed:
		return fmt.Sprintf("Catch an exception - year=%d", evt.Year), true
	case progress.StageParseFailed:
		return fmt.Sprintf("Catch an exception - year=%d & url=%s", evt.Year, evt.URL), true
	case progress.StageYearCrawled:
		return fmt.Sprintf("PAGES IN %d CRAWLED", evt.Year), true
	case progress.StageUploaded:
		return fmt.Sprintf(`DATA UPLOADED TO "%s/%s"`, evt.Note, evt.URL), true
	case progress.StageRunDone:
		return "ALL PAGES CRAWLED", true
	case progress.StageNotified:
		return fmt.Sprintf("Slack notified - %s", evt.Note), true
	default:
		return "", false
	}
}
