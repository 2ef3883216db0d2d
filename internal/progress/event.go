// Package progress defines the event structures emitted during a crawl run.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageFetchFailed   Stage = "FETCH_FAILED"
	StageListingFailed Stage = "LISTING_FAILED"
	StageParseFailed   Stage = "PARSE_FAILED"
	StageEntryParsed   Stage = "ENTRY_PARSED"
	StageYearCrawled   Stage = "YEAR_CRAWLED"
	StageUploaded      Stage = "UPLOADED"
	StageRunDone       Stage = "RUN_DONE"
	StageNotified      Stage = "NOTIFIED"
)

// Event captures a single milestone of a run.
type Event struct {
	// RunID identifies the process run; the hub fills it in.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the hub.
	TS time.Time
	Stage Stage
	// Year is the awards year being processed, zero for run-level stages.
	Year int
	// URL is the page or object the event refers to.
	URL string
	// Count carries the number of entries for YEAR_CRAWLED.
	Count int
	// Bytes carries the payload size for UPLOADED.
	Bytes int64
	// Note lets emitters attach short context (bucket name, webhook body).
	Note string
	// Err is the swallowed failure for *_FAILED stages.
	Err error
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageFetchFailed:
		if e.URL == "" {
			return errors.New("fetch failure requires url")
		}
	case StageParseFailed, StageEntryParsed:
		if e.URL == "" || e.Year == 0 {
			return fmt.Errorf("%s requires url and year", e.Stage)
		}
	case StageListingFailed, StageYearCrawled:
		if e.Year == 0 {
			return fmt.Errorf("%s requires year", e.Stage)
		}
	case StageUploaded:
		if e.URL == "" {
			return errors.New("upload requires object path")
		}
	case StageRunDone, StageNotified:
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Count < 0 || e.Bytes < 0 {
		return errors.New("counters must be >= 0")
	}
	return nil
}

// Failed reports whether the event records a swallowed failure.
func (e Event) Failed() bool {
	switch e.Stage {
	case StageFetchFailed, StageListingFailed, StageParseFailed:
		return true
	default:
		return false
	}
}
