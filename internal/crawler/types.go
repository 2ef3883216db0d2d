// Package crawler defines core types shared across subsystems.
package crawler

import (
	"errors"
	"net/http"
	"time"
)

// Sentinel errors returned by the parsers and the fail-soft loader.
var (
	// ErrMissingElement marks an entry page lacking a required structural element.
	ErrMissingElement = errors.New("missing element")
	// ErrInvalidEncoding marks a response body that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("response body is not valid UTF-8")
)

// Entry is the record extracted from one award entry page. Optional text is
// nil when the page lacks the corresponding markup.
type Entry struct {
	Title         *string  `json:"title"`
	Subtitle      *string  `json:"subtitle"`
	Orgs          []string `json:"orgs"`
	Award         *string  `json:"award"`
	Year          int      `json:"year"`
	EntryLinks    []string `json:"entry_links"`
	EntryLinkMain *string  `json:"entry_link_main"`
	AboutLink     string   `json:"about_link"`
}

// YearResult holds one slot per discovered entry URL, in listing order. A nil
// slot is an entry whose page could not be fetched or parsed.
type YearResult []*Entry

// Parsed counts the non-nil slots.
func (r YearResult) Parsed() int {
	n := 0
	for _, e := range r {
		if e != nil {
			n++
		}
	}
	return n
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}
