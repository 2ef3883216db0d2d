package crawler

import "context"

// Fetcher fetches a URL and returns the body plus metadata. Implementations
// return an error for transport failures and non-2xx responses.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResponse, error)
}
