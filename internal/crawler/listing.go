package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListingURL returns the winners page for a year.
func ListingURL(baseURL string, year int) string {
	return fmt.Sprintf("%s/winners/%d/", strings.TrimRight(baseURL, "/"), year)
}

// EntryPrefix returns the href prefix that identifies entry pages.
func EntryPrefix(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/entries/"
}

// ExtractEntryURLs returns the hrefs of anchors starting with prefix, in
// document order with duplicates removed. The result is never nil.
func ExtractEntryURLs(body string, prefix string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	urls := make([]string, 0)
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, prefix) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		urls = append(urls, href)
	})
	return urls, nil
}
