// Package crawler implements the awards-site scraping core: the listing
// extractor that discovers entry pages for a year, the entry parser that turns
// one entry page into a record, and the sequential Crawler that ties them to a
// Fetcher while converting fetch and parse failures into nil records.
package crawler
