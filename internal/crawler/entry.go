package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sidebar labels.
const (
	labelOrganization = "Organization"
	labelAward        = "Award"
	labelEntryLinks   = "Entry Links"
	linkViewEntry     = "View Entry"
)

// ParseEntry extracts an Entry from an entry page. The page title block, the
// sidebar, and the Organization, Award and Entry Links labels are required;
// if any is missing the whole record fails with ErrMissingElement.
func ParseEntry(body string, aboutURL string, year int) (*Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse entry: %w", err)
	}

	pageTitle := doc.Find(".pagetitle").First()
	if pageTitle.Length() == 0 {
		return nil, fmt.Errorf("%w: .pagetitle", ErrMissingElement)
	}

	side := doc.Find(".meta.side").First()
	if side.Length() == 0 {
		return nil, fmt.Errorf("%w: .meta.side", ErrMissingElement)
	}

	orgLabel, err := findLabel(side, labelOrganization, strings.HasPrefix)
	if err != nil {
		return nil, err
	}
	awardLabel, err := findLabel(side, labelAward, exact)
	if err != nil {
		return nil, err
	}
	linksLabel, err := findLabel(side, labelEntryLinks, exact)
	if err != nil {
		return nil, err
	}

	viewEntry := side.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return textOf(a) == linkViewEntry
	})

	return &Entry{
		Title:         optionalText(pageTitle.Find("h1")),
		Subtitle:      optionalText(pageTitle.Find("h2")),
		Orgs:          texts(anchorsAfter(orgLabel)),
		Award:         optionalText(anchorsAfter(awardLabel)),
		Year:          year,
		EntryLinks:    hrefs(anchorsAfter(linksLabel)),
		EntryLinkMain: optionalHref(viewEntry),
		AboutLink:     aboutURL,
	}, nil
}

func exact(s, want string) bool {
	return s == want
}

// findLabel returns the first <strong> in the sidebar whose trimmed text
// satisfies match against want.
func findLabel(side *goquery.Selection, want string, match func(s, want string) bool) (*goquery.Selection, error) {
	label := side.Find("strong").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return match(strings.TrimSpace(s.Text()), want)
	}).First()
	if label.Length() == 0 {
		return nil, fmt.Errorf("%w: %q label", ErrMissingElement, want)
	}
	return label, nil
}

// anchorsAfter returns the <a> siblings following a label, stopping at the
// next label.
func anchorsAfter(label *goquery.Selection) *goquery.Selection {
	return label.NextUntil("strong").Filter("a")
}
