package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// textOf concatenates every descendant text node of the selection, each
// trimmed of surrounding whitespace, with no separator.
func textOf(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

// optionalText returns nil for an empty selection, else the text of its first node.
func optionalText(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	s := textOf(sel.First())
	return &s
}

// optionalHref returns nil when the selection is empty or has no href.
func optionalHref(sel *goquery.Selection) *string {
	href, ok := sel.First().Attr("href")
	if !ok {
		return nil
	}
	return &href
}

// hrefs collects the href of each node, skipping nodes without one.
func hrefs(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			out = append(out, href)
		}
	})
	return out
}

// texts collects textOf for each node.
func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, textOf(s))
	})
	return out
}
