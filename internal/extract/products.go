// Package extract reads storefront product cards out of an HTML page so a
// published catalog page can seed the file catalog.
package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/minthub/mintassist/internal/model"
)

// downloadCall matches onclick="downloadFile('FILE001', 'Name')"
var downloadCall = regexp.MustCompile(`downloadFile\(\s*'([^']+)'`)

// ProductExtractor turns <article class="product-card"> elements into
// catalog records
type ProductExtractor struct{}

// NewProductExtractor creates a new product extractor
func NewProductExtractor() *ProductExtractor {
	return &ProductExtractor{}
}

// Extract parses htmlContent and returns one record per product card, in
// document order. Relative links and images resolve against sourceURL.
// Cards without an ID get a positional one; repeated IDs keep the first card.
func (e *ProductExtractor) Extract(htmlContent string, sourceURL string) ([]model.FileRecord, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var base *url.URL
	if sourceURL != "" {
		base, err = url.Parse(sourceURL)
		if err != nil {
			return nil, fmt.Errorf("parse source url: %w", err)
		}
	}

	var records []model.FileRecord
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "product-card") {
			rec := e.card(n, base)
			if rec.ID == "" {
				rec.ID = fmt.Sprintf("CARD%03d", len(records)+1)
			}
			if rec.Name != "" && !seen[rec.ID] {
				seen[rec.ID] = true
				records = append(records, rec)
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return records, nil
}

// card reads the fields of one product card
func (e *ProductExtractor) card(n *html.Node, base *url.URL) model.FileRecord {
	rec := model.FileRecord{
		ID:       attr(n, "data-id"),
		Category: attr(n, "data-category"),
	}

	var metaValues []string

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch {
			case hasClass(c, "product-title"):
				rec.Name = text(c)
			case hasClass(c, "product-desc"):
				rec.Description = text(c)
			case hasClass(c, "product-meta"):
				for s := c.FirstChild; s != nil; s = s.NextSibling {
					if s.Type == html.ElementNode && s.Data == "span" {
						metaValues = append(metaValues, text(s))
					}
				}
			case c.Data == "img" && rec.Image == "":
				rec.Image = resolve(base, attr(c, "src"))
			case c.Data == "a" && rec.Link == "":
				rec.Link = resolve(base, attr(c, "href"))
			case c.Data == "button":
				if m := downloadCall.FindStringSubmatch(attr(c, "onclick")); m != nil && rec.ID == "" {
					rec.ID = m[1]
				}
			}
		}
		for s := c.FirstChild; s != nil; s = s.NextSibling {
			walk(s)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	// product-meta holds size then download count
	if len(metaValues) > 0 {
		rec.Size = metaValues[0]
	}
	if len(metaValues) > 1 {
		rec.Downloads = parseCount(metaValues[1])
	}

	return rec
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// text concatenates the text content of n with whitespace collapsed
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		for s := c.FirstChild; s != nil; s = s.NextSibling {
			walk(s)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// resolve makes href absolute. Anchors, data URIs and javascript links are
// dropped.
func resolve(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "data:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}

// parseCount reads "15,420" or "15.420" style counters
func parseCount(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
