package scraper

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ArchiveLink is one downloadable archive found on a listing page
type ArchiveLink struct {
	URL  string
	Name string
}

// parseListing extracts quarterly archive links from an index page.
// Links qualify when their href ends in .zip and contains a "T".
func parseListing(body io.Reader, pageURL *url.URL) ([]ArchiveLink, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	var links []ArchiveLink
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if !strings.HasSuffix(href, ".zip") || !strings.Contains(strings.ToUpper(href), "T") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := pageURL.ResolveReference(ref)

		name := archiveName(strings.TrimSpace(s.Text()), abs.Path)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true

		links = append(links, ArchiveLink{URL: abs.String(), Name: name})
	})

	return links, nil
}

// archiveName picks the local file name for a link: the anchor text when it
// is a plain file name, otherwise the last segment of the URL path.
func archiveName(text, urlPath string) string {
	if text != "" && !strings.ContainsAny(text, `/\`) && strings.HasSuffix(strings.ToLower(text), ".zip") {
		return text
	}
	name := path.Base(urlPath)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
