package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/palemoky/songbook-catalog/internal/classifier"
)

// Selectors of the product detail listing
const (
	selDeclaredTracks = `span[itemprop="numTracks"]`
	selName           = `span[itemprop="name"]`
	selTrackRow       = `tr[itemprop="track"]`
	selTrackTitle     = `.main a span[itemprop="name"]`
	selPerformer      = `a[itemprop="byArtist"]`
	selMainBlock      = `.main`
	selSubBlock       = `.sub`
)

// Page is the parsed content of one listing page
type Page struct {
	DeclaredTracks int
	BookName       string
	Tracks         []classifier.Track
}

// ParsePage extracts the book name, the declared track total and the typed
// track records of one listing page.
func ParsePage(body string, splitter classifier.Splitter) (*Page, error) {
	raws, page, err := parseRaw(body)
	if err != nil {
		return nil, err
	}

	page.Tracks = make([]classifier.Track, 0, len(raws))
	for _, raw := range raws {
		page.Tracks = append(page.Tracks, splitter.Build(raw))
	}
	return page, nil
}

// ParseRawTracks returns the unclassified text of each track row
func ParseRawTracks(body string) ([]classifier.RawTrack, error) {
	raws, _, err := parseRaw(body)
	return raws, err
}

func parseRaw(body string) ([]classifier.RawTrack, *Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse listing page: %w", err)
	}

	page := &Page{
		DeclaredTracks: declaredTracks(doc),
		BookName:       classifier.TrimAllWhitespace(doc.Find(selName).First().Text()),
	}

	var raws []classifier.RawTrack
	doc.Find(selTrackRow).Each(func(_ int, row *goquery.Selection) {
		title := row.Find(selTrackTitle).First()
		if title.Length() == 0 {
			return
		}

		performer := classifier.None
		if a := row.Find(selPerformer).First(); a.Length() > 0 {
			performer = strings.TrimSpace(a.Text())
		}

		raws = append(raws, classifier.RawTrack{
			Title:         strings.TrimSpace(title.Text()),
			Performer:     performer,
			MainFragments: strippedStrings(row.Find(selMainBlock).First()),
			SubFragments:  strippedStrings(row.Find(selSubBlock).First()),
		})
	})

	return raws, page, nil
}

func declaredTracks(doc *goquery.Document) int {
	n, err := strconv.Atoi(strings.TrimSpace(doc.Find(selDeclaredTracks).First().Text()))
	if err != nil {
		return 0
	}
	return n
}

// strippedStrings returns every non-empty text node under the selection in
// document order, each trimmed of surrounding whitespace.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				out = append(out, text)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}
