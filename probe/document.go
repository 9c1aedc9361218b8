package probe

import (
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/davrv/domprobe/fetch"
)

// Document wraps one parsed HTML page together with the collaborators every
// query needs: the fetcher used by Follow and the sink assertion failures
// are reported to. Each call to Find produces a fresh, independent NodeSet.
type Document struct {
	doc     *goquery.Document
	base    *url.URL
	fetcher fetch.Fetcher
	t       TestingT
}

// New parses an HTML document from r. The sink may be nil for documents
// that are only queried, never asserted against; Follow is unavailable
// until a fetcher is attached with UseFetcher.
func New(r io.Reader, t TestingT) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("probe: failed to parse HTML: %w", err)
	}
	return &Document{doc: doc, t: t}, nil
}

// NewWithBase is New with a base URL that relative hrefs are resolved
// against during Follow.
func NewWithBase(r io.Reader, t TestingT, baseURL string) (*Document, error) {
	d, err := New(r, t)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("probe: invalid base URL %q: %w", baseURL, err)
	}
	d.base = base
	return d, nil
}

// Open fetches targetURL through f and parses the response body. The final
// URL after redirects becomes the document base, so subsequent Follow calls
// resolve relative hrefs against the page actually reached.
func Open(f fetch.Fetcher, t TestingT, targetURL string) (*Document, error) {
	body, finalURL, err := f.Fetch(targetURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	d, err := New(body, t)
	if err != nil {
		return nil, fmt.Errorf("probe: failed to parse %s: %w", finalURL, err)
	}
	d.fetcher = f
	if base, parseErr := url.Parse(finalURL); parseErr == nil {
		d.base = base
	}
	return d, nil
}

// UseFetcher attaches the fetcher Follow navigates with and returns the
// document for chaining.
func (d *Document) UseFetcher(f fetch.Fetcher) *Document {
	d.fetcher = f
	return d
}

// BaseURL returns the URL relative hrefs are resolved against, or the empty
// string when none is set.
func (d *Document) BaseURL() string {
	if d.base == nil {
		return ""
	}
	return d.base.String()
}

// Find runs a CSS selector against the document and returns a fresh NodeSet
// over the matches, in document order.
func (d *Document) Find(selector string) *NodeSet {
	return newNodeSet(d, selector, selectionQuery{sel: d.doc.Find(selector)})
}

// open navigates to href, resolving it against the document base.
func (d *Document) open(href string) (*Document, error) {
	if d.fetcher == nil {
		return nil, fmt.Errorf("probe: no fetcher attached, cannot navigate to %q", href)
	}
	target := href
	if d.base != nil {
		ref, err := url.Parse(href)
		if err != nil {
			return nil, fmt.Errorf("probe: invalid href %q: %w", href, err)
		}
		target = d.base.ResolveReference(ref).String()
	}
	return Open(d.fetcher, d.t, target)
}
