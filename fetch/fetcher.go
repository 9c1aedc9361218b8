package fetch

import (
	"io"
)

// FetcherCapabilities describes the optional abilities of a Fetcher
// implementation.
type FetcherCapabilities struct {
	MimicsBrowserTLS bool // the fetcher presents a browser TLS fingerprint
	KeepsCookies     bool // the fetcher carries cookies across requests
}

// Fetcher is the navigation collaborator: a synchronous, blocking GET.
// Implementations handle redirects themselves and report the final URL
// reached. No timeout or retry policy is imposed here.
type Fetcher interface {
	// Fetch retrieves the content at targetURL. It returns the body as an
	// io.ReadCloser, the final URL after any redirects, and an error if the
	// fetch failed. The caller is responsible for closing the body.
	Fetch(targetURL string) (content io.ReadCloser, finalURL string, err error)

	// Capabilities returns a description of the fetcher's optional abilities.
	Capabilities() FetcherCapabilities
}
