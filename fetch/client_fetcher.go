package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
)

// ClientFetcher implements Fetcher with net/http. It keeps a cookie jar so
// that a chain of link navigations against the same server behaves like one
// browsing session, which is what end-to-end tests expect.
type ClientFetcher struct {
	client *http.Client
}

// NewClientFetcher creates a ClientFetcher with a fresh cookie jar.
func NewClientFetcher() *ClientFetcher {
	jar, _ := cookiejar.New(nil)
	return &ClientFetcher{
		client: &http.Client{Jar: jar},
	}
}

// NewClientFetcherWithClient wraps an existing http.Client, for callers that
// need custom transports or timeouts.
func NewClientFetcherWithClient(client *http.Client) *ClientFetcher {
	return &ClientFetcher{client: client}
}

// Fetch performs a GET of targetURL, following redirects. Any status other
// than 200 OK is reported as an error together with the final URL reached.
func (f *ClientFetcher) Fetch(targetURL string) (io.ReadCloser, string, error) {
	resp, err := f.client.Get(targetURL)
	if err != nil {
		return nil, targetURL, err
	}

	finalURL := resp.Request.URL.String()
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, finalURL, fmt.Errorf("fetch: bad status code fetching %s (final URL: %s): %d", targetURL, finalURL, resp.StatusCode)
	}

	return resp.Body, finalURL, nil
}

// Capabilities implements the Fetcher interface.
func (f *ClientFetcher) Capabilities() FetcherCapabilities {
	return FetcherCapabilities{
		KeepsCookies: f.client.Jar != nil,
	}
}
