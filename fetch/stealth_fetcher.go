package fetch

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Danny-Dasilva/CycleTLS/cycletls"
)

// browserProfile pairs a JA3 fingerprint with a matching User-Agent.
type browserProfile struct {
	ja3       string
	userAgent string
}

// stealthProfiles is the fallback order for probing sites that reject the
// default Go TLS handshake.
var stealthProfiles = []browserProfile{
	{
		// Safari on macOS
		ja3:       "772,4865-4866-4867-49196-49195-52393-49200-49199-52392-49162-49161-49172-49171-157-156-53-47-49160-49170-10,0-23-65281-10-11-16-5-13-18-51-45-43-27,29-23-24-25,0",
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.4 Safari/605.1.15",
	},
	{
		// Firefox on Linux
		ja3:       "771,4865-4867-4866-49195-49199-52393-52392-49196-49200-49162-49161-49171-49172-51-57-47-53-10,0-23-65281-10-11-35-16-5-51-43-13-45-28-21,29-23-24-25-256-257,0",
		userAgent: "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:87.0) Gecko/20100101 Firefox/87.0",
	},
}

// StealthFetcher implements Fetcher using cycleTLS with browser TLS
// fingerprints. It is meant for probing live sites fronted by anti-bot
// layers; for test servers ClientFetcher is the better choice.
type StealthFetcher struct {
	client   cycletls.CycleTLS
	profiles []browserProfile
}

// NewStealthFetcher creates a StealthFetcher with the default profile list.
func NewStealthFetcher() *StealthFetcher {
	return &StealthFetcher{
		client:   cycletls.Init(),
		profiles: stealthProfiles,
	}
}

// isHandshakeFailure reports whether a zero-status cycleTLS response is a
// TLS negotiation failure worth retrying with the next profile.
func isHandshakeFailure(resp cycletls.Response) bool {
	return resp.Status == 0 &&
		(strings.Contains(resp.Body, "tls: protocol version not supported") ||
			strings.Contains(resp.Body, "HANDSHAKE_FAILURE"))
}

// Fetch retrieves targetURL, trying each browser profile in order until one
// succeeds or the list is exhausted. It returns the body, the final URL
// after redirects, and an error if every profile failed or the last
// response had a non-200 status.
func (f *StealthFetcher) Fetch(targetURL string) (io.ReadCloser, string, error) {
	var lastResp cycletls.Response
	var lastErr error
	ok := false

	for i, profile := range f.profiles {
		resp, err := f.client.Do(targetURL, cycletls.Options{
			Ja3:       profile.ja3,
			UserAgent: profile.userAgent,
			Headers:   map[string]string{},
		}, "GET")

		lastResp = resp
		lastErr = err

		switch {
		case err != nil:
			log.Printf("stealth_fetcher: profile #%d failed for %s: %v", i+1, targetURL, err)
		case isHandshakeFailure(resp):
			log.Printf("stealth_fetcher: profile #%d failed for %s: TLS handshake rejected", i+1, targetURL)
		case resp.Status == http.StatusForbidden:
			log.Printf("stealth_fetcher: profile #%d got 403 Forbidden for %s, trying next", i+1, targetURL)
		default:
			ok = true
		}
		if ok {
			break
		}
	}

	finalURL := lastResp.FinalUrl
	if finalURL == "" {
		finalURL = targetURL
	}

	if !ok {
		if lastErr != nil {
			return nil, finalURL, fmt.Errorf("fetch: all TLS profiles failed for %s: %w", targetURL, lastErr)
		}
		return nil, finalURL, fmt.Errorf("fetch: all TLS profiles failed for %s (last status %d)", targetURL, lastResp.Status)
	}

	if lastResp.Status == 0 {
		return nil, finalURL, fmt.Errorf("fetch: cycleTLS returned status 0 for %s", finalURL)
	}
	if lastResp.Status != http.StatusOK {
		return nil, finalURL, fmt.Errorf("fetch: bad status code fetching %s (final URL: %s): %d", targetURL, finalURL, lastResp.Status)
	}

	return io.NopCloser(strings.NewReader(lastResp.Body)), finalURL, nil
}

// Capabilities implements the Fetcher interface. cycleTLS mimics browser
// TLS but does not carry cookies between requests.
func (f *StealthFetcher) Capabilities() FetcherCapabilities {
	return FetcherCapabilities{
		MimicsBrowserTLS: true,
	}
}
