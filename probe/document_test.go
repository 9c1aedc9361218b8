package probe

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davrv/domprobe/fetch"
)

func TestFindReturnsAFreshSetPerQuery(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<ul><li>A</li><li>B</li></ul>`, nil)

	first := doc.Find("li")
	second := doc.Find("li")

	require.NotSame(t, first, second)
	require.Equal(t, first.Text().Interface(), second.Text().Interface())
}

func TestNewWithBase(t *testing.T) {
	t.Parallel()

	doc, err := NewWithBase(strings.NewReader(`<p>hi</p>`), nil, "http://example.com/app/")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/app/", doc.BaseURL())

	_, err = NewWithBase(strings.NewReader(`<p>hi</p>`), nil, "://not-a-url")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid base URL")
}

func TestFollowResolvesRelativeHrefs(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/section/next", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h1>Next page</h1>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	// The document was not fetched, so the base URL stands in for the page
	// the markup came from.
	doc, err := NewWithBase(strings.NewReader(`<a id="n" href="next">Next</a>`), nil, server.URL+"/section/")
	require.NoError(t, err)
	doc.UseFetcher(fetch.NewClientFetcher())

	next, err := doc.Find("a#n").Follow()
	require.NoError(t, err)
	require.Equal(t, "Next page", next.Find("h1").Text().Interface())
	require.Equal(t, server.URL+"/section/next", next.BaseURL())
}

func TestOpenSetsBaseToFinalURL(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landed", http.StatusFound)
	})
	mux.HandleFunc("/landed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h1>Landed</h1>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc, err := Open(fetch.NewClientFetcher(), t, server.URL+"/start")
	require.NoError(t, err)
	require.Equal(t, server.URL+"/landed", doc.BaseURL())
	require.Equal(t, "Landed", doc.Find("h1").Text().Interface())
}
