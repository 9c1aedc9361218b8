package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davrv/domprobe/probe"
)

func TestEval(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                 string
		src                  string
		wantKey              string
		wantValue            interface{}
		expectErrorSubstring string
	}{
		{
			name:      "plain JSON takes the fast path",
			src:       `{"buildId": "abc123", "ok": true}`,
			wantKey:   "buildId",
			wantValue: "abc123",
		},
		{
			name:      "JS object literal",
			src:       `{count: 3}`,
			wantKey:   "count",
			wantValue: int64(3),
		},
		{
			name:      "self assignment form",
			src:       `self.__APP_STATE__ = {user: {name: "ada"}};`,
			wantKey:   "user",
			wantValue: map[string]interface{}{"name": "ada"},
		},
		{
			name:      "window assignment form",
			src:       `window.__BOOTSTRAP__ = {env: "test"}`,
			wantKey:   "env",
			wantValue: "test",
		},
		{
			name:                 "empty body",
			src:                  "   \n\t",
			expectErrorSubstring: "empty script body",
		},
		{
			name:                 "non-object result",
			src:                  `42`,
			expectErrorSubstring: "did not yield an object",
		},
		{
			name:                 "broken script",
			src:                  `self.x = {unterminated`,
			expectErrorSubstring: "script evaluation failed",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			obj, err := Eval(tc.src)

			if tc.expectErrorSubstring != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.expectErrorSubstring)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantValue, obj[tc.wantKey])
		})
	}
}

func TestFromNodeSet(t *testing.T) {
	t.Parallel()

	page := `<html><head>
<script id="boot">{"flag": true, "version": "2.1"}</script>
<script id="junk">console.log("noise");</script>
</head><body></body></html>`

	doc, err := probe.New(strings.NewReader(page), nil)
	require.NoError(t, err)

	t.Run("extracts from a matched script", func(t *testing.T) {
		t.Parallel()

		obj, err := FromNodeSet(doc.Find("script#boot"))
		require.NoError(t, err)
		require.Equal(t, true, obj["flag"])
		require.Equal(t, "2.1", obj["version"])
	})

	t.Run("first usable script wins", func(t *testing.T) {
		t.Parallel()

		obj, err := FromNodeSet(doc.Find("script"))
		require.NoError(t, err)
		require.Equal(t, true, obj["flag"])
	})

	t.Run("no matches is an error", func(t *testing.T) {
		t.Parallel()

		_, err := FromNodeSet(doc.Find("script#missing"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "no script elements matched")
	})

	t.Run("no usable body is an error", func(t *testing.T) {
		t.Parallel()

		_, err := FromNodeSet(doc.Find("script#junk"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "script bodies")
	})
}
