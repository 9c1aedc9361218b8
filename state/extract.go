// Package state extracts application state embedded in <script> tags, such
// as the JSON or JS-literal bootstrap blobs frameworks render into pages, so
// tests can assert on server-provided state without re-querying the DOM.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/davrv/domprobe/probe"
)

// FromNodeSet extracts embedded state from the script elements in ns. Each
// element's body is tried in document order; the first one that yields an
// object wins.
func FromNodeSet(ns *probe.NodeSet) (map[string]interface{}, error) {
	if ns.Size() == 0 {
		return nil, errors.New("state: no script elements matched")
	}

	var lastErr error
	for _, body := range ns.Text().Strings() {
		obj, err := Eval(body)
		if err == nil {
			return obj, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("state: none of %d script bodies yielded an object: %w", ns.Size(), lastErr)
}

// Eval evaluates a script body that defines or assigns an object and
// returns the exported object. Plain JSON takes the fast path through
// encoding/json; anything else runs under goja with stub self and window
// globals, so assignment forms like "self.__STATE__ = {...}" work too.
func Eval(src string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, errors.New("state: empty script body")
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil && out != nil {
		return out, nil
	}

	expr := trimmed
	if i := strings.Index(expr, "="); i != -1 && !strings.HasPrefix(expr, "{") && !strings.HasPrefix(expr, "(") {
		expr = expr[i+1:]
	}
	expr = strings.TrimRight(strings.TrimSpace(expr), "; \t\n")
	expr = "(" + expr + ")"

	vm := goja.New()
	if _, err := vm.RunString("var self = {}; var window = self;"); err != nil {
		return nil, fmt.Errorf("state: failed to set up globals: %w", err)
	}

	result, err := vm.RunString(expr)
	if err != nil {
		return nil, fmt.Errorf("state: script evaluation failed: %w", err)
	}

	obj, ok := result.Export().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("state: script did not yield an object, got %T", result.Export())
	}
	return obj, nil
}
