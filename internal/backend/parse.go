package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse splits a backend identifier into scheme, simulator name and setup.
// The grammar is scheme ( "." name )? ( "=" jsonobj )?.
func Parse(id string) (scheme, name string, setup map[string]any, err error) {
	head := id
	if i := strings.Index(id, "="); i >= 0 {
		head = id[:i]
		cfg := id[i+1:]
		if err := json.Unmarshal([]byte(cfg), &setup); err != nil {
			return "", "", nil, fmt.Errorf("malformed backend configuration %q: %w", cfg, err)
		}
	}

	scheme = head
	if i := strings.Index(head, "."); i >= 0 {
		scheme = head[:i]
		name = head[i+1:]
	}
	if scheme == "" {
		return "", "", nil, fmt.Errorf("empty backend identifier")
	}
	return scheme, name, setup, nil
}
