package seo

import (
	"github.com/goccy/go-json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Marshal encodes v with HTML-sensitive characters escaped, so the output is safe to embed
// in a script element. Map keys are emitted in sorted order.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
