// Package display formats command output.
package display

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// MarshalJSON marshals v pretty-printed, or on one line when compact is set.
func MarshalJSON(v interface{}, compact bool) ([]byte, error) {
	if compact {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// OutputJSON writes v to w followed by a newline.
func OutputJSON(w io.Writer, v interface{}, compact bool) error {
	data, err := MarshalJSON(v, compact)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
