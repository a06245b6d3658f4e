// Package utils contains small helper functions used across the project.
//
// These are generic helpers that don't belong to a specific layer:
// contact-data normalization and JSON printing for the command line.
package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintJSON pretty-prints any Go value as indented JSON to w.
//
// Used by the submit command to print the intake result.
func PrintJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshalling the JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}
