// Package validation decodes and validates request payloads.
//
// It uses the `validator` library to enforce rules defined in struct tags
// and converts validation failures into field errors the client can
// understand.
package validation
