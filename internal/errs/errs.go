// Package errs defines the error shape returned to intake clients.
//
// Every failure, whatever its origin (malformed body, remote validation
// errors, remote outage, partial completion), is rendered from HTTPError so
// the form front-end can rely on one JSON contract:
//
//	{"success": false, "code": "...", "message": "...", "errors": [...]}
package errs
