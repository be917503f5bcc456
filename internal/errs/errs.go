// Package errs defines the application's HTTP error type and its constructors.
//
// Every failure that reaches a client is an *HTTPError: it carries the HTTP
// status, a machine-friendly code used in logs, and a generic human message.
// The underlying cause (driver error, etc.) travels along for logging only
// and is never rendered into the response.
package errs
