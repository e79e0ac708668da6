// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration:
// the listen port, the optional API key and the request body limit that
// bounds single-request uploads. StatusFor and SendError translate storage
// errors into HTTP responses for every feature handler.
package server
