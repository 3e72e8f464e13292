// Package server holds the HTTP server configuration.
//
// The start command serves the table sync API with these settings; this
// package only defines the listen port, the optional API key, and timeouts.
package server
