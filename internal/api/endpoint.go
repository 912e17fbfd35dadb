// Package api defines the endpoint abstraction shared by the HTTP
// server and the CLI: each operation is registered once and exposed both
// as a route and as a cobra command that calls it over HTTP.
package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and its corresponding CLI command.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// Command returns a cobra command that calls this endpoint via HTTP.
	// getServerURL is evaluated at run time so --server can override it.
	Command(getServerURL func() string) *cobra.Command
}
