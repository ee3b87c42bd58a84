// Package api exposes the daemon's local HTTP control surface: queue
// inspection, retry and cleanup actions, and workflow status. The server
// binds to localhost by default and authenticates requests with a static
// bearer token when one is configured.
package api
