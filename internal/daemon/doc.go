// Package daemon hosts the long-running shortform process: it owns the queue
// store, the workflow manager, and the single-instance file lock. The HTTP
// control surface lives in the api package; cmd wiring in daemonrun.
package daemon
