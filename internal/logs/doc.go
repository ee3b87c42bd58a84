// Package logs reads daemon log files for the CLI and the status API.
// The daemon writes one timestamped log per run and keeps a stable symlink
// to the active one; this package tails either without holding the file
// open between reads.
package logs
