// Package tts defines the speech synthesis engine contract and the Piper
// subprocess implementation. Engines are explicit resources with an
// idempotent Acquire and a Release invoked on pipeline teardown.
package tts
