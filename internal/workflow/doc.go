// Package workflow advances queue jobs through the assembly pipeline.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// jobs into registered stage handlers (segmenter, assembler, renderer) while
// capturing progress and failure metadata. It also aggregates queue stats,
// calls stage health checks, and emits completion notifications.
//
// The pipeline is a single lane: a job moves pending -> segmented ->
// assembled -> completed, one stage at a time. Add new lifecycle stages by
// extending StageSet, updating the queue status enums, and teaching the
// manager how to transition jobs; this package is the authoritative home for
// that coordination logic.
package workflow
