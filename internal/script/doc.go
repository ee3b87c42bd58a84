// Package script turns raw narration text into the ordered, role-tagged
// segment list the rest of the pipeline consumes. Hook and call-to-action
// are always isolated as their own segments; body text is split into chunks
// sized for a few seconds of speech each.
package script
