package script

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"shortform/internal/timeline"
)

// Source supplies the script a job works from. Callers either hand the
// pipeline a pre-segmented script or point it at raw text to be segmented;
// both are Sources, so the orchestration code does not care which.
type Source interface {
	Script(ctx context.Context) (timeline.Script, error)
}

// Static wraps an already-built script.
type Static struct {
	Doc timeline.Script
}

func (s Static) Script(context.Context) (timeline.Script, error) {
	return s.Doc, nil
}

// FromInput segments raw text on demand.
type FromInput struct {
	Input     Input
	Segmenter *Segmenter
}

func (f FromInput) Script(context.Context) (timeline.Script, error) {
	segmenter := f.Segmenter
	if segmenter == nil {
		segmenter = NewSegmenter(0, 0)
	}
	return segmenter.Segment(f.Input), nil
}

// FromFile loads a script document from a JSON file.
type FromFile struct {
	Path string
}

func (f FromFile) Script(context.Context) (timeline.Script, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return timeline.Script{}, fmt.Errorf("read script: %w", err)
	}
	var doc scriptDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return timeline.Script{}, fmt.Errorf("parse script %s: %w", f.Path, err)
	}
	if len(doc.Segments) > 0 {
		return timeline.Script{Title: doc.Title, Segments: doc.Segments, Tags: doc.Tags}, nil
	}
	segmenter := NewSegmenter(0, 0)
	return segmenter.Segment(Input{
		Title:          doc.Title,
		Hook:           doc.Hook,
		Body:           doc.Body,
		CTA:            doc.CTA,
		Tags:           doc.Tags,
		TargetDuration: doc.TargetDuration,
	}), nil
}

// FromJSON parses a script document held in memory, typically the raw
// script stored on a queue job.
type FromJSON struct {
	Data      []byte
	Segmenter *Segmenter
}

func (f FromJSON) Script(context.Context) (timeline.Script, error) {
	var doc scriptDocument
	if err := json.Unmarshal(f.Data, &doc); err != nil {
		return timeline.Script{}, fmt.Errorf("parse script: %w", err)
	}
	if len(doc.Segments) > 0 {
		return timeline.Script{Title: doc.Title, Segments: doc.Segments, Tags: doc.Tags}, nil
	}
	segmenter := f.Segmenter
	if segmenter == nil {
		segmenter = NewSegmenter(0, 0)
	}
	return segmenter.Segment(Input{
		Title:          doc.Title,
		Hook:           doc.Hook,
		Body:           doc.Body,
		CTA:            doc.CTA,
		Tags:           doc.Tags,
		TargetDuration: doc.TargetDuration,
	}), nil
}

// scriptDocument accepts either pre-segmented scripts or hook/body/cta text.
type scriptDocument struct {
	Title    string                 `json:"title"`
	Hook     string                 `json:"hook,omitempty"`
	Body     string                 `json:"body,omitempty"`
	CTA      string                 `json:"cta,omitempty"`
	Tags     []string               `json:"tags,omitempty"`
	Segments []timeline.SegmentSpec `json:"segments,omitempty"`
	// TargetDuration is the desired spoken length in seconds for scripts
	// that still need chunking.
	TargetDuration float64 `json:"targetDuration,omitempty"`
}
