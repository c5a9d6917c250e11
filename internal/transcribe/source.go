// Package transcribe turns extracted audio into timed text segments. Three
// source variants exist in a fixed quality order: a local speech model, a
// remote engine, and a manual fallback that only signals unavailability.
// Orchestration over the variants lives in the orchestrator package.
package transcribe

import (
	"context"

	"cuecraft/internal/timecode"
)

// Variant names a transcript source implementation.
type Variant string

const (
	VariantPrimaryModel    Variant = "primary-model"
	VariantSecondaryEngine Variant = "secondary-engine"
	VariantManualFallback  Variant = "manual-fallback"
)

// Segment is one contiguous stretch of transcribed speech.
type Segment struct {
	Text       string
	Start      timecode.TimeCode
	End        timecode.TimeCode
	Confidence float64
}

// Source produces segments from an audio file. Implementations report
// failure through the shared error markers: unavailable means the dependency
// itself is missing and the caller should move on, extraction means the
// dependency exists but this attempt failed, timeout means the deadline hit.
// A Source never returns partial garbage alongside an error.
type Source interface {
	Variant() Variant
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}
