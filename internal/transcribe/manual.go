package transcribe

import (
	"context"

	"cuecraft/internal/services"
)

// ManualSource is the terminal fallback. It never transcribes anything: it
// reports unavailability so the run ends cleanly and the caller knows the
// transcript must be entered by hand. Returning an explicit signal instead of
// empty segments keeps "no transcript" distinguishable from "empty speech".
type ManualSource struct{}

// NewManualSource creates the manual fallback source.
func NewManualSource() *ManualSource { return &ManualSource{} }

// Variant identifies this source as the manual fallback.
func (s *ManualSource) Variant() Variant { return VariantManualFallback }

// Transcribe always reports unavailability.
func (s *ManualSource) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	return nil, services.Wrap(services.ErrUnavailable, "manual", "transcribe",
		"automatic transcription exhausted, manual entry required", nil)
}
