package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInterval marks timing requests whose interval or text cannot
	// produce cues (empty span, end not after start).
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrUnknownStyle marks references to style names that were never defined.
	ErrUnknownStyle = errors.New("unknown style")
	// ErrUnsupportedFeature marks track features a target format cannot carry.
	ErrUnsupportedFeature = errors.New("unsupported feature")
	// ErrIO marks write-side failures surfaced unmodified from the filesystem.
	ErrIO = errors.New("io failure")
	// ErrExtraction marks a transcription attempt that failed even though the
	// dependency behind it exists. Eligible for a single retry.
	ErrExtraction = errors.New("extraction error")
	// ErrUnavailable marks a transcript source whose dependency is absent.
	// Never retried; the orchestrator moves straight to the next variant.
	ErrUnavailable = errors.New("unavailable")
	// ErrTimeout marks a transcription attempt cut off by its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrStructural marks track validation violations.
	ErrStructural = errors.New("structural violation")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification via errors.Is. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExtraction
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether a transcription failure is eligible for one retry
// with a fresh temp resource. Unavailable and timed-out attempts are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout) {
		return false
	}
	return errors.Is(err, ErrExtraction)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
