package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"cuecraft/internal/caption"
	"cuecraft/internal/fileutil"
	"cuecraft/internal/services"
)

// Format identifies a supported on-disk caption format.
type Format string

const (
	// FormatVTT is WebVTT: dot millisecond separator, STYLE blocks supported.
	FormatVTT Format = "vtt"
	// FormatSRT is SubRip: comma millisecond separator, no styling.
	FormatSRT Format = "srt"
	// FormatSBV is YouTube SBV: single timing line, no styling.
	FormatSBV Format = "sbv"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "srt", "subrip":
		return FormatSRT, nil
	case "sbv":
		return FormatSBV, nil
	default:
		return "", services.Wrap(services.ErrUnsupportedFeature, "export", "parse-format",
			fmt.Sprintf("unknown format %q", value), nil)
	}
}

// FormatForPath infers the target format from a destination file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", services.Wrap(services.ErrUnsupportedFeature, "export", "infer-format",
			fmt.Sprintf("destination %q has no extension", path), nil)
	}
	return ParseFormat(ext)
}

// DroppedStyle records one cue whose style reference could not be carried by
// the target format.
type DroppedStyle struct {
	CueID int64
	Style string
}

// Report describes what was lost while rendering a track to a format that
// cannot represent everything the track holds. Losing styling is graceful
// degradation, never an export failure.
type Report struct {
	Format        Format
	DroppedStyles []DroppedStyle
}

// Clean reports whether the export carried the full track without loss.
func (r Report) Clean() bool { return len(r.DroppedStyles) == 0 }

// Render serializes the track to the given format. It is a pure function of
// its inputs: the same track and format always produce byte-identical output,
// and the track is never mutated.
func Render(track *caption.Track, format Format) ([]byte, Report, error) {
	report := Report{Format: format}
	switch format {
	case FormatVTT:
		return renderVTT(track), report, nil
	case FormatSRT:
		data := renderSRT(track, &report)
		return data, report, nil
	case FormatSBV:
		data := renderSBV(track, &report)
		return data, report, nil
	default:
		return nil, report, services.Wrap(services.ErrUnsupportedFeature, "export", "render",
			fmt.Sprintf("unknown format %q", format), nil)
	}
}

// Export renders the track and writes it to dest with all-or-nothing
// visibility: a failed write leaves no truncated file behind. Write-side
// errors are surfaced wrapped as IO failures with the underlying cause
// intact.
func Export(track *caption.Track, format Format, dest string) (Report, error) {
	data, report, err := Render(track, format)
	if err != nil {
		return report, err
	}
	if err := fileutil.WriteFileAtomic(dest, data, 0o644); err != nil {
		return report, services.Wrap(services.ErrIO, "export", "write", dest, err)
	}
	return report, nil
}
