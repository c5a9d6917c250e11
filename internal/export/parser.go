package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"cuecraft/internal/caption"
	"cuecraft/internal/services"
	"cuecraft/internal/timecode"
)

var (
	cueClassRe  = regexp.MustCompile(`^<c\.([A-Za-z0-9_-]+)>(.*)</c>$`)
	cueStyleRe  = regexp.MustCompile(`^::cue\(\.([A-Za-z0-9_-]+)\)\s*\{$`)
	stylePropRe = regexp.MustCompile(`^([A-Za-z-]+)\s*:\s*(.+?);?$`)
)

// ParseVTTFile reads a WebVTT file from disk into a track.
func ParseVTTFile(path string) (*caption.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "export", "parse-vtt", path, err)
	}
	defer f.Close()
	return ParseVTT(f)
}

// ParseVTT parses a WebVTT stream. Cue identifiers and comment blocks are
// tolerated and skipped; STYLE blocks with ::cue(.name) selectors become
// registered styles, and <c.name> wrappers become cue style references.
// Cues are loaded leniently, so a structurally invalid input parses and is
// reported through Track.Validate instead of failing here.
func ParseVTT(r io.Reader) (*caption.Track, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, services.Wrap(services.ErrStructural, "export", "parse-vtt", "empty input", nil)
	}
	header := strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "\uFEFF")
	if !strings.HasPrefix(header, "WEBVTT") {
		return nil, services.Wrap(services.ErrStructural, "export", "parse-vtt",
			fmt.Sprintf("missing WEBVTT header, got %q", header), nil)
	}

	track := caption.NewTrack()
	var pending []string
	flush := func() error {
		defer func() { pending = nil }()
		if len(pending) == 0 {
			return nil
		}
		switch {
		case pending[0] == "STYLE":
			return parseStyleBlock(track, pending[1:])
		case strings.HasPrefix(pending[0], "NOTE"):
			return nil
		default:
			return parseCueBlock(track, pending)
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		pending = append(pending, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrIO, "export", "parse-vtt", "read", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return track, nil
}

func parseStyleBlock(track *caption.Track, lines []string) error {
	var style *caption.Style
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if m := cueStyleRe.FindStringSubmatch(line); m != nil {
			s := caption.NewStyle(m[1])
			style = &s
			continue
		}
		if line == "}" {
			if style != nil {
				if err := track.DefineStyle(*style); err != nil {
					return err
				}
				style = nil
			}
			continue
		}
		if style == nil {
			continue
		}
		if m := stylePropRe.FindStringSubmatch(line); m != nil {
			style.Set(m[1], strings.TrimSuffix(m[2], ";"))
		}
	}
	return nil
}

func parseCueBlock(track *caption.Track, lines []string) error {
	timingIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timingIdx = i
			break
		}
	}
	if timingIdx < 0 || timingIdx > 1 {
		return services.Wrap(services.ErrStructural, "export", "parse-vtt",
			fmt.Sprintf("cue block without timing line: %q", lines[0]), nil)
	}
	parts := strings.SplitN(lines[timingIdx], "-->", 2)
	start, err := timecode.Parse(strings.TrimSpace(parts[0]))
	if err != nil {
		return err
	}
	endField := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endField) == 0 {
		return services.Wrap(services.ErrStructural, "export", "parse-vtt",
			fmt.Sprintf("timing line missing end: %q", lines[timingIdx]), nil)
	}
	end, err := timecode.Parse(endField[0])
	if err != nil {
		return err
	}

	text := strings.Join(lines[timingIdx+1:], "\n")
	styleName := ""
	if m := cueClassRe.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		styleName = m[1]
		text = m[2]
	}
	track.Load(caption.Cue{Start: start, End: end, Text: text, Style: styleName})
	return nil
}
