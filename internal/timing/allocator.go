// Package timing expands transcribed text spans into word-level cues.
package timing

import (
	"strings"

	"cuecraft/internal/caption"
	"cuecraft/internal/services"
	"cuecraft/internal/timecode"
)

// DefaultChunkWords is the number of words per cue when callers do not ask
// for larger groups.
const DefaultChunkWords = 1

// Allocate splits text across [start, end) into cues of chunkWords words
// each; the last cue may hold fewer. Timing is a uniform share per word:
// total duration divided by word count, in integer milliseconds. This is a
// deliberate approximation — no acoustic alignment is attempted, so every
// word in a segment gets the same duration regardless of how it was spoken.
//
// The first cue starts exactly at start and the last cue ends exactly at
// end; intermediate boundaries are clamped so rounding drift never pushes a
// cue past the segment. Identical inputs always produce identical output.
// Spans too short to give every word a whole millisecond collapse to a
// single cue covering the interval.
func Allocate(text string, start, end timecode.TimeCode, chunkWords int) ([]caption.Cue, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, services.Wrap(services.ErrInvalidInterval, "timing", "allocate", "text span has no words", nil)
	}
	if end <= start {
		return nil, services.Wrap(services.ErrInvalidInterval, "timing", "allocate",
			"segment end "+end.String()+" not after start "+start.String(), nil)
	}
	if chunkWords < 1 {
		chunkWords = DefaultChunkWords
	}

	totalMillis := end.Milliseconds() - start.Milliseconds()
	perWordMillis := totalMillis / int64(len(words))
	if perWordMillis == 0 {
		// Fewer milliseconds than words: any split would produce zero-length
		// cues, so the whole span becomes one cue.
		return []caption.Cue{{Start: start, End: end, Text: strings.Join(words, " ")}}, nil
	}

	cues := make([]caption.Cue, 0, (len(words)+chunkWords-1)/chunkWords)
	for i := 0; i < len(words); i += chunkWords {
		chunkStart := start.AddMilliseconds(int64(i) * perWordMillis)
		last := i+chunkWords >= len(words)

		var chunkEnd timecode.TimeCode
		if last {
			chunkEnd = end
		} else {
			chunkEnd = chunkStart.AddMilliseconds(int64(chunkWords) * perWordMillis)
			if chunkEnd > end {
				chunkEnd = end
			}
		}

		cues = append(cues, caption.Cue{
			Start: chunkStart,
			End:   chunkEnd,
			Text:  strings.Join(words[i:min(i+chunkWords, len(words))], " "),
		})
	}
	return cues, nil
}
