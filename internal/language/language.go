// Package language normalizes user-supplied language identifiers to the
// two-letter codes transcription engines expect.
package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var namer = display.English.Languages()

// ToISO2 converts any recognized language identifier to ISO 639-1. It accepts
// two and three letter codes, BCP 47 tags like "pt-BR", and English language
// names like "french". Returns an empty string for unrecognized input.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if tag, err := xlanguage.Parse(code); err == nil {
		base, conf := tag.Base()
		if conf >= xlanguage.Low {
			if iso := base.String(); len(iso) == 2 {
				return iso
			}
		}
	}
	if tag, ok := byName(code); ok {
		base, _ := tag.Base()
		if iso := base.String(); len(iso) == 2 {
			return iso
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable English name for any recognized code.
// Returns "Unknown" for empty input and the uppercased code when the input
// cannot be resolved.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if tag, err := xlanguage.Parse(strings.ToLower(trimmed)); err == nil {
		if name := namer.Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// Engines WhisperX supports cover this set; name matching only needs to
// recognize what users are likely to type in a config file.
var nameable = []xlanguage.Tag{
	xlanguage.English, xlanguage.Spanish, xlanguage.French, xlanguage.German,
	xlanguage.Italian, xlanguage.Portuguese, xlanguage.Japanese, xlanguage.Korean,
	xlanguage.Chinese, xlanguage.Russian, xlanguage.Arabic, xlanguage.Hindi,
	xlanguage.Dutch, xlanguage.Polish, xlanguage.Swedish, xlanguage.Danish,
	xlanguage.Norwegian, xlanguage.Finnish,
}

func byName(name string) (xlanguage.Tag, bool) {
	for _, tag := range nameable {
		if strings.EqualFold(namer.Name(tag), name) {
			return tag, true
		}
	}
	return xlanguage.Und, false
}
