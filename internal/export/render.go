package export

import (
	"fmt"
	"strings"

	"cuecraft/internal/caption"
)

func renderVTT(track *caption.Track) []byte {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, style := range track.Styles() {
		props := style.Properties()
		if len(props) == 0 {
			continue
		}
		b.WriteString("STYLE\n")
		fmt.Fprintf(&b, "::cue(.%s) {\n", style.Name)
		for _, prop := range props {
			fmt.Fprintf(&b, "  %s: %s;\n", prop.Name, prop.Value)
		}
		b.WriteString("}\n\n")
	}
	for i, cue := range track.Cues() {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", cue.Start.VTT(), cue.End.VTT())
		if cue.Style != "" {
			fmt.Fprintf(&b, "<c.%s>%s</c>\n\n", cue.Style, cue.Text)
		} else {
			fmt.Fprintf(&b, "%s\n\n", cue.Text)
		}
	}
	return []byte(b.String())
}

func renderSRT(track *caption.Track, report *Report) []byte {
	var b strings.Builder
	for i, cue := range track.Cues() {
		noteDropped(report, cue)
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", cue.Start.SRT(), cue.End.SRT())
		fmt.Fprintf(&b, "%s\n\n", cue.Text)
	}
	return []byte(b.String())
}

func renderSBV(track *caption.Track, report *Report) []byte {
	var b strings.Builder
	for _, cue := range track.Cues() {
		noteDropped(report, cue)
		fmt.Fprintf(&b, "%s,%s\n", cue.Start.SBV(), cue.End.SBV())
		fmt.Fprintf(&b, "%s\n\n", cue.Text)
	}
	return []byte(b.String())
}

func noteDropped(report *Report, cue caption.Cue) {
	if cue.Style == "" {
		return
	}
	report.DroppedStyles = append(report.DroppedStyles, DroppedStyle{CueID: cue.ID, Style: cue.Style})
}
