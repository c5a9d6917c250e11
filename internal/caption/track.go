package caption

import (
	"fmt"
	"sort"
	"strings"

	"cuecraft/internal/services"
	"cuecraft/internal/timecode"
)

// Cue is one timed, displayable unit of caption text. Style optionally names
// a style registered on the owning track.
type Cue struct {
	ID    int64
	Start timecode.TimeCode
	End   timecode.TimeCode
	Text  string
	Style string
}

// Duration returns the cue's display duration.
func (c Cue) Duration() timecode.TimeCode {
	if c.End <= c.Start {
		return 0
	}
	return c.End - c.Start
}

// ViolationKind classifies a structural problem found by Validate.
type ViolationKind string

const (
	// ViolationZeroLength marks cues whose end does not come after their start.
	ViolationZeroLength ViolationKind = "zero_length"
	// ViolationUnknownStyle marks cues referencing a style that is not registered.
	ViolationUnknownStyle ViolationKind = "unknown_style"
)

// Violation describes one structural problem in a track.
type Violation struct {
	CueID  int64
	Kind   ViolationKind
	Detail string
}

// Track owns an ordered sequence of cues and the styles they reference.
// Cue lookup by ID goes through an index map kept alongside the ordered
// slice. It assumes single-writer access; concurrent mutation is not
// supported.
type Track struct {
	cues       []Cue
	index      map[int64]int
	nextID     int64
	styles     map[string]Style
	styleOrder []string
}

// NewTrack creates an empty track.
func NewTrack() *Track {
	return &Track{nextID: 1, index: make(map[int64]int), styles: make(map[string]Style)}
}

// Len returns the number of cues.
func (t *Track) Len() int { return len(t.cues) }

// Cues returns the cue sequence in ascending start order, ties stable by
// insertion order. The slice is a copy; mutating it does not touch the track.
func (t *Track) Cues() []Cue {
	out := make([]Cue, len(t.cues))
	copy(out, t.cues)
	return out
}

// Insert adds a cue and returns its assigned ID. Cues must have End strictly
// after Start; zero-length cues are rejected. Style references are not
// checked here so tracks can carry forward references; Validate reports any
// left unresolved.
func (t *Track) Insert(cue Cue) (int64, error) {
	if cue.End <= cue.Start {
		return 0, services.Wrap(services.ErrInvalidInterval, "track", "insert",
			fmt.Sprintf("cue end %s not after start %s", cue.End, cue.Start), nil)
	}
	cue.ID = t.nextID
	t.nextID++

	t.place(cue)
	return cue.ID, nil
}

// Load adds a cue without interval validation. Parsers rebuilding a track
// from an external file use it so malformed cues survive the load and show up
// in Validate instead of being silently dropped.
func (t *Track) Load(cue Cue) int64 {
	cue.ID = t.nextID
	t.nextID++

	t.place(cue)
	return cue.ID
}

// place slots a cue at its ordered position and refreshes the index entries
// the shift displaced.
func (t *Track) place(cue Cue) {
	idx := t.insertionIndex(cue.Start)
	t.cues = append(t.cues, Cue{})
	copy(t.cues[idx+1:], t.cues[idx:])
	t.cues[idx] = cue
	t.reindexFrom(idx)
}

// insertionIndex returns the position after all cues with start <= the given
// start, keeping equal-start inserts stable by insertion order.
func (t *Track) insertionIndex(start timecode.TimeCode) int {
	return sort.Search(len(t.cues), func(i int) bool {
		return t.cues[i].Start > start
	})
}

// Remove deletes the cue with the given ID.
func (t *Track) Remove(id int64) error {
	idx, ok := t.locate(id)
	if !ok {
		return services.Wrap(services.ErrStructural, "track", "remove",
			fmt.Sprintf("no cue with id %d", id), nil)
	}
	t.cues = append(t.cues[:idx], t.cues[idx+1:]...)
	delete(t.index, id)
	t.reindexFrom(idx)
	return nil
}

// CueUpdate holds the fields Update may change; nil fields are left as-is.
type CueUpdate struct {
	Start *timecode.TimeCode
	End   *timecode.TimeCode
	Text  *string
	Style *string
}

// Update mutates the identified cue. Retiming re-places the cue to keep the
// track ordered; the updated interval must remain non-empty. Assigning a
// style requires the name to be registered.
func (t *Track) Update(id int64, update CueUpdate) error {
	idx, ok := t.locate(id)
	if !ok {
		return services.Wrap(services.ErrStructural, "track", "update",
			fmt.Sprintf("no cue with id %d", id), nil)
	}
	cue := t.cues[idx]

	if update.Start != nil {
		cue.Start = *update.Start
	}
	if update.End != nil {
		cue.End = *update.End
	}
	if cue.End <= cue.Start {
		return services.Wrap(services.ErrInvalidInterval, "track", "update",
			fmt.Sprintf("cue %d would become zero-length", id), nil)
	}
	if update.Text != nil {
		cue.Text = *update.Text
	}
	if update.Style != nil {
		name := strings.TrimSpace(*update.Style)
		if name != "" {
			if _, ok := t.styles[name]; !ok {
				return services.Wrap(services.ErrUnknownStyle, "track", "update",
					fmt.Sprintf("style %q is not defined", name), nil)
			}
		}
		cue.Style = name
	}

	if update.Start != nil && cue.Start != t.cues[idx].Start {
		// Retimed: remove and re-place to keep ascending-start order.
		t.cues = append(t.cues[:idx], t.cues[idx+1:]...)
		t.reindexFrom(idx)
		t.place(cue)
		return nil
	}

	t.cues[idx] = cue
	return nil
}

// DefineStyle registers or atomically replaces a style under its name.
func (t *Track) DefineStyle(style Style) error {
	name := strings.TrimSpace(style.Name)
	if name == "" {
		return services.Wrap(services.ErrUnknownStyle, "track", "define-style", "style name is empty", nil)
	}
	style.Name = name
	if _, exists := t.styles[name]; !exists {
		t.styleOrder = append(t.styleOrder, name)
	}
	t.styles[name] = style.clone()
	return nil
}

// Style returns the registered style with the given name.
func (t *Track) Style(name string) (Style, bool) {
	style, ok := t.styles[name]
	if !ok {
		return Style{}, false
	}
	return style.clone(), true
}

// Styles returns all registered styles in definition order.
func (t *Track) Styles() []Style {
	out := make([]Style, 0, len(t.styleOrder))
	for _, name := range t.styleOrder {
		out = append(out, t.styles[name].clone())
	}
	return out
}

// Assign attaches a registered style to the identified cue. Assigning an
// empty name clears the cue's style.
func (t *Track) Assign(id int64, styleName string) error {
	name := strings.TrimSpace(styleName)
	return t.Update(id, CueUpdate{Style: &name})
}

// Validate returns every structural violation in the track without mutating
// it or failing; callers decide whether violations are fatal.
func (t *Track) Validate() []Violation {
	var violations []Violation
	for _, cue := range t.cues {
		if cue.End <= cue.Start {
			violations = append(violations, Violation{
				CueID:  cue.ID,
				Kind:   ViolationZeroLength,
				Detail: fmt.Sprintf("start %s, end %s", cue.Start, cue.End),
			})
		}
		if cue.Style != "" {
			if _, ok := t.styles[cue.Style]; !ok {
				violations = append(violations, Violation{
					CueID:  cue.ID,
					Kind:   ViolationUnknownStyle,
					Detail: fmt.Sprintf("style %q is not defined", cue.Style),
				})
			}
		}
	}
	return violations
}

func (t *Track) locate(id int64) (int, bool) {
	idx, ok := t.index[id]
	return idx, ok
}

func (t *Track) reindexFrom(idx int) {
	for i := idx; i < len(t.cues); i++ {
		t.index[t.cues[i].ID] = i
	}
}
