package caption_test

import (
	"errors"
	"testing"

	"cuecraft/internal/caption"
	"cuecraft/internal/services"
	"cuecraft/internal/timecode"
)

func ms(v int64) timecode.TimeCode { return timecode.FromMilliseconds(v) }

func TestInsertKeepsAscendingStartOrder(t *testing.T) {
	track := caption.NewTrack()
	starts := []int64{4000, 1000, 3000, 2000, 0}
	for _, start := range starts {
		if _, err := track.Insert(caption.Cue{Start: ms(start), End: ms(start + 500), Text: "x"}); err != nil {
			t.Fatalf("Insert(%d): %v", start, err)
		}
	}

	cues := track.Cues()
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].Start {
			t.Fatalf("cues out of order at %d: %v then %v", i, cues[i-1].Start, cues[i].Start)
		}
	}
}

func TestInsertDuplicateStartsAreStable(t *testing.T) {
	track := caption.NewTrack()
	for _, text := range []string{"first", "second", "third"} {
		if _, err := track.Insert(caption.Cue{Start: ms(1000), End: ms(2000), Text: text}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	cues := track.Cues()
	want := []string{"first", "second", "third"}
	for i, cue := range cues {
		if cue.Text != want[i] {
			t.Fatalf("position %d = %q, want %q (stable tie order)", i, cue.Text, want[i])
		}
	}
}

func TestInsertRejectsZeroLength(t *testing.T) {
	track := caption.NewTrack()
	_, err := track.Insert(caption.Cue{Start: ms(1000), End: ms(1000), Text: "x"})
	if err == nil {
		t.Fatal("expected zero-length cue rejection")
	}
	if !errors.Is(err, services.ErrInvalidInterval) {
		t.Fatalf("unexpected error class: %v", err)
	}
	if track.Len() != 0 {
		t.Fatalf("rejected insert mutated track: %d cues", track.Len())
	}
}

func TestRemoveAndUpdate(t *testing.T) {
	track := caption.NewTrack()
	id1, _ := track.Insert(caption.Cue{Start: ms(0), End: ms(1000), Text: "one"})
	id2, _ := track.Insert(caption.Cue{Start: ms(1000), End: ms(2000), Text: "two"})

	if err := track.Remove(id1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if track.Len() != 1 {
		t.Fatalf("expected 1 cue after remove, got %d", track.Len())
	}
	if err := track.Remove(id1); err == nil {
		t.Fatal("removing a missing cue should fail")
	}

	text := "updated"
	if err := track.Update(id2, caption.CueUpdate{Text: &text}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := track.Cues()[0].Text; got != "updated" {
		t.Fatalf("text = %q", got)
	}

	// Retiming re-places the cue and keeps ordering.
	id3, _ := track.Insert(caption.Cue{Start: ms(5000), End: ms(6000), Text: "three"})
	newStart := ms(100)
	newEnd := ms(900)
	if err := track.Update(id3, caption.CueUpdate{Start: &newStart, End: &newEnd}); err != nil {
		t.Fatalf("retime: %v", err)
	}
	if got := track.Cues()[0].Text; got != "three" {
		t.Fatalf("retimed cue not re-placed first: %q", got)
	}

	// An update that collapses the interval is rejected.
	badEnd := ms(100)
	if err := track.Update(id3, caption.CueUpdate{End: &badEnd}); !errors.Is(err, services.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestLookupStaysConsistentAfterRemoveAndRetime(t *testing.T) {
	track := caption.NewTrack()
	ids := make([]int64, 0, 5)
	for i := int64(0); i < 5; i++ {
		id, err := track.Insert(caption.Cue{Start: ms(i * 1000), End: ms(i*1000 + 500), Text: "x"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		ids = append(ids, id)
	}

	if err := track.Remove(ids[2]); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	// Move the first cue to the end of the track, then address it again at
	// its new position.
	newStart, newEnd := ms(10_000), ms(10_500)
	if err := track.Update(ids[0], caption.CueUpdate{Start: &newStart, End: &newEnd}); err != nil {
		t.Fatalf("retime: %v", err)
	}
	moved := "moved"
	if err := track.Update(ids[0], caption.CueUpdate{Text: &moved}); err != nil {
		t.Fatalf("update after retime: %v", err)
	}
	cues := track.Cues()
	if last := cues[len(cues)-1]; last.ID != ids[0] || last.Text != "moved" {
		t.Fatalf("retimed cue = %+v, want id %d at the end", last, ids[0])
	}

	for _, id := range []int64{ids[1], ids[3], ids[4], ids[0]} {
		if err := track.Remove(id); err != nil {
			t.Fatalf("Remove(%d): %v", id, err)
		}
	}
	if track.Len() != 0 {
		t.Fatalf("track not empty: %d cues", track.Len())
	}
	if err := track.Remove(ids[2]); err == nil {
		t.Fatal("removed id must no longer resolve")
	}
}

func TestStyleRegistryAndAssign(t *testing.T) {
	track := caption.NewTrack()
	if err := track.DefineStyle(caption.StyleFromPairs("highlight", "color", "#FFD700", "font-weight", "bold")); err != nil {
		t.Fatalf("DefineStyle: %v", err)
	}

	id, _ := track.Insert(caption.Cue{Start: ms(0), End: ms(1000), Text: "x"})
	if err := track.Assign(id, "highlight"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := track.Assign(id, "missing"); !errors.Is(err, services.ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}

	// Replacement is atomic: the old property set is fully gone.
	if err := track.DefineStyle(caption.StyleFromPairs("highlight", "color", "#FF0000")); err != nil {
		t.Fatalf("redefine: %v", err)
	}
	style, ok := track.Style("highlight")
	if !ok {
		t.Fatal("style missing after redefine")
	}
	if style.Len() != 1 {
		t.Fatalf("expected replacement to drop old properties, got %d", style.Len())
	}
	if v, _ := style.Get("color"); v != "#FF0000" {
		t.Fatalf("color = %q", v)
	}
}

func TestStylePropertyOrderAndLastWriteWins(t *testing.T) {
	style := caption.NewStyle("s")
	style.Set("color", "#FFFFFF")
	style.Set("font-family", "Arial")
	style.Set("color", "#000000") // overwrite keeps original position

	props := style.Properties()
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	if props[0].Name != "color" || props[0].Value != "#000000" {
		t.Fatalf("first property = %+v", props[0])
	}
	if props[1].Name != "font-family" {
		t.Fatalf("second property = %+v", props[1])
	}
}

func TestValidateFlagsWithoutMutating(t *testing.T) {
	track := caption.NewTrack()
	track.Load(caption.Cue{Start: ms(1000), End: ms(1000), Text: "zero"})
	track.Load(caption.Cue{Start: ms(2000), End: ms(3000), Text: "styled", Style: "ghost"})
	id, _ := track.Insert(caption.Cue{Start: ms(0), End: ms(500), Text: "fine"})

	violations := track.Validate()
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %+v", len(violations), violations)
	}
	kinds := map[caption.ViolationKind]bool{}
	for _, v := range violations {
		kinds[v.Kind] = true
		if v.CueID == id {
			t.Fatalf("valid cue flagged: %+v", v)
		}
	}
	if !kinds[caption.ViolationZeroLength] || !kinds[caption.ViolationUnknownStyle] {
		t.Fatalf("missing violation kinds: %+v", violations)
	}
	if track.Len() != 3 {
		t.Fatalf("Validate mutated the track: %d cues", track.Len())
	}
}
