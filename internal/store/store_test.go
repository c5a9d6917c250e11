package store_test

import (
	"context"
	"errors"
	"testing"

	"cuecraft/internal/store"
	"cuecraft/internal/testsupport"
)

func TestCreateAndGetRun(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "/media/talk.mp4")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if run.ID == "" || run.Status != store.StatusPending {
		t.Fatalf("new run = %+v", run)
	}

	loaded, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if loaded.SourcePath != "/media/talk.mp4" || loaded.Status != store.StatusPending {
		t.Fatalf("loaded run = %+v", loaded)
	}
}

func TestGetRunMissing(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := st.GetRun(context.Background(), "no-such-run"); !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestUpdateRunPersistsLifecycle(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "/media/talk.mp4")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	run.Status = store.StatusCompleted
	run.Variant = "primary-model"
	run.SegmentCount = 17
	run.DurationSeconds = 92.5
	run.DurationEstimated = true
	if err := st.UpdateRun(ctx, run); err != nil {
		t.Fatalf("update run: %v", err)
	}

	loaded, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if loaded.Status != store.StatusCompleted || loaded.Variant != "primary-model" {
		t.Fatalf("loaded run = %+v", loaded)
	}
	if loaded.SegmentCount != 17 || loaded.DurationSeconds != 92.5 || !loaded.DurationEstimated {
		t.Fatalf("loaded run metrics = %+v", loaded)
	}
	if !loaded.Status.Terminal() {
		t.Fatal("completed status should be terminal")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, source := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		if _, err := st.CreateRun(ctx, source); err != nil {
			t.Fatalf("create run: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}

	all, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list all runs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
}

func TestRecordAndListAttempts(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "/media/talk.mp4")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	steps := []struct {
		variant string
		attempt int
		outcome string
	}{
		{"primary-model", 1, "unavailable"},
		{"secondary-engine", 1, "extraction-error"},
		{"secondary-engine", 2, "completed"},
	}
	for _, step := range steps {
		if err := st.RecordAttempt(ctx, run.ID, step.variant, step.attempt, step.outcome, ""); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	attempts, err := st.ListAttempts(ctx, run.ID)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("len = %d, want 3", len(attempts))
	}
	if attempts[1].Variant != "secondary-engine" || attempts[1].Outcome != "extraction-error" {
		t.Fatalf("second attempt = %+v", attempts[1])
	}
	if attempts[2].Attempt != 2 || attempts[2].Outcome != "completed" {
		t.Fatalf("third attempt = %+v", attempts[2])
	}
}
