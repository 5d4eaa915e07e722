package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/claude/repscope/internal/hevy"
)

func catalogSource() *fakeSource {
	return &fakeSource{
		templates: []hevy.ExerciseTemplate{
			{ID: "t1", Title: "Squat (Barbell)"},
			{ID: "t2", Title: "Front Squat"},
			{ID: "t3", Title: "Bench Press (Barbell)"},
			{ID: "t4", Title: "Deadlift (Barbell)"},
		},
	}
}

// TestSearchEmptyQuery verifies an empty query returns the full catalog in
// catalog order.
func TestSearchEmptyQuery(t *testing.T) {
	svc := newTestService(catalogSource())
	templates, err := svc.SearchExercises(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 4 {
		t.Fatalf("got %d templates, want 4", len(templates))
	}
	if templates[0].ID != "t1" || templates[3].ID != "t4" {
		t.Errorf("catalog order not preserved: %+v", templates)
	}
}

// TestSearchCaseInsensitive verifies substring matching ignores case and
// returns matches in catalog order.
func TestSearchCaseInsensitive(t *testing.T) {
	svc := newTestService(catalogSource())
	matches, err := svc.SearchExercises(context.Background(), "SQUAT")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "t1" {
		t.Errorf("first match = %s, want t1 (catalog order)", matches[0].ID)
	}
}

// TestSearchNoMatch verifies no match yields an empty result, not an error.
func TestSearchNoMatch(t *testing.T) {
	svc := newTestService(catalogSource())
	matches, err := svc.SearchExercises(context.Background(), "zzz-no-match")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}

// TestNameOfFallback verifies an unknown id resolves to itself.
func TestNameOfFallback(t *testing.T) {
	svc := newTestService(catalogSource())

	name, err := svc.ResolveExerciseName(context.Background(), "t3")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Bench Press (Barbell)" {
		t.Errorf("name = %q, want Bench Press (Barbell)", name)
	}

	name, err = svc.ResolveExerciseName(context.Background(), "unknown-id")
	if err != nil {
		t.Fatal(err)
	}
	if name != "unknown-id" {
		t.Errorf("fallback name = %q, want unknown-id", name)
	}
}

// TestCacheLoadsOnce verifies the catalog is paged exhaustively on first
// use and never refetched afterwards.
func TestCacheLoadsOnce(t *testing.T) {
	ds := &fakeSource{}
	for i := range 250 {
		ds.templates = append(ds.templates, hevy.ExerciseTemplate{
			ID:    fmt.Sprintf("t%d", i),
			Title: fmt.Sprintf("Exercise %d", i),
		})
	}
	svc := newTestService(ds)

	templates, err := svc.SearchExercises(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 250 {
		t.Fatalf("got %d templates, want 250", len(templates))
	}
	// 250 entries at 100 per page: two full pages plus the short third.
	if ds.templateCalls != 3 {
		t.Errorf("template page calls = %d, want 3", ds.templateCalls)
	}

	if _, err := svc.SearchExercises(context.Background(), "Exercise 7"); err != nil {
		t.Fatal(err)
	}
	if ds.templateCalls != 3 {
		t.Errorf("template page calls after second search = %d, want 3 (cached)", ds.templateCalls)
	}
}

// TestCacheLoadFailureRetries verifies a failed load leaves the cache
// empty so the next call fetches again.
func TestCacheLoadFailureRetries(t *testing.T) {
	ds := catalogSource()
	ds.templatesErr = errors.New("boom")
	svc := newTestService(ds)

	if _, err := svc.SearchExercises(context.Background(), ""); err == nil {
		t.Fatal("expected error while source is failing")
	}

	ds.templatesErr = nil
	templates, err := svc.SearchExercises(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 4 {
		t.Errorf("got %d templates after retry, want 4", len(templates))
	}
}

// TestSnapshotUsedWhenFresh verifies a fresh snapshot satisfies the load
// without any remote fetch.
func TestSnapshotUsedWhenFresh(t *testing.T) {
	ds := &fakeSource{}
	snap := &fakeSnapshot{templates: catalogSource().templates}
	svc := NewService(ds, snap, 0, testLogger())

	templates, err := svc.SearchExercises(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 4 {
		t.Fatalf("got %d templates, want 4", len(templates))
	}
	if ds.templateCalls != 0 {
		t.Errorf("remote template calls = %d, want 0 (snapshot hit)", ds.templateCalls)
	}
}

// TestSnapshotSavedAfterRemoteLoad verifies a remote load persists the
// catalog, and a snapshot failure only degrades to a remote fetch.
func TestSnapshotSavedAfterRemoteLoad(t *testing.T) {
	ds := catalogSource()
	snap := &fakeSnapshot{loadErr: errors.New("disk trouble")}
	svc := NewService(ds, snap, 0, testLogger())

	if _, err := svc.SearchExercises(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if ds.templateCalls == 0 {
		t.Error("expected remote fetch when snapshot load fails")
	}
	if len(snap.saved) != 1 || len(snap.saved[0]) != 4 {
		t.Errorf("saved snapshots = %+v, want one save of 4 templates", snap.saved)
	}
}
