// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bradwindy/app-intents-mcp/lib/clock"
	"github.com/bradwindy/app-intents-mcp/lib/testutil"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// countingScanner returns a fixed action list and counts scans.
type countingScanner struct {
	mu      sync.Mutex
	actions []Action
	err     error
	scans   atomic.Int32
}

func (s *countingScanner) Scan(context.Context) ([]Action, error) {
	s.scans.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]Action(nil), s.actions...), nil
}

func (s *countingScanner) set(actions []Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = actions
}

func reminderActions() []Action {
	return []Action{
		{ID: "com.apple.reminders.Create", BundleID: "com.apple.reminders", Name: "Create Reminder", Description: "Adds a reminder", ReturnsResult: true},
		{ID: "com.apple.notes.Create", BundleID: "com.apple.notes", Name: "Create Note"},
		{ID: "com.apple.reminders.Complete", BundleID: "com.apple.reminders", Name: "Complete Task"},
		{ID: "com.example.todo.Add", BundleID: "com.example.todo", Name: "Add Item", Description: "Adds to the REMINDER inbox"},
	}
}

func newTestCatalog(scanner Scanner) (*Catalog, *clock.FakeClock) {
	fake := clock.Fake(epoch)
	return New(scanner, WithClock(fake)), fake
}

func TestRefreshDeduplicatesFirstWins(t *testing.T) {
	scanner := &countingScanner{actions: []Action{
		{ID: "a.b.Create", BundleID: "a.b", Name: "Create Reminder"},
		{ID: "a.b.Delete", BundleID: "a.b", Name: "Delete Reminder"},
		{ID: "a.b.Create", BundleID: "a.b", Name: "Shadowed"},
	}}
	cat, _ := newTestCatalog(scanner)

	actions, err := cat.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(actions))
	}
	if actions[0].ID != "a.b.Create" || actions[1].ID != "a.b.Delete" {
		t.Errorf("order not preserved: %v, %v", actions[0].ID, actions[1].ID)
	}
	got, ok := cat.Get("a.b.Create")
	if !ok || got.Name != "Create Reminder" {
		t.Errorf("Get = %+v, %v; want first occurrence", got, ok)
	}
}

func TestRefreshTTLGating(t *testing.T) {
	scanner := &countingScanner{actions: reminderActions()}
	cat, fake := newTestCatalog(scanner)
	ctx := context.Background()

	first, err := cat.Refresh(ctx, false)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	fake.Advance(4 * time.Minute)
	second, err := cat.Refresh(ctx, false)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if scanner.scans.Load() != 1 {
		t.Errorf("scans = %d within the window, want 1", scanner.scans.Load())
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached refresh returned a different snapshot")
	}

	fake.Advance(time.Minute)
	if _, err := cat.Refresh(ctx, false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if scanner.scans.Load() != 2 {
		t.Errorf("scans = %d after the window elapsed, want 2", scanner.scans.Load())
	}

	if _, err := cat.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if scanner.scans.Load() != 3 {
		t.Errorf("scans = %d after forced refresh, want 3", scanner.scans.Load())
	}
}

func TestRefreshRescansEmptyCatalog(t *testing.T) {
	scanner := &countingScanner{}
	cat, _ := newTestCatalog(scanner)
	for range 3 {
		if _, err := cat.Refresh(context.Background(), false); err != nil {
			t.Fatalf("Refresh: %v", err)
		}
	}
	if scanner.scans.Load() != 3 {
		t.Errorf("scans = %d, want an empty catalog to re-scan every time", scanner.scans.Load())
	}
}

func TestRefreshCustomStaleAfter(t *testing.T) {
	scanner := &countingScanner{actions: reminderActions()}
	fake := clock.Fake(epoch)
	cat := New(scanner, WithClock(fake), WithStaleAfter(30*time.Second))
	ctx := context.Background()

	cat.Refresh(ctx, false)
	fake.Advance(31 * time.Second)
	cat.Refresh(ctx, false)
	if scanner.scans.Load() != 2 {
		t.Errorf("scans = %d, want 2", scanner.scans.Load())
	}
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	scanner := &countingScanner{actions: reminderActions()}
	cat, _ := newTestCatalog(scanner)
	ctx := context.Background()
	if _, err := cat.Refresh(ctx, false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	failure := errors.New("permission denied")
	scanner.mu.Lock()
	scanner.err = failure
	scanner.mu.Unlock()

	if _, err := cat.Refresh(ctx, true); !errors.Is(err, failure) {
		t.Fatalf("expected scan error, got %v", err)
	}
	if len(cat.Actions()) != len(reminderActions()) {
		t.Errorf("failed refresh replaced the snapshot: %d actions", len(cat.Actions()))
	}
}

func TestRefreshWithoutScanner(t *testing.T) {
	cat := New(nil)
	if _, err := cat.Refresh(context.Background(), false); !errors.Is(err, ErrNoScanner) {
		t.Fatalf("expected ErrNoScanner, got %v", err)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	cat, _ := newTestCatalog(&countingScanner{actions: reminderActions()})
	if _, err := cat.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	upper := cat.Search("REMINDER")
	lower := cat.Search("reminder")
	if !reflect.DeepEqual(upper, lower) {
		t.Fatalf("search results differ by case: %v vs %v", upper, lower)
	}
	// Name, owner and description each match once; catalog order kept.
	wantIDs := []string{"com.apple.reminders.Create", "com.apple.reminders.Complete", "com.example.todo.Add"}
	if len(lower) != len(wantIDs) {
		t.Fatalf("got %d matches, want %d", len(lower), len(wantIDs))
	}
	for i, id := range wantIDs {
		if lower[i].ID != id {
			t.Errorf("match %d = %s, want %s", i, lower[i].ID, id)
		}
	}
	if matches := cat.Search("no such thing"); len(matches) != 0 {
		t.Errorf("unexpected matches: %v", matches)
	}
}

func TestListOwnersOrdering(t *testing.T) {
	scanner := &countingScanner{actions: []Action{
		{ID: "1", BundleID: "first.single"},
		{ID: "2", BundleID: "second.double"},
		{ID: "3", BundleID: "third.single"},
		{ID: "4", BundleID: "second.double"},
		{ID: "5", BundleID: "fourth.single"},
	}}
	cat, _ := newTestCatalog(scanner)
	if _, err := cat.Refresh(context.Background(), false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	want := []OwnerCount{
		{BundleID: "second.double", Count: 2},
		{BundleID: "first.single", Count: 1},
		{BundleID: "third.single", Count: 1},
		{BundleID: "fourth.single", Count: 1},
	}
	if got := cat.ListOwners(); !reflect.DeepEqual(got, want) {
		t.Errorf("ListOwners = %v, want %v", got, want)
	}
}

func TestForOwner(t *testing.T) {
	cat, _ := newTestCatalog(&countingScanner{actions: reminderActions()})
	cat.Refresh(context.Background(), false)

	owned := cat.ForOwner("com.apple.reminders")
	if len(owned) != 2 || owned[0].Name != "Create Reminder" || owned[1].Name != "Complete Task" {
		t.Errorf("ForOwner = %v", owned)
	}
	if len(cat.ForOwner("com.apple")) != 0 {
		t.Error("ForOwner must match the bundle ID exactly")
	}
}

func TestRevisionTracksContent(t *testing.T) {
	scanner := &countingScanner{actions: reminderActions()}
	cat, _ := newTestCatalog(scanner)
	ctx := context.Background()

	if !cat.Stats().Revision.IsZero() {
		t.Fatal("revision set before the first refresh")
	}
	cat.Refresh(ctx, true)
	first := cat.Stats().Revision
	cat.Refresh(ctx, true)
	if cat.Stats().Revision != first {
		t.Error("identical scans produced different revisions")
	}

	changed := reminderActions()
	changed[0].Description = "Adds a reminder to a list"
	scanner.set(changed)
	cat.Refresh(ctx, true)
	if cat.Stats().Revision == first {
		t.Error("changed scan kept the same revision")
	}
	if len(first.Short()) != 12 || len(first.String()) != 64 {
		t.Errorf("revision formatting: %q / %q", first.Short(), first.String())
	}
}

func TestStats(t *testing.T) {
	cat, _ := newTestCatalog(&countingScanner{actions: reminderActions()})
	cat.Refresh(context.Background(), false)
	stats := cat.Stats()
	if stats.Actions != 4 || stats.Owners != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if !stats.RefreshedAt.Equal(epoch) {
		t.Errorf("refreshed at %v, want %v", stats.RefreshedAt, epoch)
	}
}

// blockingScanner parks inside Scan until released.
type blockingScanner struct {
	entered chan struct{}
	release chan struct{}
	actions []Action
}

func (s *blockingScanner) Scan(ctx context.Context) ([]Action, error) {
	s.entered <- struct{}{}
	select {
	case <-s.release:
		return s.actions, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestReadsProceedDuringScan(t *testing.T) {
	scanner := &blockingScanner{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		actions: reminderActions(),
	}
	cat, _ := newTestCatalog(scanner)

	done := make(chan error, 1)
	go func() {
		_, err := cat.Refresh(context.Background(), true)
		done <- err
	}()
	testutil.RequireReceive(t, scanner.entered, 5*time.Second, "waiting for scan to start")

	// The scan is in progress; readers must not block on it.
	reads := make(chan int, 1)
	go func() { reads <- len(cat.Search("")) }()
	if n := testutil.RequireReceive(t, reads, 5*time.Second, "search blocked behind scan"); n != 0 {
		t.Errorf("search during first scan saw %d actions, want 0", n)
	}

	close(scanner.release)
	if err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for refresh"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(cat.Actions()) != 4 {
		t.Errorf("after refresh: %d actions", len(cat.Actions()))
	}
}

func TestConcurrentRefreshAndReadSeeWholeSnapshots(t *testing.T) {
	// Each generation has a distinct action count and every action in
	// it carries the generation in its BundleID, so a torn read shows
	// up as a mixed or miscounted result.
	var generation atomic.Int32
	scanner := ScannerFunc(func(context.Context) ([]Action, error) {
		g := int(generation.Add(1))
		actions := make([]Action, g)
		for i := range actions {
			actions[i] = Action{ID: fmt.Sprintf("gen%d.%d", g, i), BundleID: fmt.Sprintf("gen%d", g), Name: "Action"}
		}
		return actions, nil
	})
	cat := New(scanner)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 25 {
				if _, err := cat.Refresh(context.Background(), true); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				actions := cat.Actions()
				if len(actions) == 0 {
					continue
				}
				owner := actions[0].BundleID
				if owner != fmt.Sprintf("gen%d", len(actions)) {
					errs <- fmt.Errorf("snapshot of %d actions owned by %s", len(actions), owner)
					return
				}
				for _, action := range actions {
					if action.BundleID != owner {
						errs <- fmt.Errorf("torn snapshot: %s and %s", owner, action.BundleID)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if generation.Load() != 100 {
		t.Errorf("scans = %d, want 100 (forced refreshes are serialized, never skipped)", generation.Load())
	}
}
