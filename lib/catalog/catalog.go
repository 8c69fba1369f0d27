// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bradwindy/app-intents-mcp/lib/clock"
)

// DefaultStaleAfter is how long a populated catalog is served without
// re-scanning.
const DefaultStaleAfter = 5 * time.Minute

// ErrNoScanner is returned by Refresh on a Catalog built without a
// Scanner.
var ErrNoScanner = errors.New("catalog: no scanner configured")

// Catalog is the deduplicated, queryable set of discovered actions.
//
// Readers always observe a complete snapshot: Refresh builds the next
// snapshot without holding the read lock and swaps it in under a brief
// exclusive lock. Concurrent refreshes are serialized so the scanner
// never runs twice at once.
type Catalog struct {
	scanner    Scanner
	clock      clock.Clock
	staleAfter time.Duration
	logger     *slog.Logger

	// refreshMu serializes scans. It is never held while mu is
	// write-locked by anything but the final swap.
	refreshMu sync.Mutex

	mu       sync.RWMutex
	snapshot *snapshot
}

// snapshot is immutable once published.
type snapshot struct {
	actions     []Action
	byID        map[string]int
	refreshedAt time.Time
	revision    Revision
}

var emptySnapshot = &snapshot{byID: map[string]int{}}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock sets the clock used for staleness checks.
func WithClock(c clock.Clock) Option {
	return func(catalog *Catalog) { catalog.clock = c }
}

// WithStaleAfter overrides [DefaultStaleAfter]. Non-positive values
// are ignored.
func WithStaleAfter(d time.Duration) Option {
	return func(catalog *Catalog) {
		if d > 0 {
			catalog.staleAfter = d
		}
	}
}

// WithLogger sets the logger for refresh events.
func WithLogger(logger *slog.Logger) Option {
	return func(catalog *Catalog) { catalog.logger = logger }
}

// New returns an empty Catalog backed by scanner.
func New(scanner Scanner, options ...Option) *Catalog {
	c := &Catalog{
		scanner:    scanner,
		clock:      clock.Real(),
		staleAfter: DefaultStaleAfter,
		logger:     slog.New(slog.DiscardHandler),
		snapshot:   emptySnapshot,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Catalog) current() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Catalog) fresh(s *snapshot) bool {
	return len(s.actions) > 0 && c.clock.Now().Sub(s.refreshedAt) < c.staleAfter
}

// Refresh returns the catalog contents, scanning first when forced,
// when the catalog is empty, or when the last scan is older than the
// staleness window. A failed scan leaves the previous snapshot in
// place.
//
// The returned slice is a copy; callers may reorder it freely but
// must not modify the Parameters of its elements.
func (c *Catalog) Refresh(ctx context.Context, force bool) ([]Action, error) {
	if current := c.current(); !force && c.fresh(current) {
		return slices.Clone(current.actions), nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another caller may have refreshed while this one waited.
	if current := c.current(); !force && c.fresh(current) {
		return slices.Clone(current.actions), nil
	}

	if c.scanner == nil {
		return nil, ErrNoScanner
	}
	scanned, err := c.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning for actions: %w", err)
	}

	next := buildSnapshot(scanned, c.clock.Now())
	revision, err := computeRevision(next.actions)
	if err != nil {
		c.logger.Warn("catalog revision unavailable", "error", err)
	}
	next.revision = revision

	c.mu.Lock()
	c.snapshot = next
	c.mu.Unlock()

	c.logger.Info("catalog refreshed",
		"actions", len(next.actions),
		"duplicates", len(scanned)-len(next.actions),
		"owners", len(ownerCounts(next.actions)),
		"revision", revision.Short(),
		"forced", force,
	)
	return slices.Clone(next.actions), nil
}

// buildSnapshot deduplicates by ID, keeping the first occurrence and
// preserving scan order.
func buildSnapshot(scanned []Action, now time.Time) *snapshot {
	next := &snapshot{
		actions:     make([]Action, 0, len(scanned)),
		byID:        make(map[string]int, len(scanned)),
		refreshedAt: now,
	}
	for _, action := range scanned {
		if _, seen := next.byID[action.ID]; seen {
			continue
		}
		next.byID[action.ID] = len(next.actions)
		next.actions = append(next.actions, action)
	}
	return next
}

// Get looks up an action by exact ID in the current snapshot.
func (c *Catalog) Get(id string) (Action, bool) {
	s := c.current()
	index, ok := s.byID[id]
	if !ok {
		return Action{}, false
	}
	return s.actions[index], true
}

// Actions returns every action in catalog order.
func (c *Catalog) Actions() []Action {
	return slices.Clone(c.current().actions)
}

// Search returns the actions whose name, description or owner bundle
// ID contains query, compared case-insensitively, in catalog order.
func (c *Catalog) Search(query string) []Action {
	needle := strings.ToLower(query)
	var matches []Action
	for _, action := range c.current().actions {
		if strings.Contains(strings.ToLower(action.Name), needle) ||
			strings.Contains(strings.ToLower(action.Description), needle) ||
			strings.Contains(strings.ToLower(action.BundleID), needle) {
			matches = append(matches, action)
		}
	}
	return matches
}

// ForOwner returns the actions owned by bundleID, in catalog order.
func (c *Catalog) ForOwner(bundleID string) []Action {
	var owned []Action
	for _, action := range c.current().actions {
		if action.BundleID == bundleID {
			owned = append(owned, action)
		}
	}
	return owned
}

// ListOwners groups the current snapshot by owner, largest first. Owners
// with equal counts keep the order in which they first appear.
func (c *Catalog) ListOwners() []OwnerCount {
	return ownerCounts(c.current().actions)
}

func ownerCounts(actions []Action) []OwnerCount {
	var owners []OwnerCount
	index := make(map[string]int)
	for _, action := range actions {
		position, ok := index[action.BundleID]
		if !ok {
			position = len(owners)
			index[action.BundleID] = position
			owners = append(owners, OwnerCount{BundleID: action.BundleID})
		}
		owners[position].Count++
	}
	sort.SliceStable(owners, func(i, j int) bool {
		return owners[i].Count > owners[j].Count
	})
	return owners
}

// Stats summarizes the current snapshot.
type Stats struct {
	Actions     int
	Owners      int
	RefreshedAt time.Time
	Revision    Revision
}

// Stats returns a summary of the current snapshot. RefreshedAt is zero
// before the first successful refresh.
func (c *Catalog) Stats() Stats {
	s := c.current()
	return Stats{
		Actions:     len(s.actions),
		Owners:      len(ownerCounts(s.actions)),
		RefreshedAt: s.refreshedAt,
		Revision:    s.revision,
	}
}
