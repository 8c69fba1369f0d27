// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Components that make decisions based on the current time accept a
// Clock instead of calling time.Now directly:
//
//	cat := catalog.New(scanner, catalog.WithClock(clock.Real()))
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	cat := catalog.New(scanner, catalog.WithClock(c))
//	c.Advance(6 * time.Minute) // the next Refresh re-scans
package clock
