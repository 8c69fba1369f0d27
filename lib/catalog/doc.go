// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the in-memory set of discovered actions.
//
// A [Catalog] starts empty. [Catalog.Refresh] populates it from a
// [Scanner], deduplicating by action ID (the first record seen wins)
// and swapping the result in atomically. Refresh is gated by a
// staleness window: a populated catalog younger than the window is
// returned as is unless the caller forces a re-scan.
//
// Queries ([Catalog.Get], [Catalog.Search], [Catalog.ForOwner],
// [Catalog.ListOwners]) run against whichever snapshot is current and
// never observe a partially built one. The scan itself runs without
// any lock that readers need.
//
// Every snapshot carries a [Revision], a keyed BLAKE3 digest of its
// deterministic CBOR encoding, so clients and logs can tell whether a
// refresh changed anything.
package catalog
