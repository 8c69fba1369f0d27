// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bradwindy/app-intents-mcp/lib/codec"
)

// Revision is a BLAKE3 digest of a catalog snapshot's deterministic
// CBOR encoding. Two snapshots with the same actions in the same order
// have the same Revision, whichever scan produced them.
type Revision [32]byte

// revisionDomainKey separates catalog revisions from any other use of
// BLAKE3 keyed hashing. The bytes are the ASCII domain name,
// zero-padded to 32 bytes.
var revisionDomainKey = [32]byte{
	'a', 'p', 'p', '-', 'i', 'n', 't', 'e', 'n', 't', 's', '.',
	'c', 'a', 't', 'a', 'l', 'o', 'g', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// IsZero reports whether the revision is unset (no refresh has
// completed yet).
func (r Revision) IsZero() bool { return r == Revision{} }

// String returns the full hex digest.
func (r Revision) String() string { return hex.EncodeToString(r[:]) }

// Short returns the first 12 hex characters, for logs and tool text.
func (r Revision) Short() string { return r.String()[:12] }

func computeRevision(actions []Action) (Revision, error) {
	hasher, err := blake3.NewKeyed(revisionDomainKey[:])
	if err != nil {
		panic("catalog: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	if err := codec.Encode(hasher, actions); err != nil {
		return Revision{}, fmt.Errorf("encoding catalog snapshot: %w", err)
	}
	var revision Revision
	copy(revision[:], hasher.Sum(nil))
	return revision, nil
}
