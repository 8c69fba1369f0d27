// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// encoding returns the shared Core Deterministic Encoding mode
// (RFC 8949 §4.2): sorted map keys, shortest integer and float forms,
// no indefinite-length items.
var encoding = sync.OnceValue(func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: building CBOR encode mode: " + err.Error())
	}
	return mode
})

// Marshal returns the deterministic encoding of v.
func Marshal(v any) ([]byte, error) {
	data, err := encoding().Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: encoding %T: %w", v, err)
	}
	return data, nil
}

// Encode writes the deterministic encoding of v to w. Digest callers
// pass a hash directly so the snapshot is never buffered whole.
func Encode(w io.Writer, v any) error {
	if err := encoding().NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("codec: encoding %T: %w", v, err)
	}
	return nil
}

// Diagnose renders data in CBOR diagnostic notation (RFC 8949 §8), for
// test failures and debug logs.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
