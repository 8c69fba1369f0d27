// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the deterministic CBOR encoding used to
// fingerprint catalog snapshots.
//
// JSON is the wire format of the protocol. CBOR is used internally
// where byte-for-byte reproducibility matters: the same logical catalog
// always encodes to identical bytes, so a digest of the encoding is a
// stable revision identifier.
//
// Struct fields are named by their `json` tags; fxamacker/cbor reads
// them as a fallback when no `cbor` tag is present, so catalog types
// carry a single tag that serves both formats.
package codec
