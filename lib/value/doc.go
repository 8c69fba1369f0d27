// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package value is the untyped JSON value model used for request
// parameters and response payloads.
//
// [Value] is a closed sum type with six variants: [String], [Number],
// [Bool], [Null], [Array] and [Object]. A nil Value means "absent" and
// is distinct from [Null]. There is no integer variant: every numeric
// literal decodes to [Number] (a float64), which keeps the protocol
// boundary free of integer-overflow ambiguity.
//
// Decoding and encoding are explicit and total: [Parse] walks the token
// stream and builds the variant tree itself, and [Marshal] writes the
// tree without reflection. Object keys that a caller does not know
// about are kept in the [Object] map, never dropped. [Of] converts a
// typed Go payload (a struct with json tags) into a Value for handlers
// that prefer typed result structs.
//
// This package depends on no other packages in this module.
package value
