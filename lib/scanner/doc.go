// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scanner discovers actions declared by installed applications.
//
// [Scanner] walks application directories for *.app bundles and reads,
// from each bundle:
//
//   - Contents/Info.plist for the bundle identifier and display name,
//     and the legacy INIntentsSupported list;
//   - Contents/Resources/Metadata.appintents/extract.actionsdata, the
//     JSON manifest of App Intents compiled into the application.
//
// A bundle that cannot be read is skipped and logged at debug level;
// one broken application never fails the whole scan. The manifest is
// parsed with the tolerant value model rather than fixed structs, so
// fields of an unexpected type are treated as absent instead of
// rejecting the action.
package scanner
