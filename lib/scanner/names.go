// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"strings"
	"unicode"
)

// legacyDisplayName turns a SiriKit intent class name into a display
// name: "INSendMessageIntent" style names lose the "Intent" marker and
// are split into words, e.g. "SendMessageIntent" -> "Send Message".
func legacyDisplayName(intentName string) string {
	return splitCamelCase(strings.ReplaceAll(intentName, "Intent", ""))
}

// splitCamelCase inserts a space at each word boundary of a CamelCase
// identifier. A run of capitals is kept together as an acronym, so
// "CreateURLShortcut" becomes "Create URL Shortcut".
func splitCamelCase(s string) string {
	runes := []rune(s)
	var builder strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			previous := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(previous) || unicode.IsDigit(previous) || (unicode.IsUpper(previous) && nextIsLower) {
				builder.WriteByte(' ')
			}
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
