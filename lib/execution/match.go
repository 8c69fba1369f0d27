// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"fmt"
	"strings"
)

// MatchPolicy selects which runnable executes an action.
type MatchPolicy string

const (
	// MatchRanked prefers a runnable whose name equals the action name,
	// then one that starts with it, then one that contains it. Ties
	// within a tier go to the runnable listed first.
	MatchRanked MatchPolicy = "ranked"

	// MatchFirst takes the first runnable whose name contains the
	// action name.
	MatchFirst MatchPolicy = "first"
)

// ParseMatchPolicy validates a policy name from flags or config.
func ParseMatchPolicy(name string) (MatchPolicy, error) {
	switch MatchPolicy(name) {
	case MatchRanked, MatchFirst:
		return MatchPolicy(name), nil
	}
	return "", fmt.Errorf("unknown match policy %q (want %q or %q)", name, MatchRanked, MatchFirst)
}

// Select returns the runnable chosen for actionName. Comparison is
// case-insensitive and each candidate is tested against both the
// display name and the display name with its spaces removed, so
// "Create Reminder" matches a shortcut called "CreateReminder".
func (p MatchPolicy) Select(actionName string, runnables []string) (string, bool) {
	forms := nameForms(actionName)
	if len(forms) == 0 {
		return "", false
	}

	if p == MatchFirst {
		for _, runnable := range runnables {
			if matchesAny(strings.ToLower(runnable), forms, strings.Contains) {
				return runnable, true
			}
		}
		return "", false
	}

	tiers := []func(string, string) bool{
		func(candidate, form string) bool { return candidate == form },
		strings.HasPrefix,
		strings.Contains,
	}
	for _, tier := range tiers {
		for _, runnable := range runnables {
			if matchesAny(strings.ToLower(runnable), forms, tier) {
				return runnable, true
			}
		}
	}
	return "", false
}

// nameForms returns the lowercased display name and, when different,
// its spaceless form. A blank name has no forms and matches nothing.
func nameForms(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}
	forms := []string{lower}
	if compact := strings.ReplaceAll(lower, " ", ""); compact != lower {
		forms = append(forms, compact)
	}
	return forms
}

func matchesAny(candidate string, forms []string, match func(string, string) bool) bool {
	for _, form := range forms {
		if match(candidate, form) {
			return true
		}
	}
	return false
}
