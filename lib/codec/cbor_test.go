// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sampleAction struct {
	ID       string   `json:"id"`
	Owner    string   `json:"appBundleID"`
	Optional string   `json:"description,omitempty"`
	Tags     []string `json:"tags"`
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	first, err := Marshal(map[string]int{"zeta": 1, "alpha": 2, "mid": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(map[string]int{"mid": 3, "alpha": 2, "zeta": 1})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encodings differ: %x vs %x", first, again)
		}
	}
}

func TestJSONTagsNameFields(t *testing.T) {
	data, err := Marshal(sampleAction{ID: "x", Owner: "y"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"appBundleID"`) {
		t.Errorf("diagnostic %s does not use the json tag name", diagnostic)
	}
	if strings.Contains(diagnostic, "description") {
		t.Errorf("omitempty field was encoded: %s", diagnostic)
	}
}

func TestEncodeMatchesMarshal(t *testing.T) {
	actions := []sampleAction{
		{ID: "com.apple.reminders.Create", Owner: "com.apple.reminders", Tags: []string{"a", "b"}},
		{ID: "com.apple.Notes.Open", Owner: "com.apple.Notes", Optional: "Open a note"},
	}
	marshaled, err := Marshal(actions)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var streamed bytes.Buffer
	if err := Encode(&streamed, actions); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(marshaled, streamed.Bytes()) {
		t.Errorf("Encode wrote %x, Marshal returned %x", streamed.Bytes(), marshaled)
	}
}

func TestMarshalRejectsUnsupportedTypes(t *testing.T) {
	if _, err := Marshal(make(chan int)); err == nil {
		t.Error("Marshal(chan) succeeded")
	}
}
