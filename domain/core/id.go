package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ChildID      ID
	HypothesisID ID
	EvidenceID   ID
	ArtifactID   ID
	CorrectionID ID
)

// String conversions for domain IDs
func (id ChildID) String() string      { return ID(id).String() }
func (id HypothesisID) String() string { return ID(id).String() }
func (id EvidenceID) String() string   { return ID(id).String() }
func (id ArtifactID) String() string   { return ID(id).String() }
func (id CorrectionID) String() string { return ID(id).String() }

// ParseChildID parses a string into ChildID
func ParseChildID(s string) (ChildID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("child ID cannot be empty")
	}
	return ChildID(s), nil
}

// ParseHypothesisID parses a string into HypothesisID
func ParseHypothesisID(s string) (HypothesisID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("hypothesis ID cannot be empty")
	}
	return HypothesisID(s), nil
}

// ParseArtifactID parses a string into ArtifactID
func ParseArtifactID(s string) (ArtifactID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("artifact ID cannot be empty")
	}
	return ArtifactID(s), nil
}
