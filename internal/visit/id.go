package visit

import (
	"strings"

	"github.com/google/uuid"
)

// DraftIDPrefix marks instance identifiers that have not been persisted.
// The reconciliation engine relies on this prefix to classify an instance
// as an insert rather than an update.
const DraftIDPrefix = "draft-"

// NewDraftID returns a fresh placeholder identifier for an unsaved visit.
func NewDraftID() string {
	return DraftIDPrefix + uuid.NewString()
}

// NewID returns a fresh persisted-row identifier.
func NewID() string {
	return uuid.NewString()
}

// IsDraftID reports whether id is a placeholder for an unsaved visit.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, DraftIDPrefix)
}
