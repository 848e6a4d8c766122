package core

import (
	"strings"

	"github.com/google/uuid"
)

// Panel size bounds. A discussion needs at least two voices to be a panel;
// more than four and the context handed to late personas grows past what a
// single generation call can use well.
const (
	MinPanelSize = 2
	MaxPanelSize = 4
)

// SessionIDPrefix is prepended to every generated session identifier so ids
// are recognizable in logs and client storage.
const SessionIDPrefix = "panel-"

// NewID generates a new unique identifier.
func NewID() string { return uuid.NewString() }

// NewSessionID derives an opaque session identifier of the form
// "panel-<12 hex chars>". Uniqueness among live sessions is enforced by the
// store, which collision-checks against its current contents.
func NewSessionID() string {
	return SessionIDPrefix + strings.ReplaceAll(NewID(), "-", "")[:12]
}
