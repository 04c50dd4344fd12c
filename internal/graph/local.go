package graph

import (
	"strings"

	"github.com/google/uuid"
)

// localIDPrefix marks paper ids minted locally for papers without an
// external identifier (typically the synthetic parent paper).
const localIDPrefix = "local:"

// NewLocalID mints a fresh local paper id.
func NewLocalID() string {
	return localIDPrefix + uuid.NewString()
}

// IsLocalID reports whether a paper id was minted locally rather than
// obtained from the external API.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}
