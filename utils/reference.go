package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReference generates a prefixed reference for financial records,
// e.g. "TXN-9f1c0b7a" or "REF-03e2d411".
func NewReference(prefix string) string {
	id := strings.Split(uuid.New().String(), "-")[0]
	return prefix + "-" + id
}
