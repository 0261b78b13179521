package services

import (
	"strings"

	"github.com/google/uuid"
)

// NewReference returns a unique journal reference such as "TSK-9F2C41D07A3B55E1".
func NewReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:16]
}
