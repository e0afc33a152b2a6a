package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// shortSuffix returns n hex characters from a fresh UUID
func shortSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// NewResidentID builds a resident id in the legacy "XX-NNNN" format from the
// two-letter house prefix. The numeric suffix starts from the current
// timestamp and is bumped until it misses every taken id, so rapid sequential
// creation cannot collide.
func NewResidentID(housePrefix string, taken map[string]bool) string {
	base := time.Now().UnixMilli()
	for i := int64(0); ; i++ {
		id := fmt.Sprintf("%s-%04d", strings.ToUpper(housePrefix), (base+i)%10000)
		if !taken[id] {
			return id
		}
	}
}

// NewReportID builds a report id in the legacy "REP-<millis>-<suffix>"
// format. The suffix is UUID-derived rather than pseudo-random.
func NewReportID() string {
	return fmt.Sprintf("REP-%d-%s", time.Now().UnixMilli(), shortSuffix(5))
}

// NewAttachmentID builds a short archive document id
func NewAttachmentID() string {
	return shortSuffix(9)
}
