package scheduler

import (
	"strings"

	"github.com/bytedance/sonic"
)

// Priority is the tier a task is queued in.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// drainOrder is the order tiers are visited in a pass.
var drainOrder = [...]Priority{PriorityHigh, PriorityNormal, PriorityLow}

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityNormal: "normal",
	PriorityHigh:   "high",
}

// ParsePriority maps a tier name to a Priority. Unknown or empty names fall
// back to PriorityNormal.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// Priorities returns every tier in drain order.
func Priorities() []Priority {
	return drainOrder[:]
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return priorityNames[PriorityNormal]
}

// IsValid reports whether p is one of the three known tiers.
func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

// normalize folds out-of-range values onto the normal tier.
func (p Priority) normalize() Priority {
	if !p.IsValid() {
		return PriorityNormal
	}
	return p
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := sonic.Unmarshal(b, &s); err != nil {
		// Non-string payloads are treated like an unknown name.
		*p = PriorityNormal
		return nil
	}
	*p = ParsePriority(s)
	return nil
}
