package consumer

import "fmt"

// DrainPolicy selects what happens to messages still queued in the
// channel at the moment cancellation is observed.
type DrainPolicy int

const (
	// DrainRetain delivers every already-queued message to the handler,
	// in order, before the consumer completes.
	DrainRetain DrainPolicy = iota
	// DrainDrop abandons already-queued messages; nothing further is
	// delivered after cancellation.
	DrainDrop
)

// String returns the string representation of the policy.
func (p DrainPolicy) String() string {
	switch p {
	case DrainRetain:
		return "retain"
	case DrainDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// ParseDrainPolicy parses a policy name as it appears in configuration.
func ParseDrainPolicy(s string) (DrainPolicy, error) {
	switch s {
	case "retain", "":
		return DrainRetain, nil
	case "drop":
		return DrainDrop, nil
	default:
		return DrainRetain, fmt.Errorf("unknown drain policy %q", s)
	}
}
