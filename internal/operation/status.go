package operation

import "fmt"

// Status is a stage in an operation's lifecycle.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusProcessing Status = "PROCESSING"
	StatusAccepted   Status = "ACCEPTED"
	StatusFailed     Status = "FAILED"
)

// allowedTransitions is the full state machine. ACCEPTED and FAILED are
// terminal.
var allowedTransitions = map[Status][]Status{
	StatusDraft:      {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusAccepted, StatusFailed},
	StatusAccepted:   {},
	StatusFailed:     {},
}

// ParseStatus validates a status value.
func ParseStatus(value string) (Status, error) {
	switch s := Status(value); s {
	case StatusDraft, StatusProcessing, StatusAccepted, StatusFailed:
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q", value)
}

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransition reports whether next is reachable from s.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// effect describes the balance side effects of a single transition. Money is
// reserved on entering PROCESSING and either delivered on ACCEPTED or returned
// on FAILED, so every path through the machine conserves the total across both
// wallets.
type effect struct {
	debitSender    bool
	creditSender   bool
	creditReceiver bool
}

// transitionEffect validates the transition and returns its side effects.
func transitionEffect(current, next Status) (effect, error) {
	if !current.CanTransition(next) {
		return effect{}, ErrInvalidTransition
	}
	switch {
	case current == StatusDraft && next == StatusProcessing:
		return effect{debitSender: true}, nil
	case current == StatusProcessing && next == StatusAccepted:
		return effect{creditReceiver: true}, nil
	case current == StatusProcessing && next == StatusFailed:
		return effect{creditSender: true}, nil
	default: // DRAFT -> FAILED moves no money
		return effect{}, nil
	}
}
