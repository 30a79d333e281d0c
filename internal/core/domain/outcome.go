package domain

// Decision is the result of the ownership policy.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Outcome is the terminal state of a guarded edit or delete. It is returned as
// a value so callers branch on it instead of inspecting errors.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeNotFound
	OutcomeConcurrencyConflict
	OutcomeDenied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeConcurrencyConflict:
		return "concurrency_conflict"
	case OutcomeDenied:
		return "denied"
	default:
		return "unknown"
	}
}
