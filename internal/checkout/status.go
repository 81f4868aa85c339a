package checkout

// Status is the checkout machine state. Submitting doubles as the mutual
// exclusion guard against duplicate order submission.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusReviewing  Status = "REVIEWING"
	StatusSubmitting Status = "SUBMITTING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

var transitions = map[Status][]Status{
	StatusIdle:       {StatusReviewing},
	StatusReviewing:  {StatusSubmitting, StatusIdle},
	StatusSubmitting: {StatusSucceeded, StatusFailed},
	StatusSucceeded:  {StatusIdle},
	StatusFailed:     {StatusReviewing},
}

func CanTransitionTo(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
