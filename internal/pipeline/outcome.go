package pipeline

import "fmt"

// Status is the tri-state result of a mutation.
type Status int

const (
	// StatusSuccess: the remote mutation was applied and the mirror patched.
	StatusSuccess Status = iota
	// StatusRejected: a locally detected precondition stopped the mutation
	// before any network call.
	StatusRejected
	// StatusFailed: the remote call was attempted and failed; local state is
	// at last-known-good.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason qualifies a rejected outcome.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonMissingSize     Reason = "missing_size"
	ReasonQuantityFloor   Reason = "quantity_floor"
	ReasonUnknownLine     Reason = "unknown_line"
	ReasonBusy            Reason = "busy"
	ReasonEmptyCart       Reason = "empty_cart"
	ReasonValidation      Reason = "validation"
)

// Outcome is what every mutation returns. Callers map it to user-visible
// feedback; the pipeline itself never presents UI.
type Outcome struct {
	Status Status
	Reason Reason
	Err    error
}

func Success() Outcome {
	return Outcome{Status: StatusSuccess}
}

func Rejected(reason Reason) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// OK reports whether the mutation succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

func (o Outcome) String() string {
	switch {
	case o.Err != nil:
		return fmt.Sprintf("%s (%v)", o.Status, o.Err)
	case o.Reason != ReasonNone:
		return fmt.Sprintf("%s (%s)", o.Status, o.Reason)
	default:
		return o.Status.String()
	}
}
