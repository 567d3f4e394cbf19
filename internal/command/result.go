package command

// ResultStatus is the tagged result of applying one command
// (Section 7 "Propagation policy"). Systems never raise for expected
// outcomes; everything is reported back via a status.
type ResultStatus uint8

const (
	StatusCompleted ResultStatus = iota
	StatusDelegated
	StatusFailed
)

// Result is the outcome of applying one Command, eventually surfaced to
// the submitter as a RESPONSE or ERROR event.
type Result struct {
	Status  ResultStatus
	Reason  string // set when Status == StatusFailed, and on a partial completion
	Code    string // stable machine-readable error code
}

// Ok returns a completed result.
func Ok() Result { return Result{Status: StatusCompleted} }

// Failed returns a failed result with a stable code and human-readable
// reason (Section 7: "opaque but stable codes plus a human-readable
// message").
func Failed(code, reason string) Result {
	return Result{Status: StatusFailed, Code: code, Reason: reason}
}
