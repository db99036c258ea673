package domain

// SubmissionState tracks one request through the contact pipeline
type SubmissionState string

const (
	StateReceived      SubmissionState = "received"
	StateValidating    SubmissionState = "validating"
	StateRejected      SubmissionState = "rejected"
	StatePersisting    SubmissionState = "persisting"
	StatePersistFailed SubmissionState = "persist_failed"
	StatePersisted     SubmissionState = "persisted"
	StateNotifying     SubmissionState = "notifying"
	StateNotifyFailed  SubmissionState = "notify_failed"
	StateNotified      SubmissionState = "notified"
	// StateUnconfigured is reached when mail credentials are missing; nothing is stored
	StateUnconfigured SubmissionState = "unconfigured"
)

var submissionTransitions = map[SubmissionState][]SubmissionState{
	StateReceived:   {StateValidating},
	StateValidating: {StateRejected, StateUnconfigured, StatePersisting},
	StatePersisting: {StatePersistFailed, StatePersisted},
	StatePersisted:  {StateNotifying},
	StateNotifying:  {StateNotifyFailed, StateNotified},
}

// CanTransition reports whether next directly follows s
func (s SubmissionState) CanTransition(next SubmissionState) bool {
	for _, allowed := range submissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists
func (s SubmissionState) IsTerminal() bool {
	return len(submissionTransitions[s]) == 0
}

// Stored reports whether a record exists in the datastore for this state
func (s SubmissionState) Stored() bool {
	switch s {
	case StatePersisted, StateNotifying, StateNotifyFailed, StateNotified:
		return true
	}
	return false
}
