package trbuild

import "encoding/json"

// StepState is the lifecycle state of a step within a run.
type StepState int

// Step lifecycle states.
const (
	StepPending StepState = iota
	StepRunning
	StepCompleted
	StepFailed
)

// String returns a string representation of the state.
func (s StepState) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepRunning:
		return "running"
	case StepCompleted:
		return "completed"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepStatus is the status of a step within a run.
//
// Queued is a display hint set on the next step as soon as its predecessor
// finishes. It never affects the completed or failed state.
type StepStatus struct {
	State  StepState
	Queued bool
}

// InProgress returns true if the step is running or is queued to run next.
func (s StepStatus) InProgress() bool {
	return s.State == StepRunning || (s.State == StepPending && s.Queued)
}

// Completed returns true if the step finished successfully.
func (s StepStatus) Completed() bool {
	return s.State == StepCompleted
}

// Failure returns true if the step finished unsuccessfully.
func (s StepStatus) Failure() bool {
	return s.State == StepFailed
}

// String returns a string representation of the status.
func (s StepStatus) String() string {
	if s.State == StepPending && s.Queued {
		return "queued"
	}
	return s.State.String()
}

type stepStatusJSON struct {
	InProgress bool `json:"in-progress"`
	Completed  bool `json:"completed"`
	Failure    bool `json:"failure"`
}

// MarshalJSON encodes the status as a set of in-progress, completed and
// failure flags.
func (s StepStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(stepStatusJSON{
		InProgress: s.InProgress(),
		Completed:  s.Completed(),
		Failure:    s.Failure(),
	})
}

// UnmarshalJSON decodes a status from a set of in-progress, completed and
// failure flags.
func (s *StepStatus) UnmarshalJSON(data []byte) error {
	var flags stepStatusJSON
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	switch {
	case flags.Completed:
		*s = StepStatus{State: StepCompleted}
	case flags.Failure:
		*s = StepStatus{State: StepFailed}
	case flags.InProgress:
		*s = StepStatus{State: StepRunning}
	default:
		*s = StepStatus{}
	}
	return nil
}
