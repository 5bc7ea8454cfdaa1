package trbuild

import "context"

// StepID is a unique identifier for a step within a plan.
type StepID string

// Operation performs the remote call for a step.
//
// A returned error indicates that the call itself failed, such as a
// transport failure. A result with Success set to false indicates that the
// provisioning service carried out the call but rejected or failed the
// operation.
type Operation func(ctx context.Context) (Result, error)

// StepDef describes a step without binding it to an operation.
type StepDef struct {
	ID   StepID `json:"id"`
	Name string `json:"name"`
}

// Step is a single named provisioning action within a plan.
//
// Steps are built fresh for each run. Their operations capture the project
// they act upon.
type Step struct {
	ID        StepID
	Name      string
	Operation Operation
}

// Def returns the definition of the step.
func (s Step) Def() StepDef {
	return StepDef{ID: s.ID, Name: s.Name}
}
