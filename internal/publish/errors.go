package publish

import (
	"context"
	"errors"
	"fmt"
)

// EmptyInputError reports a credential field that was blank after trimming.
type EmptyInputError struct {
	Field string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s cannot be empty", e.Field)
}

// DirectoryNotFoundError reports a missing project directory.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("project directory not found: %s", e.Path)
}

// StepFailure reports a step whose command exited nonzero and whose outcome gates
// the run.
type StepFailure struct {
	Step     string
	Command  string
	ExitCode int
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("%s failed: %s exited with status %d", e.Step, e.Command, e.ExitCode)
}

// State is the terminal state of a run.
type State int

const (
	Succeeded State = iota
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Outcome maps the error returned by Runner.Run to the terminal state.
func Outcome(err error) State {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, context.Canceled):
		return Cancelled
	default:
		return Failed
	}
}
