package pipeline

import "fmt"

// Stage names one step of a request's lifecycle. Transitions are
// one-way; a failed stage fails the whole request with the stage
// preserved in the error.
type Stage string

const (
	StageReceived    Stage = "received"
	StageExtracting  Stage = "extracting"
	StagePrompting   Stage = "prompting"
	StageAwaitingLLM Stage = "awaiting_llm"
	StageRendering   Stage = "rendering"
	StageRepairing   Stage = "repairing"
)

// StageError reports which pipeline stage failed and why.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func failStage(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
