package workflow

import (
	"github.com/segmentio/ksuid"
)

// Executable represents a step that can be executed by the runtime.
type Executable interface {
	// ID returns a unique identifier for this step.
	ID() string

	// Name returns a human readable description of the step, used in results and errors.
	Name() string

	// Run executes the step against the provided environment and updates the state. An error
	// aborts the run.
	Run(e Environment, state *State) error
}

type baseTask struct {
	id   string
	name string
}

// newBaseTask creates a new base task with a unique ID.
func newBaseTask(name string) *baseTask {
	return &baseTask{
		id:   ksuid.New().String(),
		name: name,
	}
}

// ID returns the unique identifier for this task.
func (t *baseTask) ID() string {
	return t.id
}

// Name returns the name of this task.
func (t *baseTask) Name() string {
	return t.name
}

var _ Executable = &sequenceTask{}

// Sequence groups steps under a single name. The steps run in order and the sequence stops at
// the first failing step.
func Sequence(name string, steps ...Executable) Executable {
	return &sequenceTask{
		baseTask: newBaseTask(name),
		steps:    steps,
	}
}

type sequenceTask struct {
	*baseTask

	steps []Executable
}

// Run executes every step of the sequence.
func (t *sequenceTask) Run(e Environment, state *State) error {
	for _, step := range t.steps {
		if err := step.Run(e, state); err != nil {
			return err
		}
	}

	return nil
}
