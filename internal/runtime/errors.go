package runtime

import (
	"fmt"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// StepError reports a collaborator failure together with the step it aborted.
type StepError struct {
	Step domain.Step
	Op   string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step: %s: %v", e.Step, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
