package workflow

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a step refers to an account, coin, token or raffle that no
// earlier step produced.
var ErrNotFound = errors.New("not found in workflow state")

func errAccountNotFound(name string) error {
	return fmt.Errorf("account %q: %w", name, ErrNotFound)
}

func errCoinNotFound(name string) error {
	return fmt.Errorf("coin %q: %w", name, ErrNotFound)
}

func errTokenNotFound(key string) error {
	return fmt.Errorf("token %q: %w", key, ErrNotFound)
}

func errRaffleNotFound(key string) error {
	return fmt.Errorf("raffle %q: %w", key, ErrNotFound)
}

var errContractNotPublished = fmt.Errorf("raffle contract: %w", ErrNotFound)

// AssertionError reports a step whose outcome differs from its expectation.
type AssertionError struct {
	Step     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("step %s: expected %s, got %s", e.Step, e.Expected, e.Actual)
}

// AsAssertionError unwraps err into an *AssertionError.
func AsAssertionError(err error) (*AssertionError, bool) {
	var assertErr *AssertionError
	if errors.As(err, &assertErr) {
		return assertErr, true
	}

	return nil, false
}
