package workflow

import (
	"sync"
)

// Runtime executes workflow steps against a chain.
//
// Steps run strictly sequentially: a step starts only after the previous one has been committed
// and checked. The runtime is safe for concurrent use, concurrent calls to Exec are serialized.
// Independent runtimes share nothing and may run in parallel.
type Runtime struct {
	mu sync.Mutex

	env   Environment
	state *State
}

// New creates a Runtime for env. The state is seeded with the admin account when the chain has
// a deployer signer.
func New(env Environment) *Runtime {
	env = env.withDefaults()

	return &Runtime{
		env:   env,
		state: seedStateFromEnvironment(env),
	}
}

// Exec executes steps in order and returns the first error. A step failing its expectation
// returns an *AssertionError; any other error is a transport or precondition failure. Steps after
// a failure are not executed, while the results of the steps executed so far remain in State.
func (r *Runtime) Exec(executables ...Executable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ex := range executables {
		r.env.Logger.Infow("Running step", "step", ex.Name(), "id", ex.ID())

		if err := ex.Run(r.env, r.state); err != nil {
			r.env.Logger.Errorw("Step failed", "step", ex.Name(), "id", ex.ID(), "error", err)

			return err
		}
	}

	return nil
}

// State returns the current state of the runtime.
func (r *Runtime) State() *State {
	return r.state
}

// Environment returns the environment of the runtime.
func (r *Runtime) Environment() Environment {
	return r.env
}
