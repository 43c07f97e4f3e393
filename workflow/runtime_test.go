package workflow

import (
	"errors"
	"testing"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/aptostest"
	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

type mockExecutable struct {
	mock.Mock

	id string
}

func newMockExecutable(id string) *mockExecutable {
	return &mockExecutable{id: id}
}

func (m *mockExecutable) ID() string   { return m.id }
func (m *mockExecutable) Name() string { return "mock " + m.id }

func (m *mockExecutable) Run(e Environment, state *State) error {
	return m.Called(e, state).Error(0)
}

// recording returns a mock executable recording a successful result named id.
func recording(id string) *mockExecutable {
	m := newMockExecutable(id)
	m.On("Run", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*State).Record(StepResult{Step: id, Success: true})
	}).Return(nil)

	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("seeds admin from the deployer signer", func(t *testing.T) {
		t.Parallel()

		admin := aptostest.NewAccount(t)
		chain := aptostest.NewFakeClient().Chain()
		chain.DeployerSigner = admin

		rt := New(Environment{Chain: chain})

		got, err := rt.State().Address(AdminAccount)
		require.NoError(t, err)
		assert.Equal(t, admin.AccountAddress(), got)
		assert.Equal(t, chainsel.APTOS_LOCALNET.Name, rt.Environment().Name)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		rt := New(Environment{})
		env := rt.Environment()

		assert.NotNil(t, env.Logger)
		assert.NotNil(t, env.GetContext)
		assert.NotNil(t, env.OperationsBundle.Reporter())
		assert.NotNil(t, env.AccountGen)
		assert.NotNil(t, env.Now)

		_, err := rt.State().Account(AdminAccount)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRuntime_Exec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		executablesFunc func() []Executable
		wantErr         string
		wantResults     []string
	}{
		{
			name: "single task",
			executablesFunc: func() []Executable {
				return []Executable{recording("task-1")}
			},
			wantResults: []string{"task-1"},
		},
		{
			name: "tasks run in order",
			executablesFunc: func() []Executable {
				return []Executable{recording("task-1"), recording("task-2"), recording("task-3")}
			},
			wantResults: []string{"task-1", "task-2", "task-3"},
		},
		{
			name: "failure stops execution",
			executablesFunc: func() []Executable {
				failing := newMockExecutable("task-2")
				failing.On("Run", mock.Anything, mock.Anything).Return(errors.New("task execution failed"))

				return []Executable{recording("task-1"), failing, newMockExecutable("task-3")}
			},
			wantErr:     "task execution failed",
			wantResults: []string{"task-1"},
		},
		{
			name: "sequence",
			executablesFunc: func() []Executable {
				return []Executable{Sequence("both", recording("task-1"), recording("task-2"))}
			},
			wantResults: []string{"task-1", "task-2"},
		},
		{
			name: "empty executables list",
			executablesFunc: func() []Executable {
				return []Executable{}
			},
			wantResults: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt := New(Environment{Logger: logger.Test(t)})

			err := rt.Exec(tt.executablesFunc()...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got := make([]string, 0)
			for _, r := range rt.State().Results() {
				got = append(got, r.Step)
			}
			assert.Equal(t, tt.wantResults, got)
		})
	}
}

func TestBaseTask(t *testing.T) {
	t.Parallel()

	a := newBaseTask("a")
	b := newBaseTask("a")

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "a", a.Name())
}
