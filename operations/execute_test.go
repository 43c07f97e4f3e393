package operations

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

func Test_ExecuteOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveErr    error
		wantOutput int
		wantErr    string
	}{
		{
			name:       "success",
			wantOutput: 2,
		},
		{
			name:    "failure is not retried",
			giveErr: errors.New("test error"),
			wantErr: "test error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handlerCalledTimes := 0
			handler := func(b Bundle, deps any, input int) (output int, err error) {
				handlerCalledTimes++
				if tt.giveErr != nil {
					return 0, tt.giveErr
				}

				return input + 1, nil
			}
			op := NewOperation("plus1", semver.MustParse("1.0.0"), "test operation", handler)
			e := NewBundle(context.Background, logger.Test(t), NewMemoryReporter())

			res, err := ExecuteOperation(e, op, nil, 1)

			if tt.wantErr != "" {
				require.Error(t, res.Err)
				require.ErrorContains(t, err, tt.wantErr)
				require.ErrorContains(t, res.Err, tt.wantErr)
			} else {
				require.Nil(t, res.Err)
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutput, res.Output)
			}
			assert.Equal(t, 1, handlerCalledTimes)

			report, err := e.reporter.GetReport(res.ID)
			require.NoError(t, err)
			assert.NotNil(t, report)
		})
	}
}

func Test_ExecuteOperation_RepeatedInputAlwaysExecutes(t *testing.T) {
	t.Parallel()

	calls := 0
	op := NewOperation("enter", semver.MustParse("1.0.0"), "buy tickets",
		func(b Bundle, deps any, input int) (int, error) {
			calls++
			return calls, nil
		})
	reporter := NewMemoryReporter()
	bundle := NewBundle(t.Context, logger.Nop(), reporter)

	first, err := ExecuteOperation(bundle, op, nil, 100)
	require.NoError(t, err)
	second, err := ExecuteOperation(bundle, op, nil, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Output)
	assert.Equal(t, 2, second.Output)
	assert.NotEqual(t, first.ID, second.ID)

	reports, err := reporter.GetReports()
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func Test_ExecuteOperation_ErrorReporter(t *testing.T) {
	t.Parallel()

	op := NewOperation("plus1", semver.MustParse("1.0.0"), "test operation",
		func(e Bundle, deps any, input int) (output int, err error) {
			return input + 1, nil
		})

	reportErr := errors.New("add report error")
	errReporter := errorReporter{
		Reporter:       NewMemoryReporter(),
		AddReportError: reportErr,
	}
	e := NewBundle(context.Background, logger.Test(t), errReporter)

	res, err := ExecuteOperation(e, op, nil, 1)
	require.ErrorContains(t, err, reportErr.Error())
	require.Nil(t, res.Err)
}

func Test_ExecuteOperation_Unserializable(t *testing.T) {
	t.Parallel()

	t.Run("input", func(t *testing.T) {
		t.Parallel()

		op := NewOperation("bad-input", semver.MustParse("1.0.0"), "test operation",
			func(e Bundle, deps any, input float64) (float64, error) {
				return input, nil
			})
		e := NewBundle(context.Background, logger.Nop(), NewMemoryReporter())

		_, err := ExecuteOperation(e, op, nil, math.Inf(1))
		require.ErrorIs(t, err, ErrNotSerializable)
	})

	t.Run("output", func(t *testing.T) {
		t.Parallel()

		op := NewOperation("bad-output", semver.MustParse("1.0.0"), "test operation",
			func(e Bundle, deps any, input int) (func(), error) {
				return func() {}, nil
			})
		e := NewBundle(context.Background, logger.Nop(), NewMemoryReporter())

		_, err := ExecuteOperation(e, op, nil, 1)
		require.ErrorIs(t, err, ErrNotSerializable)
	})
}

type errorReporter struct {
	Reporter
	AddReportError error
}

func (e errorReporter) AddReport(report Report[any, any]) error {
	return e.AddReportError
}
