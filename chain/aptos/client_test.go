package aptos

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/stretchr/testify/assert"
)

func TestIsResourceNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give error
		want bool
	}{
		{name: "404", give: &aptoslib.HttpError{StatusCode: http.StatusNotFound}, want: true},
		{name: "wrapped 404", give: fmt.Errorf("read: %w", &aptoslib.HttpError{StatusCode: http.StatusNotFound}), want: true},
		{name: "500", give: &aptoslib.HttpError{StatusCode: http.StatusInternalServerError}},
		{name: "other error", give: errors.New("connection refused")},
		{name: "nil", give: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsResourceNotFound(tt.give))
		})
	}
}

func TestTransactionFailedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("enter: %w", &TransactionFailedError{Hash: "0x1", VMStatus: "Move abort in 0x1::coin: EINSUFFICIENT_BALANCE"})

	assert.Equal(t, "enter: transaction 0x1 failed: Move abort in 0x1::coin: EINSUFFICIENT_BALANCE", err.Error())

	txErr, ok := AsTransactionFailed(err)
	assert.True(t, ok)
	assert.Equal(t, "0x1", txErr.Hash)

	_, ok = AsTransactionFailed(errors.New("other"))
	assert.False(t, ok)
}
