package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment_contract/sdk"
)

func TestMultisigRequestSigners(t *testing.T) {
	req := NewMultisigRequest(FunctionWithdraw, testConfig(ReturnReverseLoan, 4, 0), 40000, defaultTimestamp)
	assert.Equal(t, []sdk.Address{adminAddress, projectAddress}, req.ExpectedSigners)
	assert.Equal(t, defaultTimestamp+SecondsInDay, req.ValidTs)
	assert.Empty(t, req.Signed)

	same := testConfig(ReturnReverseLoan, 4, 0)
	same.ProjectAddress = adminAddress
	solo := NewMultisigRequest(FunctionWithdraw, same, 40000, defaultTimestamp)
	assert.Equal(t, []sdk.Address{adminAddress}, solo.ExpectedSigners)
	assert.True(t, solo.Sign(adminAddress))
	assert.True(t, solo.Complete())
}

func TestMultisigSignIsIdempotent(t *testing.T) {
	req := NewMultisigRequest(FunctionWithdraw, testConfig(ReturnReverseLoan, 4, 0), 40000, defaultTimestamp)

	assert.True(t, req.Sign(adminAddress))
	assert.False(t, req.Sign(adminAddress))
	assert.False(t, req.Sign(outsider))
	assert.Equal(t, []sdk.Address{adminAddress}, req.Signed)
	assert.False(t, req.Complete())

	assert.True(t, req.Sign(projectAddress))
	assert.True(t, req.Complete())
}

func TestMultisigValidateOrder(t *testing.T) {
	req := NewMultisigRequest(FunctionWithdraw, testConfig(ReturnReverseLoan, 4, 0), 40000, defaultTimestamp)
	expiredAt := defaultTimestamp + SecondsInDay + 1

	// an unexpected signer is reported even on an expired request with the wrong amount
	assertCode(t, req.Validate(outsider, 1, expiredAt), ErrSignerNotAllowed)
	assertCode(t, req.Validate(projectAddress, 1, expiredAt), ErrMultisigExpired)
	assertCode(t, req.Validate(projectAddress, 45000, defaultTimestamp), ErrMultisigAmountMismatch)

	require.NoError(t, req.Validate(projectAddress, 40000, defaultTimestamp+SecondsInDay))
	assert.False(t, req.Expired(defaultTimestamp+SecondsInDay))
	assert.True(t, req.Expired(expiredAt))
}
