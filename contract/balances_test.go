package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalancesApplyInvestment(t *testing.T) {
	b, err := Balances{}.ApplyInvestment(Amounts{ToInvest: 94500, ToReserve: 5000, ToCommission: 500})
	require.NoError(t, err)
	assert.Equal(t, Balances{
		Reserve:       5000,
		Project:       94500,
		Commission:    500,
		ReceivedSoFar: 99500,
	}, b)
	assert.Equal(t, int64(100000), b.Held())
}

func TestBalancesRejectionsLeaveInputUntouched(t *testing.T) {
	start := Balances{Reserve: 100, Project: 200, Commission: 10, ReceivedSoFar: 300}

	cases := []struct {
		name string
		fn   func(Balances) (Balances, error)
		want *Error
	}{
		{"withdraw zero", func(b Balances) (Balances, error) { return b.ApplyProjectWithdrawal(0) }, ErrAmountLessOrEqualZero},
		{"withdraw over pool", func(b Balances) (Balances, error) { return b.ApplyProjectWithdrawal(201) }, ErrContractInsufficientBalance},
		{"pay negative", func(b Balances) (Balances, error) { return b.ApplyInvestorPayment(-1) }, ErrAmountLessOrEqualZero},
		{"pay over reserve", func(b Balances) (Balances, error) { return b.ApplyInvestorPayment(101) }, ErrContractInsufficientBalance},
		{"move over pool", func(b Balances) (Balances, error) { return b.ApplyMoveToReserve(201) }, ErrProjectInsufficientBalance},
		{"move zero", func(b Balances) (Balances, error) { return b.ApplyMoveToReserve(0) }, ErrAmountLessOrEqualZero},
		{"contribute zero", func(b Balances) (Balances, error) { return b.ApplyCompanyContribution(0) }, ErrAmountLessOrEqualZero},
		{"negative split", func(b Balances) (Balances, error) { return b.ApplyInvestment(Amounts{ToInvest: -1}) }, ErrAmountLessOrEqualZero},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(start)
			assertCode(t, err, tc.want)
			assert.Equal(t, start, got)
		})
	}
}

func TestBalancesOverflowLeavesInputUntouched(t *testing.T) {
	const maxInt = int64(1<<63 - 1)
	start := Balances{Reserve: 10, Project: 20, ReceivedSoFar: maxInt - 5}

	got, err := start.ApplyInvestment(Amounts{ToInvest: 3, ToReserve: 3})
	assertCode(t, err, ErrAmountOverflow)
	assert.Equal(t, start, got)

	full := Balances{Reserve: maxInt}
	got, err = full.ApplyCompanyContribution(1)
	assertCode(t, err, ErrAmountOverflow)
	assert.Equal(t, full, got)
}

func TestBalancesWholePoolIsWithdrawable(t *testing.T) {
	b := Balances{Reserve: 100, Project: 200}

	b, err := b.ApplyProjectWithdrawal(200)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Project)
	assert.Equal(t, int64(200), b.ProjectWithdrawals)

	b, err = b.ApplyInvestorPayment(100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Reserve)
	assert.Equal(t, int64(100), b.Payments)
}

func TestBalancesIdentityHoldsAcrossTransitions(t *testing.T) {
	b := Balances{}
	steps := []func(Balances) (Balances, error){
		func(b Balances) (Balances, error) {
			return b.ApplyInvestment(Amounts{ToInvest: 94500, ToReserve: 5000, ToCommission: 500})
		},
		func(b Balances) (Balances, error) { return b.ApplyCompanyContribution(20000) },
		func(b Balances) (Balances, error) { return b.ApplyInvestorPayment(24000) },
		func(b Balances) (Balances, error) { return b.ApplyMoveToReserve(30000) },
		func(b Balances) (Balances, error) { return b.ApplyProjectWithdrawal(64500) },
		func(b Balances) (Balances, error) { return b.ApplyInvestorPayment(31000) },
	}
	for i, step := range steps {
		var err error
		b, err = step(b)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t,
			b.ReceivedSoFar+b.Commission+b.ReserveContributions-b.Payments-b.ProjectWithdrawals,
			b.Held(), "step %d", i)
	}
	assert.Equal(t, Balances{
		Reserve:                   0,
		Project:                   0,
		Commission:                500,
		ReceivedSoFar:             99500,
		Payments:                  55000,
		ReserveContributions:      20000,
		ProjectWithdrawals:        64500,
		MovedFromProjectToReserve: 30000,
	}, b)
}

func TestShortfall(t *testing.T) {
	assert.Equal(t, int64(0), Shortfall(0, 0))
	assert.Equal(t, int64(0), Shortfall(100, 100))
	assert.Equal(t, int64(0), Shortfall(100, 500))
	assert.Equal(t, int64(26118), Shortfall(26118, 0))
	assert.Equal(t, int64(1), Shortfall(101, 100))
}
