package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(rt ReturnType, months uint32, blockDays uint64) *Config {
	return &Config{
		Admin:            adminAddress,
		ProjectAddress:   projectAddress,
		Token:            testToken,
		Rate:             500,
		ClaimBlockDays:   blockDays,
		ReturnType:       rt,
		ReturnMonths:     months,
		MinPerInvestment: 100,
		State:            StateActive,
	}
}

var defaultSplit = Amounts{ToInvest: 94500, ToReserve: 5000, ToCommission: 500}

func newTestInvestment(t *testing.T, cfg *Config, now int64) Investment {
	t.Helper()
	inv, err := NewInvestment(cfg, investorAddress, defaultSplit, now)
	require.NoError(t, err)
	return inv
}

func TestNewInvestmentReverseLoan(t *testing.T) {
	inv := newTestInvestment(t, testConfig(ReturnReverseLoan, 4, 7), defaultTimestamp)

	assert.Equal(t, Investment{
		Investor:            investorAddress,
		Deposited:           99500,
		AccumulatedInterest: 4975,
		Total:               104475,
		Commission:          500,
		ClaimableTs:         defaultTimestamp + 7*SecondsInDay,
		RegularPayment:      26118,
		Status:              StatusBlocked,
	}, inv)
}

func TestNewInvestmentCouponWithoutLock(t *testing.T) {
	inv := newTestInvestment(t, testConfig(ReturnCoupon, 4, 0), defaultTimestamp)

	assert.Equal(t, StatusClaimable, inv.Status)
	assert.Equal(t, defaultTimestamp, inv.ClaimableTs)
	assert.Equal(t, int64(1243), inv.RegularPayment)
}

func TestInstallmentsSettleTotal(t *testing.T) {
	for _, rt := range []ReturnType{ReturnReverseLoan, ReturnCoupon} {
		for _, months := range []uint32{1, 3, 4, 7, 12} {
			cfg := testConfig(rt, months, 0)
			inv := newTestInvestment(t, cfg, defaultTimestamp)
			now := defaultTimestamp
			for i := uint32(0); i < months; i++ {
				require.NoError(t, inv.CheckPayable(now), "%s months %d payment %d", rt, months, i)
				amount, last := inv.NextInstallment(cfg)
				assert.Equal(t, i == months-1, last)
				inv.ApplyPayment(amount, last, now)
				now += PaymentInterval
			}
			if rt == ReturnCoupon {
				assert.Equal(t, inv.RegularPayment*int64(months)+inv.Deposited, inv.Paid, "coupon months %d", months)
				assert.LessOrEqual(t, inv.Paid, inv.Total)
			} else {
				assert.Equal(t, inv.Total, inv.Paid, "reverse loan months %d", months)
			}
			assert.Equal(t, months, inv.PaymentsTransferred)
			assert.True(t, inv.Finished())
			assertCode(t, inv.CheckPayable(now), ErrInvestmentFinished)
		}
	}
}

func TestReverseLoanLastInstallmentTakesRemainder(t *testing.T) {
	cfg := testConfig(ReturnReverseLoan, 4, 0)
	inv := newTestInvestment(t, cfg, defaultTimestamp)
	inv.Paid = 3 * 26118
	inv.PaymentsTransferred = 3

	amount, last := inv.NextInstallment(cfg)
	assert.True(t, last)
	assert.Equal(t, int64(26121), amount)
}

func TestCouponLastInstallmentReturnsPrincipal(t *testing.T) {
	cfg := testConfig(ReturnCoupon, 4, 0)
	inv := newTestInvestment(t, cfg, defaultTimestamp)
	inv.Paid = 3 * 1243
	inv.PaymentsTransferred = 3

	amount, last := inv.NextInstallment(cfg)
	assert.True(t, last)
	// the interest remainder (4975 - 4*1243) is not paid out
	assert.Equal(t, int64(1243+99500), amount)
}

func TestNewInvestmentOverflow(t *testing.T) {
	cfg := testConfig(ReturnReverseLoan, 4, 0)
	cfg.Rate = 1000
	huge := Amounts{ToInvest: 8_550_000_000_000_000_000, ToReserve: 450_000_000_000_000_000}
	_, err := NewInvestment(cfg, investorAddress, huge, defaultTimestamp)
	assertCode(t, err, ErrAmountOverflow)

	_, err = NewInvestment(cfg, investorAddress, Amounts{ToInvest: 1<<63 - 1, ToReserve: 1}, defaultTimestamp)
	assertCode(t, err, ErrAmountOverflow)
}

func TestCheckPayableOrder(t *testing.T) {
	inv := newTestInvestment(t, testConfig(ReturnReverseLoan, 4, 7), defaultTimestamp)

	assertCode(t, inv.CheckPayable(inv.ClaimableTs-1), ErrNotClaimableYet)
	require.NoError(t, inv.CheckPayable(inv.ClaimableTs))

	inv.ApplyPayment(26118, false, inv.ClaimableTs)
	assert.Equal(t, StatusCashFlowing, inv.Status)
	assertCode(t, inv.CheckPayable(inv.ClaimableTs+PaymentInterval-1), ErrNextTransferNotReady)
	require.NoError(t, inv.CheckPayable(inv.ClaimableTs+PaymentInterval))

	// a finished record reports finished before the interval check
	inv.Status = StatusFinished
	assertCode(t, inv.CheckPayable(inv.ClaimableTs+1), ErrInvestmentFinished)
	// but still reports the lock first
	assertCode(t, inv.CheckPayable(inv.ClaimableTs-1), ErrNotClaimableYet)
}
