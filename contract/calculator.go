package contract

import sdkmath "cosmossdk.io/math"

// maxDecimals is the largest token scale whose unit fits in int64.
const maxDecimals = 18

// pow10 returns 10^n for n <= maxDecimals.
func pow10(n uint32) int64 {
	p := int64(1)
	for i := uint32(0); i < n; i++ {
		p *= 10
	}
	return p
}

// RateDenominator grows with the deposit so large investors pay a smaller commission share.
// Deposits up to DenominatorThreshold tokens use MinRateDenominator, every further
// DenominatorStep tokens add one, capped at MaxRateDenominator.
// Example payload: RateDenominator(500_0000000, 7) == 11
func RateDenominator(amount int64, decimals uint32) uint32 {
	if decimals > maxDecimals {
		// no int64 amount reaches the threshold at this scale
		return MinRateDenominator
	}
	unit := sdkmath.NewInt(pow10(decimals))
	excess := sdkmath.NewInt(amount).Sub(unit.MulRaw(DenominatorThreshold))
	if !excess.IsPositive() {
		return MinRateDenominator
	}
	steps := excess.Quo(unit.MulRaw(DenominatorStep))
	if steps.GTE(sdkmath.NewInt(int64(MaxRateDenominator - MinRateDenominator))) {
		return MaxRateDenominator
	}
	return MinRateDenominator + uint32(steps.Int64())
}

// mulDiv computes a*b/c on arbitrary precision integers and fails when the quotient
// does not fit in int64. Inputs are non-negative, c is positive.
func mulDiv(a, b, c int64) (int64, error) {
	q := sdkmath.NewInt(a).Mul(sdkmath.NewInt(b)).Quo(sdkmath.NewInt(c))
	if !q.IsInt64() {
		return 0, ErrAmountOverflow.wrapf("%d * %d / %d", a, b, c)
	}
	return q.Int64(), nil
}

// checkedAdd returns a+b or ErrAmountOverflow.
func checkedAdd(a, b int64) (int64, error) {
	s := sdkmath.NewInt(a).AddRaw(b)
	if !s.IsInt64() {
		return 0, ErrAmountOverflow.wrapf("%d + %d", a, b)
	}
	return s.Int64(), nil
}

// Split divides a deposit into commission, reserve and the invested part.
// The three parts always sum to amount.
// Example payload: Split(100000, 500, 7) -> {ToInvest: 94500, ToReserve: 5000, ToCommission: 500}
func Split(amount int64, rate uint32, decimals uint32) (Amounts, error) {
	if amount <= 0 {
		return Amounts{}, ErrAmountLessOrEqualZero
	}
	reserve, err := mulDiv(amount, ReservePercent, 100)
	if err != nil {
		return Amounts{}, err
	}
	denominator := int64(RateDenominator(amount, decimals))
	commission, err := mulDiv(amount, int64(rate), denominator*RateScale)
	if err != nil {
		return Amounts{}, err
	}
	toInvest := amount - reserve - commission
	if commission > amount || toInvest < 0 {
		return Amounts{}, ErrAmountTooSmall.wrapf("amount %d rate %d", amount, rate)
	}
	return Amounts{
		ToInvest:     toInvest,
		ToReserve:    reserve,
		ToCommission: commission,
	}, nil
}

// interestFor is the return promised on a principal at a basis-point rate.
func interestFor(principal int64, rate uint32) (int64, error) {
	return mulDiv(principal, int64(rate), RateScale)
}
