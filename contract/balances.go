package contract

// Ledger transitions. Every function takes the ledger by value and returns the updated
// copy, or an error and the untouched input when a pool would go negative.

// ApplyInvestment books a split deposit into the three pools.
func (b Balances) ApplyInvestment(a Amounts) (Balances, error) {
	if a.ToInvest < 0 || a.ToReserve < 0 || a.ToCommission < 0 {
		return b, ErrAmountLessOrEqualZero
	}
	next := b
	var err error
	for _, s := range []struct {
		pool *int64
		add  int64
	}{
		{&next.Commission, a.ToCommission},
		{&next.Reserve, a.ToReserve},
		{&next.Project, a.ToInvest},
		{&next.ReceivedSoFar, a.ToInvest},
		{&next.ReceivedSoFar, a.ToReserve},
	} {
		if *s.pool, err = checkedAdd(*s.pool, s.add); err != nil {
			return b, err
		}
	}
	return next, nil
}

// ApplyCompanyContribution tops up the reserve from outside the investor flow.
func (b Balances) ApplyCompanyContribution(amount int64) (Balances, error) {
	if amount <= 0 {
		return b, ErrAmountLessOrEqualZero
	}
	reserve, err := checkedAdd(b.Reserve, amount)
	if err != nil {
		return b, err
	}
	contributions, err := checkedAdd(b.ReserveContributions, amount)
	if err != nil {
		return b, err
	}
	b.Reserve = reserve
	b.ReserveContributions = contributions
	return b, nil
}

// ApplyProjectWithdrawal pays amount out of the project pool. amount == Project is allowed.
func (b Balances) ApplyProjectWithdrawal(amount int64) (Balances, error) {
	if amount <= 0 {
		return b, ErrAmountLessOrEqualZero
	}
	if amount > b.Project {
		return b, ErrContractInsufficientBalance.wrapf("project pool %d, requested %d", b.Project, amount)
	}
	b.Project -= amount
	b.ProjectWithdrawals += amount
	return b, nil
}

// ApplyInvestorPayment pays an installment out of the reserve.
func (b Balances) ApplyInvestorPayment(amount int64) (Balances, error) {
	if amount <= 0 {
		return b, ErrAmountLessOrEqualZero
	}
	if amount > b.Reserve {
		return b, ErrContractInsufficientBalance.wrapf("reserve %d, requested %d", b.Reserve, amount)
	}
	b.Reserve -= amount
	b.Payments += amount
	return b, nil
}

// ApplyMoveToReserve shifts funds between pools without touching the token balance.
func (b Balances) ApplyMoveToReserve(amount int64) (Balances, error) {
	if amount <= 0 {
		return b, ErrAmountLessOrEqualZero
	}
	if amount > b.Project {
		return b, ErrProjectInsufficientBalance.wrapf("project pool %d, requested %d", b.Project, amount)
	}
	b.Project -= amount
	b.Reserve += amount
	b.MovedFromProjectToReserve += amount
	return b, nil
}

// Held is what the contract should hold in tokens according to the ledger.
func (b Balances) Held() int64 {
	return b.Reserve + b.Project + b.Commission
}

// Shortfall returns how much pool is missing to cover need, never negative.
func Shortfall(need, pool int64) int64 {
	if need <= pool {
		return 0
	}
	return need - pool
}
