package contract

import "investment_contract/sdk"

// loadBalances returns the fund ledger, zeroed before the first deposit.
func (c *callState) loadBalances() (Balances, error) {
	ptr, err := c.get(sdk.TierInstance, balancesKey())
	if err != nil {
		return Balances{}, err
	}
	if ptr == nil || *ptr == "" {
		return Balances{}, nil
	}
	var b Balances
	if err := decode(*ptr, &b); err != nil {
		return Balances{}, ErrStorage.wrap(err)
	}
	return b, nil
}

// saveBalances stages the ledger.
func (c *callState) saveBalances(b Balances) error {
	s, err := encode(b)
	if err != nil {
		return ErrStorage.wrap(err)
	}
	c.put(sdk.TierInstance, balancesKey(), s)
	return nil
}
