package contract

import "investment_contract/sdk"

// loadInvestment returns the record under k, or nil when the investor has none there.
func (c *callState) loadInvestment(k InvestmentKey) (*Investment, error) {
	ptr, err := c.get(sdk.TierPersistent, investmentKey(k))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	inv := &Investment{}
	if err := decode(*ptr, inv); err != nil {
		return nil, ErrStorage.wrap(err)
	}
	return inv, nil
}

func (c *callState) saveInvestment(inv *Investment) error {
	s, err := encode(*inv)
	if err != nil {
		return ErrStorage.wrap(err)
	}
	c.put(sdk.TierPersistent, investmentKey(inv.Key()), s)
	return nil
}
