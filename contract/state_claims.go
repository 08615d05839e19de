package contract

import "investment_contract/sdk"

// loadClaims returns the claim schedule, empty when nothing is scheduled.
func (c *callState) loadClaims() (Claims, error) {
	ptr, err := c.get(sdk.TierInstance, claimsKey())
	if err != nil {
		return nil, err
	}
	claims := Claims{}
	if ptr == nil || *ptr == "" {
		return claims, nil
	}
	if err := decode(*ptr, &claims); err != nil {
		return nil, ErrStorage.wrap(err)
	}
	return claims, nil
}

// saveClaims stages the schedule. An empty schedule removes the key.
func (c *callState) saveClaims(claims Claims) error {
	if len(claims) == 0 {
		c.del(sdk.TierInstance, claimsKey())
		return nil
	}
	s, err := encode(claims)
	if err != nil {
		return ErrStorage.wrap(err)
	}
	c.put(sdk.TierInstance, claimsKey(), s)
	return nil
}
