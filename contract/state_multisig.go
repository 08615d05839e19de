package contract

import "investment_contract/sdk"

// loadMultisig re-reads the open request for fn. A lapsed request reads as nil.
func (c *callState) loadMultisig(fn MultisigFunction) (*MultisigRequest, error) {
	ptr, err := c.get(sdk.TierTemporary, multisigKey(fn))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	req := &MultisigRequest{}
	if err := decode(*ptr, req); err != nil {
		return nil, ErrStorage.wrap(err)
	}
	return req, nil
}

func (c *callState) saveMultisig(req *MultisigRequest) error {
	s, err := encode(*req)
	if err != nil {
		return ErrStorage.wrap(err)
	}
	c.put(sdk.TierTemporary, multisigKey(req.Function), s)
	return nil
}

func (c *callState) deleteMultisig(fn MultisigFunction) {
	c.del(sdk.TierTemporary, multisigKey(fn))
}
