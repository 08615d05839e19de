package contract

import "investment_contract/sdk"

// NewMultisigRequest opens a request that admin and project must both sign.
// When both are the same principal one signature completes it.
func NewMultisigRequest(fn MultisigFunction, cfg *Config, amount, now int64) MultisigRequest {
	signers := []sdk.Address{cfg.Admin}
	if cfg.ProjectAddress != cfg.Admin {
		signers = append(signers, cfg.ProjectAddress)
	}
	return MultisigRequest{
		Function:        fn,
		ExpectedSigners: signers,
		Amount:          amount,
		ValidTs:         now + MultisigValidity,
	}
}

func containsAddress(list []sdk.Address, a sdk.Address) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

func (r *MultisigRequest) IsExpected(a sdk.Address) bool {
	return containsAddress(r.ExpectedSigners, a)
}

func (r *MultisigRequest) HasSigned(a sdk.Address) bool {
	return containsAddress(r.Signed, a)
}

// Expired is true strictly after ValidTs.
func (r *MultisigRequest) Expired(now int64) bool {
	return now > r.ValidTs
}

// Validate checks signer, expiry and amount in that order without touching the request.
func (r *MultisigRequest) Validate(signer sdk.Address, amount, now int64) error {
	if !r.IsExpected(signer) {
		return ErrSignerNotAllowed.wrapf("%s", signer)
	}
	if r.Expired(now) {
		return ErrMultisigExpired.wrapf("valid until %d, now %d", r.ValidTs, now)
	}
	if r.Amount != amount {
		return ErrMultisigAmountMismatch.wrapf("open request for %d, got %d", r.Amount, amount)
	}
	return nil
}

// Sign adds signer once. It reports whether the signer set changed.
func (r *MultisigRequest) Sign(signer sdk.Address) bool {
	if !r.IsExpected(signer) || r.HasSigned(signer) {
		return false
	}
	r.Signed = append(r.Signed, signer)
	return true
}

// Complete is true once every expected signer signed.
func (r *MultisigRequest) Complete() bool {
	for _, s := range r.ExpectedSigners {
		if !r.HasSigned(s) {
			return false
		}
	}
	return true
}
