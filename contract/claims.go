package contract

import "sort"

// Claims is the schedule of next due installments, one per open investment.
type Claims map[InvestmentKey]Claim

// NextClaim computes the schedule entry for inv after its last transfer.
// An investment that never paid out is due one interval after now.
func NextClaim(inv *Investment, cfg *Config, now int64) Claim {
	amount, _ := inv.NextInstallment(cfg)
	next := now + PaymentInterval
	if inv.LastTransferTs > 0 {
		next = inv.LastTransferTs + PaymentInterval
	}
	return Claim{NextTransferTs: next, AmountToPay: amount}
}

// Reschedule refreshes the entry for inv, dropping it once inv is finished.
func (c Claims) Reschedule(inv *Investment, cfg *Config, now int64) {
	if inv.Finished() {
		delete(c, inv.Key())
		return
	}
	c[inv.Key()] = NextClaim(inv, cfg, now)
}

// DueWithin sums every claim due at or before now+window.
func (c Claims) DueWithin(now, window int64) int64 {
	var sum int64
	for _, claim := range c {
		if claim.NextTransferTs <= now+window {
			sum += claim.AmountToPay
		}
	}
	return sum
}

// sortedKeys orders keys by investor then timestamp so encodings are stable.
func (c Claims) sortedKeys() []InvestmentKey {
	keys := make([]InvestmentKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Investor != keys[j].Investor {
			return keys[i].Investor < keys[j].Investor
		}
		return keys[i].ClaimableTs < keys[j].ClaimableTs
	})
	return keys
}
