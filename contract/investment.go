package contract

import "investment_contract/sdk"

// NewInvestment builds the record for a split deposit made at now.
// The principal is what stays in the contract (invested part plus reserve share),
// interest accrues on it once, up front.
func NewInvestment(cfg *Config, investor sdk.Address, a Amounts, now int64) (Investment, error) {
	principal, err := checkedAdd(a.ToInvest, a.ToReserve)
	if err != nil {
		return Investment{}, err
	}
	interest, err := interestFor(principal, cfg.Rate)
	if err != nil {
		return Investment{}, err
	}
	total, err := checkedAdd(principal, interest)
	if err != nil {
		return Investment{}, err
	}

	inv := Investment{
		Investor:            investor,
		Deposited:           principal,
		AccumulatedInterest: interest,
		Total:               total,
		Commission:          a.ToCommission,
		ClaimableTs:         now + int64(cfg.ClaimBlockDays)*SecondsInDay,
		Status:              StatusClaimable,
	}
	if cfg.ClaimBlockDays > 0 {
		inv.Status = StatusBlocked
	}
	switch cfg.ReturnType {
	case ReturnCoupon:
		inv.RegularPayment = interest / int64(cfg.ReturnMonths)
	default:
		inv.RegularPayment = total / int64(cfg.ReturnMonths)
	}
	return inv, nil
}

// Finished reports whether the record reached its terminal status.
func (inv *Investment) Finished() bool {
	return inv.Status == StatusFinished
}

// NextInstallment returns the amount the next payment transfers and whether it is the last one.
// A reverse loan settles whatever is left of Total on the last installment. A coupon pays
// the regular coupon plus the principal, so the interest division remainder stays in the reserve.
func (inv *Investment) NextInstallment(cfg *Config) (int64, bool) {
	if inv.PaymentsTransferred+1 < cfg.ReturnMonths {
		return inv.RegularPayment, false
	}
	if cfg.ReturnType == ReturnCoupon {
		return inv.RegularPayment + inv.Deposited, true
	}
	return inv.Total - inv.Paid, true
}

// CheckPayable runs the payment preconditions in their fixed order.
func (inv *Investment) CheckPayable(now int64) error {
	if now < inv.ClaimableTs {
		return ErrNotClaimableYet.wrapf("claimable at %d, now %d", inv.ClaimableTs, now)
	}
	if inv.Finished() {
		return ErrInvestmentFinished
	}
	if inv.LastTransferTs != 0 && now-inv.LastTransferTs < PaymentInterval {
		return ErrNextTransferNotReady.wrapf("next at %d, now %d", inv.LastTransferTs+PaymentInterval, now)
	}
	return nil
}

// ApplyPayment records an installment of amount transferred at now.
func (inv *Investment) ApplyPayment(amount int64, last bool, now int64) {
	if inv.Status == StatusBlocked || inv.Status == StatusClaimable {
		inv.Status = StatusCashFlowing
	}
	inv.Paid += amount
	inv.PaymentsTransferred++
	inv.LastTransferTs = now
	if last {
		inv.Status = StatusFinished
	}
}
