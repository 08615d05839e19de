package contract

import "investment_contract/sdk"

// ContractState is the investment window lifecycle.
type ContractState uint8

const (
	StatePending      ContractState = 0
	StateActive       ContractState = 1
	StateFundsReached ContractState = 2
	StatePaused       ContractState = 3
)

// String prints the contract state as lower-case text for logs.
// Example payload: StatePaused.String()
func (s ContractState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateFundsReached:
		return "funds_reached"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ReturnType is how an investment pays back.
type ReturnType uint8

const (
	// ReturnReverseLoan pays principal plus interest in equal installments.
	ReturnReverseLoan ReturnType = 1
	// ReturnCoupon pays interest in installments and the principal with the last one.
	ReturnCoupon ReturnType = 2
)

func (r ReturnType) String() string {
	switch r {
	case ReturnReverseLoan:
		return "reverse_loan"
	case ReturnCoupon:
		return "coupon"
	default:
		return "unknown"
	}
}

func (r ReturnType) valid() bool {
	return r == ReturnReverseLoan || r == ReturnCoupon
}

// InvestmentStatus tracks one investment from deposit to the final installment.
type InvestmentStatus uint8

const (
	// StatusBlocked is a fresh investment inside its claim lock period.
	StatusBlocked InvestmentStatus = 1
	// StatusClaimable is a fresh investment without lock period.
	StatusClaimable InvestmentStatus = 2
	// StatusCashFlowing has received at least one installment.
	StatusCashFlowing InvestmentStatus = 3
	// StatusFinished is terminal.
	StatusFinished InvestmentStatus = 4
)

func (s InvestmentStatus) String() string {
	switch s {
	case StatusBlocked:
		return "blocked"
	case StatusClaimable:
		return "claimable"
	case StatusCashFlowing:
		return "cash_flowing"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MultisigStatus is what a signature call reports back.
type MultisigStatus uint8

const (
	MultisigWaitingForSignatures MultisigStatus = 1
	MultisigCompleted            MultisigStatus = 2
)

func (s MultisigStatus) String() string {
	switch s {
	case MultisigWaitingForSignatures:
		return "waiting_for_signatures"
	case MultisigCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MultisigFunction tags which action a multisig request authorizes.
type MultisigFunction string

const (
	FunctionWithdraw MultisigFunction = "withdraw"
)

// Config is created once by Init. Only State changes afterwards.
type Config struct {
	Admin            sdk.Address
	ProjectAddress   sdk.Address
	Token            sdk.TokenRef
	Rate             uint32
	ClaimBlockDays   uint64
	Goal             int64
	ReturnType       ReturnType
	ReturnMonths     uint32
	MinPerInvestment int64
	State            ContractState
}

// Balances is the fund ledger. The pools hold what the contract owns right now,
// the counters only ever grow.
type Balances struct {
	Reserve    int64
	Project    int64
	Commission int64

	ReceivedSoFar             int64
	Payments                  int64
	ReserveContributions      int64
	ProjectWithdrawals        int64
	MovedFromProjectToReserve int64
}

// Amounts is the result of splitting one deposit.
type Amounts struct {
	ToInvest     int64
	ToReserve    int64
	ToCommission int64
}

// InvestmentKey identifies one deposit. An investor may hold several, one per claimable ts.
type InvestmentKey struct {
	Investor    sdk.Address
	ClaimableTs int64
}

type Investment struct {
	Investor            sdk.Address
	Deposited           int64
	AccumulatedInterest int64
	Total               int64
	Commission          int64
	ClaimableTs         int64
	LastTransferTs      int64
	RegularPayment      int64
	Paid                int64
	PaymentsTransferred uint32
	Status              InvestmentStatus
}

// Key returns the composite storage identity of the investment.
func (inv *Investment) Key() InvestmentKey {
	return InvestmentKey{Investor: inv.Investor, ClaimableTs: inv.ClaimableTs}
}

// Claim is the next due installment of one investment.
type Claim struct {
	NextTransferTs int64
	AmountToPay    int64
}

type MultisigRequest struct {
	Function        MultisigFunction
	ExpectedSigners []sdk.Address
	Signed          []sdk.Address
	Amount          int64
	ValidTs         int64
}

// InitParams carries the one-time configuration passed to Init.
type InitParams struct {
	Admin            sdk.Address
	ProjectAddress   sdk.Address
	Token            sdk.TokenRef
	Rate             uint32
	ClaimBlockDays   uint64
	Goal             int64
	ReturnType       ReturnType
	ReturnMonths     uint32
	MinPerInvestment int64
}
