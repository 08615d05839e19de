package contract

// -----------------------------------------------------------------------------
// Time
// -----------------------------------------------------------------------------

const (
	SecondsInDay int64 = 86400
	Week               = 7 * SecondsInDay
	Month              = 30 * SecondsInDay
)

const (
	// PaymentInterval is the minimum distance between two installments of one investment.
	PaymentInterval = Month
	// ClaimLookahead is the horizon the liquidity forecast looks into.
	ClaimLookahead = Week
	// MultisigValidity is how long a withdrawal request accepts signatures after creation.
	MultisigValidity = SecondsInDay
)

// -----------------------------------------------------------------------------
// Rates and Splits
// -----------------------------------------------------------------------------

const (
	// ReservePercent of every deposit goes to the reserve pool.
	ReservePercent int64 = 5
	// RateScale turns a basis-point rate into a fraction (500 = 5%).
	RateScale int64 = 10_000
	// MaxRate is the highest rate Init accepts. Above it the commission exceeds any deposit.
	MaxRate uint32 = 100_000

	MinRateDenominator uint32 = 10
	MaxRateDenominator uint32 = 14
	// DenominatorThreshold is the deposit size (whole tokens) up to which the minimum denominator applies.
	DenominatorThreshold int64 = 150
	// DenominatorStep is the deposit size (whole tokens) that adds one to the denominator above the threshold.
	DenominatorStep int64 = 250
)

// -----------------------------------------------------------------------------
// Storage Lifetimes
// -----------------------------------------------------------------------------

const (
	instanceLifetimeThreshold   = 6 * SecondsInDay
	instanceBumpAmount          = 7 * SecondsInDay
	persistentLifetimeThreshold = 29 * SecondsInDay
	persistentBumpAmount        = 30 * SecondsInDay
	temporaryLifetime           = 7 * SecondsInDay
)

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kConfig stores the Config singleton (instance tier).
	kConfig byte = 0x01
	// kBalances stores the Balances ledger singleton (instance tier).
	kBalances byte = 0x02
	// kClaims stores the whole claim schedule as one list (instance tier).
	kClaims byte = 0x03
	// kInvestment houses Investment records keyed by investor+claimable ts (persistent tier).
	kInvestment byte = 0x10
	// kMultisig stores the open MultisigRequest per function (temporary tier).
	kMultisig byte = 0x20
)
