package sdk

import "github.com/pkg/errors"

// Tier selects the storage lifetime class of an entry.
type Tier uint8

const (
	// TierTemporary entries lapse once their lifetime ends and are never restored.
	TierTemporary Tier = 0
	// TierInstance holds contract-wide singletons that live as long as the contract is touched.
	TierInstance Tier = 1
	// TierPersistent holds long-lived per-entity records.
	TierPersistent Tier = 2
)

// String prints the tier as lower-case text for logs and snapshot files.
// Example payload: sdk.TierInstance.String()
func (t Tier) String() string {
	switch t {
	case TierTemporary:
		return "temporary"
	case TierInstance:
		return "instance"
	case TierPersistent:
		return "persistent"
	default:
		return "unknown"
	}
}

// Entry is a stored value together with the ledger timestamp it stays live until.
type Entry struct {
	Value     string
	LiveUntil int64
}

// Write is one staged mutation. A nil Value deletes the key.
type Write struct {
	Tier      Tier
	Key       string
	Value     *string
	LiveUntil int64
}

// State is the durable key-value substrate supplied by the host.
// Get returns nil when the key is missing. Apply must be all-or-nothing.
type State interface {
	Get(tier Tier, key string) (*Entry, error)
	Apply(writes []Write) error
}

// Env exposes the ledger clock, the running contract identity and the authorization check.
type Env interface {
	Timestamp() int64
	ContractAddress() Address
	RequireAuth(addr Address) error
}

// Token is the transfer primitive of the settlement token.
type Token interface {
	Balance(token TokenRef, addr Address) (int64, error)
	Transfer(token TokenRef, from, to Address, amount int64) error
	Decimals(token TokenRef) (uint32, error)
}

// Host bundles everything a contract call needs from its execution environment.
type Host interface {
	Env
	Token
	State() State
}

var (
	// ErrNotAuthorized is returned by RequireAuth when the principal did not sign the call.
	ErrNotAuthorized = errors.New("authorization missing")
	// ErrInsufficientFunds is returned by Transfer when the sender cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransferRejected is returned by Transfer for malformed or refused transfers.
	ErrTransferRejected = errors.New("transfer rejected")
)
