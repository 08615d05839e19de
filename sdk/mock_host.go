package sdk

import (
	"sync"

	"github.com/pkg/errors"
)

// TransferRecord is one token movement executed through MockHost.
type TransferRecord struct {
	Token  TokenRef
	From   Address
	To     Address
	Amount int64
}

// MockHost is an in-process host used by tests and local runs. It keeps token balances
// in memory, lets callers steer the ledger clock and decides which principals signed.
type MockHost struct {
	mu            sync.Mutex
	state         State
	contract      Address
	now           int64
	decimals      map[TokenRef]uint32
	balances      map[TokenRef]map[Address]int64
	auths         map[Address]bool
	mockAllAuths  bool
	failTransfers int
	transfers     []TransferRecord
}

// DefaultDecimals mirrors the 7-decimal tokens the contract is usually deployed against.
const DefaultDecimals uint32 = 7

// NewMockHost wires a host around the given state backend starting at timestamp now.
// Example payload: sdk.NewMockHost("contract:invest", hoststate.NewMemoryState(), 1_700_000_000)
func NewMockHost(contract Address, state State, now int64) *MockHost {
	return &MockHost{
		state:    state,
		contract: contract,
		now:      now,
		decimals: map[TokenRef]uint32{},
		balances: map[TokenRef]map[Address]int64{},
		auths:    map[Address]bool{},
	}
}

// --- clock ---

func (m *MockHost) Timestamp() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// SetTimestamp jumps the ledger clock to ts.
func (m *MockHost) SetTimestamp(ts int64) {
	m.mu.Lock()
	m.now = ts
	m.mu.Unlock()
}

// Advance moves the ledger clock forward by seconds.
func (m *MockHost) Advance(seconds int64) {
	m.mu.Lock()
	m.now += seconds
	m.mu.Unlock()
}

func (m *MockHost) ContractAddress() Address {
	return m.contract
}

func (m *MockHost) State() State {
	return m.state
}

// --- auth ---

// MockAllAuths makes every RequireAuth succeed.
func (m *MockHost) MockAllAuths() {
	m.mu.Lock()
	m.mockAllAuths = true
	m.mu.Unlock()
}

// Authorize replaces the set of principals that signed the next calls and turns off MockAllAuths.
func (m *MockHost) Authorize(addrs ...Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mockAllAuths = false
	m.auths = make(map[Address]bool, len(addrs))
	for _, a := range addrs {
		m.auths[a] = true
	}
}

func (m *MockHost) RequireAuth(addr Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mockAllAuths || m.auths[addr] {
		return nil
	}
	return errors.Wrapf(ErrNotAuthorized, "principal %s", addr)
}

// --- token ---

// SetDecimals overrides the token scale. Tokens default to DefaultDecimals.
func (m *MockHost) SetDecimals(token TokenRef, decimals uint32) {
	m.mu.Lock()
	m.decimals[token] = decimals
	m.mu.Unlock()
}

func (m *MockHost) Decimals(token TokenRef) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.decimals[token]; ok {
		return d, nil
	}
	return DefaultDecimals, nil
}

// Mint credits amount of token to addr out of thin air.
func (m *MockHost) Mint(token TokenRef, addr Address, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger(token)[addr] += amount
}

func (m *MockHost) Balance(token TokenRef, addr Address) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger(token)[addr], nil
}

// FailNextTransfer makes the next n transfers fail with ErrTransferRejected.
func (m *MockHost) FailNextTransfer(n int) {
	m.mu.Lock()
	m.failTransfers = n
	m.mu.Unlock()
}

func (m *MockHost) Transfer(token TokenRef, from, to Address, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTransfers > 0 {
		m.failTransfers--
		return errors.Wrap(ErrTransferRejected, "injected failure")
	}
	if amount < 0 || from == to {
		return errors.Wrapf(ErrTransferRejected, "amount %d from %s to %s", amount, from, to)
	}
	l := m.ledger(token)
	if l[from] < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %d, needs %d", from, l[from], amount)
	}
	l[from] -= amount
	l[to] += amount
	m.transfers = append(m.transfers, TransferRecord{Token: token, From: from, To: to, Amount: amount})
	return nil
}

// Transfers returns a copy of every successful transfer so far.
func (m *MockHost) Transfers() []TransferRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransferRecord, len(m.transfers))
	copy(out, m.transfers)
	return out
}

func (m *MockHost) ledger(token TokenRef) map[Address]int64 {
	l, ok := m.balances[token]
	if !ok {
		l = map[Address]int64{}
		m.balances[token] = l
	}
	return l
}
