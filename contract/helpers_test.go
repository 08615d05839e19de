package contract

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment_contract/configuration"
	"investment_contract/hoststate"
	"investment_contract/observability"
	"investment_contract/sdk"
)

const (
	contractAddress = sdk.Address("contract:invest")
	adminAddress    = sdk.Address("hive:tibfox")
	projectAddress  = sdk.Address("hive:project")
	investorAddress = sdk.Address("hive:someone")
	otherInvestor   = sdk.Address("hive:someoneelse")
	outsider        = sdk.Address("hive:outsider")
	testToken       = sdk.TokenHbd

	// 2025-09-03T00:00:00Z
	defaultTimestamp int64 = 1756857600
	startingFunds    int64 = 1_000_000
)

type ContractTest struct {
	Host     *sdk.MockHost
	State    sdk.State
	Contract *Contract
	Obs      *observability.Observability
}

// SetupContractTest spins up a contract on an in-memory host with funded test accounts.
func SetupContractTest(t *testing.T) *ContractTest {
	return setupOn(t, hoststate.NewMemoryState())
}

func setupOn(t *testing.T, state sdk.State) *ContractTest {
	t.Helper()
	host := sdk.NewMockHost(contractAddress, state, defaultTimestamp)
	host.MockAllAuths()
	for _, a := range []sdk.Address{adminAddress, investorAddress, otherInvestor, outsider} {
		host.Mint(testToken, a, startingFunds)
	}
	obs := observability.Make(configuration.Log{Level: "debug"})
	obs.Log().SetOutput(io.Discard)
	return &ContractTest{
		Host:     host,
		State:    state,
		Contract: New(host, WithObservability(obs)),
		Obs:      obs,
	}
}

// defaultParams mirrors the deployment used across the scenarios:
// 5% rate, 7 lock days, 1M goal, reverse loan over 4 months, min 100.
func defaultParams() InitParams {
	return InitParams{
		Admin:            adminAddress,
		ProjectAddress:   projectAddress,
		Token:            testToken,
		Rate:             500,
		ClaimBlockDays:   7,
		Goal:             1_000_000,
		ReturnType:       ReturnReverseLoan,
		ReturnMonths:     4,
		MinPerInvestment: 100,
	}
}

// SetupInitializedTest runs Init with defaultParams adjusted by mutate.
func SetupInitializedTest(t *testing.T, mutate func(p *InitParams)) *ContractTest {
	ct := SetupContractTest(t)
	p := defaultParams()
	if mutate != nil {
		mutate(&p)
	}
	_, err := ct.Contract.Init(p)
	require.NoError(t, err)
	return ct
}

// CallContract runs an operation and asserts the outcome like a tx result.
func CallContract(t *testing.T, action string, call func() error, expectedResult bool) error {
	t.Helper()
	err := call()
	if expectedResult {
		assert.NoError(t, err, fmt.Sprintf("%s failed", action))
	} else {
		assert.Error(t, err, fmt.Sprintf("%s did not fail (as expected)", action))
	}
	return err
}

// CallContractAt runs the operation with the ledger clock set to timestamp.
func CallContractAt(t *testing.T, ct *ContractTest, action string, timestamp int64, call func() error, expectedResult bool) error {
	t.Helper()
	ct.Host.SetTimestamp(timestamp)
	return CallContract(t, action, call, expectedResult)
}

// assertCode checks err carries the contract error want.
func assertCode(t *testing.T, err error, want *Error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, want, "got %v", err)
}

func (ct *ContractTest) invest(t *testing.T, who sdk.Address, amount int64) *Investment {
	t.Helper()
	inv, err := ct.Contract.Invest(who, amount)
	require.NoError(t, err)
	return inv
}

func (ct *ContractTest) balances(t *testing.T) Balances {
	t.Helper()
	b, err := ct.Contract.GetContractBalance()
	require.NoError(t, err)
	return b
}

func (ct *ContractTest) tokens(t *testing.T, who sdk.Address) int64 {
	t.Helper()
	b, err := ct.Host.Balance(testToken, who)
	require.NoError(t, err)
	return b
}

// assertLedgerConsistent checks the accounting identity and that the ledger matches the tokens held.
func (ct *ContractTest) assertLedgerConsistent(t *testing.T) {
	t.Helper()
	b := ct.balances(t)
	assert.Equal(t,
		b.ReceivedSoFar+b.Commission+b.ReserveContributions-b.Payments-b.ProjectWithdrawals,
		b.Reserve+b.Project+b.Commission)
	assert.Equal(t, ct.tokens(t, contractAddress), b.Held())
	assert.GreaterOrEqual(t, b.Reserve, int64(0))
	assert.GreaterOrEqual(t, b.Project, int64(0))
}
