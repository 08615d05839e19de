package contract

import (
	"sync"

	"github.com/sirupsen/logrus"

	"investment_contract/configuration"
	"investment_contract/observability"
	"investment_contract/sdk"
)

// Contract runs the investment operations against a host. Calls are serialized so a
// process-local host sees the same one-call-at-a-time execution a ledger gives.
type Contract struct {
	mu      sync.Mutex
	host    sdk.Host
	log     logrus.FieldLogger
	metrics *observability.ContractMetrics
}

type Option func(*Contract)

// WithObservability routes logs and metrics to obs.
func WithObservability(obs *observability.Observability) Option {
	return func(c *Contract) {
		c.log = obs.Log()
		c.metrics = observability.MakeContractMetrics(obs)
	}
}

func New(host sdk.Host, opts ...Option) *Contract {
	c := &Contract{host: host}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil || c.metrics == nil {
		WithObservability(observability.Make(configuration.Default().Log))(c)
	}
	return c
}

type transfer struct {
	from   sdk.Address
	to     sdk.Address
	amount int64
}

func (c *Contract) begin() *callState {
	return newCallState(c.host.State(), c.host.Timestamp())
}

func (c *Contract) requireAuth(addr sdk.Address) error {
	if err := c.host.RequireAuth(addr); err != nil {
		return ErrUnauthorized.wrap(err)
	}
	return nil
}

// settle performs the single token movement of a call and then commits the staged
// writes. A failed transfer leaves storage untouched. If the commit fails after the
// transfer went through, the transfer is reversed.
func (c *Contract) settle(cs *callState, token sdk.TokenRef, t *transfer) error {
	if t != nil && t.amount > 0 {
		if err := c.host.Transfer(token, t.from, t.to, t.amount); err != nil {
			return ErrTransferFailed.wrap(err)
		}
	}
	if err := cs.commit(); err != nil {
		if t != nil && t.amount > 0 {
			if rerr := c.host.Transfer(token, t.to, t.from, t.amount); rerr != nil {
				c.log.WithError(rerr).WithField("amount", t.amount).
					Error("failed to reverse transfer after storage failure")
			}
		}
		return err
	}
	return nil
}

// adminCall loads the configuration and checks the admin signed the call.
func (c *Contract) adminCall() (*callState, *Config, error) {
	cs := c.begin()
	cfg, err := cs.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := c.requireAuth(cfg.Admin); err != nil {
		return nil, nil, err
	}
	return cs, cfg, nil
}

// -----------------------------------------------------------------------------
// Setup
// -----------------------------------------------------------------------------

// Init stores the configuration once and opens the investment window.
// Example payload: Init(InitParams{Admin: "hive:admin", ProjectAddress: "hive:project", Token: sdk.TokenHbd, Rate: 500, ReturnType: ReturnReverseLoan, ReturnMonths: 4, MinPerInvestment: 100})
func (c *Contract) Init(p InitParams) (cfg *Config, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		c.record("init", c.metrics.Inits, err, logrus.Fields{"admin": p.Admin, "goal": p.Goal})
	}()

	if err := c.requireAuth(p.Admin); err != nil {
		return nil, err
	}
	cs := c.begin()
	initialized, err := cs.isInitialized()
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, ErrAlreadyInitialized
	}
	switch {
	case !p.Admin.IsValid():
		return nil, ErrInvalidAddress.wrapf("admin %q", p.Admin)
	case !p.ProjectAddress.IsValid():
		return nil, ErrInvalidAddress.wrapf("project %q", p.ProjectAddress)
	case p.Token == "":
		return nil, ErrInvalidAddress.wrapf("token is empty")
	case p.Rate == 0:
		return nil, ErrRateMustBePositive
	case p.Rate > MaxRate:
		return nil, ErrRateTooHigh.wrapf("max %d, got %d", MaxRate, p.Rate)
	case p.Goal < 0:
		return nil, ErrGoalNegative
	case !p.ReturnType.valid():
		return nil, ErrUnsupportedReturnType.wrapf("%d", p.ReturnType)
	case p.ReturnMonths == 0:
		return nil, ErrReturnMonthsZero
	case p.MinPerInvestment <= 0:
		return nil, ErrAmountLessOrEqualZero.wrapf("min per investment")
	}

	cfg = &Config{
		Admin:            p.Admin,
		ProjectAddress:   p.ProjectAddress,
		Token:            p.Token,
		Rate:             p.Rate,
		ClaimBlockDays:   p.ClaimBlockDays,
		Goal:             p.Goal,
		ReturnType:       p.ReturnType,
		ReturnMonths:     p.ReturnMonths,
		MinPerInvestment: p.MinPerInvestment,
		State:            StateActive,
	}
	if err := cs.saveConfig(cfg); err != nil {
		return nil, err
	}
	if err := cs.saveBalances(Balances{}); err != nil {
		return nil, err
	}
	if err := cs.commit(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Investing
// -----------------------------------------------------------------------------

// Invest pulls amount from the investor, splits it into the pools and opens a new record.
// Example payload: Invest("hive:alice", 100000)
func (c *Contract) Invest(investor sdk.Address, amount int64) (inv *Investment, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		c.record("invest", c.metrics.Investments, err, logrus.Fields{"investor": investor, "amount": amount})
	}()

	if err := c.requireAuth(investor); err != nil {
		return nil, err
	}
	cs := c.begin()
	cfg, err := cs.loadConfig()
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrAmountLessOrEqualZero
	}
	switch cfg.State {
	case StateActive:
	case StatePaused:
		return nil, ErrContractPaused
	case StateFundsReached:
		return nil, ErrGoalReached
	default:
		return nil, ErrInvalidStateTransition.wrapf("state %s", cfg.State)
	}
	if amount < cfg.MinPerInvestment {
		return nil, ErrAmountBelowMinimum.wrapf("min %d, got %d", cfg.MinPerInvestment, amount)
	}
	held, err := c.host.Balance(cfg.Token, investor)
	if err != nil {
		return nil, ErrTransferFailed.wrap(err)
	}
	if held < amount {
		return nil, ErrAddressInsufficientBalance.wrapf("%s holds %d", investor, held)
	}
	decimals, err := c.host.Decimals(cfg.Token)
	if err != nil {
		return nil, ErrTransferFailed.wrap(err)
	}
	amounts, err := Split(amount, cfg.Rate, decimals)
	if err != nil {
		return nil, err
	}

	balances, err := cs.loadBalances()
	if err != nil {
		return nil, err
	}
	next, err := balances.ApplyInvestment(amounts)
	if err != nil {
		return nil, err
	}
	if cfg.Goal > 0 && next.ReceivedSoFar > cfg.Goal {
		return nil, ErrGoalReached.wrapf("received %d, goal %d", balances.ReceivedSoFar, cfg.Goal)
	}
	created, err := NewInvestment(cfg, investor, amounts, cs.now)
	if err != nil {
		return nil, err
	}
	existing, err := cs.loadInvestment(created.Key())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAddressAlreadyInvested
	}
	balances = next
	claims, err := cs.loadClaims()
	if err != nil {
		return nil, err
	}
	claims.Reschedule(&created, cfg, cs.now)

	if cfg.Goal > 0 && balances.ReceivedSoFar == cfg.Goal {
		cfg.State = StateFundsReached
		if err := cs.saveConfig(cfg); err != nil {
			return nil, err
		}
	}
	if err := cs.saveBalances(balances); err != nil {
		return nil, err
	}
	if err := cs.saveInvestment(&created); err != nil {
		return nil, err
	}
	if err := cs.saveClaims(claims); err != nil {
		return nil, err
	}
	if err := c.settle(cs, cfg.Token, &transfer{from: investor, to: c.host.ContractAddress(), amount: amount}); err != nil {
		return nil, err
	}
	return &created, nil
}

// ProcessInvestorPayment pays the next installment of one investment out of the reserve.
// Example payload: ProcessInvestorPayment("hive:alice", 1757462400)
func (c *Contract) ProcessInvestorPayment(investor sdk.Address, claimableTs int64) (inv *Investment, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		c.record("process_investor_payment", c.metrics.Payments, err,
			logrus.Fields{"investor": investor, "claimable_ts": claimableTs})
	}()

	cs, cfg, err := c.adminCall()
	if err != nil {
		return nil, err
	}
	inv, err = cs.loadInvestment(InvestmentKey{Investor: investor, ClaimableTs: claimableTs})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrAddressHasNotInvested
	}
	if err := inv.CheckPayable(cs.now); err != nil {
		return nil, err
	}
	amount, last := inv.NextInstallment(cfg)
	balances, err := cs.loadBalances()
	if err != nil {
		return nil, err
	}
	if amount > 0 {
		if balances, err = balances.ApplyInvestorPayment(amount); err != nil {
			return nil, err
		}
	}
	inv.ApplyPayment(amount, last, cs.now)

	claims, err := cs.loadClaims()
	if err != nil {
		return nil, err
	}
	claims.Reschedule(inv, cfg, cs.now)

	if err := cs.saveBalances(balances); err != nil {
		return nil, err
	}
	if err := cs.saveInvestment(inv); err != nil {
		return nil, err
	}
	if err := cs.saveClaims(claims); err != nil {
		return nil, err
	}
	if err := c.settle(cs, cfg.Token, &transfer{from: c.host.ContractAddress(), to: investor, amount: amount}); err != nil {
		return nil, err
	}
	return inv, nil
}

// -----------------------------------------------------------------------------
// Investment window
// -----------------------------------------------------------------------------

// StopInvestments pauses new deposits.
func (c *Contract) StopInvestments() (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.record("stop_investments", c.metrics.StateChanges, err, nil) }()

	return c.switchState(StateActive, StatePaused, ErrAlreadyPaused)
}

// RestartInvestments reopens a paused investment window.
func (c *Contract) RestartInvestments() (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.record("restart_investments", c.metrics.StateChanges, err, nil) }()

	return c.switchState(StatePaused, StateActive, ErrAlreadyActive)
}

// switchState moves from -> to. Being in to already fails with already.
func (c *Contract) switchState(from, to ContractState, already *Error) error {
	cs, cfg, err := c.adminCall()
	if err != nil {
		return err
	}
	switch cfg.State {
	case from:
	case to:
		return already
	default:
		return ErrInvalidStateTransition.wrapf("%s to %s", cfg.State, to)
	}
	cfg.State = to
	if err := cs.saveConfig(cfg); err != nil {
		return err
	}
	return cs.commit()
}

// -----------------------------------------------------------------------------
// Funds
// -----------------------------------------------------------------------------

// SingleWithdrawn pays amount from the project pool to the project address on the admin's word alone.
// Example payload: SingleWithdrawn(40000)
func (c *Contract) SingleWithdrawn(amount int64) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.record("single_withdrawn", c.metrics.Withdrawals, err, logrus.Fields{"amount": amount}) }()

	cs, cfg, err := c.adminCall()
	if err != nil {
		return err
	}
	balances, err := cs.loadBalances()
	if err != nil {
		return err
	}
	if balances, err = balances.ApplyProjectWithdrawal(amount); err != nil {
		return err
	}
	if err := cs.saveBalances(balances); err != nil {
		return err
	}
	return c.settle(cs, cfg.Token, &transfer{from: c.host.ContractAddress(), to: cfg.ProjectAddress, amount: amount})
}

// MultisigWithdrawn records signer's approval of a project withdrawal of amount and
// executes it once admin and project address both signed the same amount.
// Example payload: MultisigWithdrawn("hive:admin", 40000)
func (c *Contract) MultisigWithdrawn(signer sdk.Address, amount int64) (status MultisigStatus, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		c.record("multisig_withdrawn", c.metrics.Signatures, err,
			logrus.Fields{"signer": signer, "amount": amount, "status": status.String()})
	}()

	if err := c.requireAuth(signer); err != nil {
		return 0, err
	}
	cs := c.begin()
	cfg, err := cs.loadConfig()
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, ErrAmountLessOrEqualZero
	}
	balances, err := cs.loadBalances()
	if err != nil {
		return 0, err
	}
	if amount > balances.Project {
		return 0, ErrContractInsufficientBalance.wrapf("project pool %d, requested %d", balances.Project, amount)
	}
	req, err := cs.loadMultisig(FunctionWithdraw)
	if err != nil {
		return 0, err
	}
	if req == nil {
		fresh := NewMultisigRequest(FunctionWithdraw, cfg, amount, cs.now)
		req = &fresh
	}
	if err := req.Validate(signer, amount, cs.now); err != nil {
		return 0, err
	}
	req.Sign(signer)

	if !req.Complete() {
		if err := cs.saveMultisig(req); err != nil {
			return 0, err
		}
		if err := cs.commit(); err != nil {
			return 0, err
		}
		return MultisigWaitingForSignatures, nil
	}

	if balances, err = balances.ApplyProjectWithdrawal(amount); err != nil {
		return 0, err
	}
	cs.deleteMultisig(FunctionWithdraw)
	if err := cs.saveBalances(balances); err != nil {
		return 0, err
	}
	if err := c.settle(cs, cfg.Token, &transfer{from: c.host.ContractAddress(), to: cfg.ProjectAddress, amount: amount}); err != nil {
		return 0, err
	}
	c.metrics.Withdrawals.Inc()
	return MultisigCompleted, nil
}

// AddCompanyTransfer moves amount from the admin's own account into the reserve.
// Example payload: AddCompanyTransfer(100000)
func (c *Contract) AddCompanyTransfer(amount int64) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.record("add_company_transfer", c.metrics.Contributions, err, logrus.Fields{"amount": amount}) }()

	cs, cfg, err := c.adminCall()
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrAmountLessOrEqualZero
	}
	held, err := c.host.Balance(cfg.Token, cfg.Admin)
	if err != nil {
		return ErrTransferFailed.wrap(err)
	}
	if held < amount {
		return ErrAddressInsufficientBalance.wrapf("%s holds %d", cfg.Admin, held)
	}
	balances, err := cs.loadBalances()
	if err != nil {
		return err
	}
	if balances, err = balances.ApplyCompanyContribution(amount); err != nil {
		return err
	}
	if err := cs.saveBalances(balances); err != nil {
		return err
	}
	return c.settle(cs, cfg.Token, &transfer{from: cfg.Admin, to: c.host.ContractAddress(), amount: amount})
}

// MoveFundsToReserve shifts amount from the project pool into the reserve. No tokens move.
// Example payload: MoveFundsToReserve(20000)
func (c *Contract) MoveFundsToReserve(amount int64) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.record("move_funds_to_reserve", c.metrics.Moves, err, logrus.Fields{"amount": amount}) }()

	cs, _, err := c.adminCall()
	if err != nil {
		return err
	}
	balances, err := cs.loadBalances()
	if err != nil {
		return err
	}
	if balances, err = balances.ApplyMoveToReserve(amount); err != nil {
		return err
	}
	if err := cs.saveBalances(balances); err != nil {
		return err
	}
	return cs.commit()
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// GetContractBalance returns the fund ledger.
func (c *Contract) GetContractBalance() (b Balances, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.record("get_contract_balance", c.metrics.Reads, err, nil) }()

	cs, _, err := c.adminCall()
	if err != nil {
		return Balances{}, err
	}
	if b, err = cs.loadBalances(); err != nil {
		return Balances{}, err
	}
	return b, cs.commit()
}

// CheckReserveBalance returns how much the reserve lacks to pay every claim due within a week.
func (c *Contract) CheckReserveBalance() (shortfall int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.record("check_reserve_balance", c.metrics.Reads, err, logrus.Fields{"shortfall": shortfall}) }()

	return c.forecast(func(b Balances) int64 { return b.Reserve })
}

// CheckProjectAddressBalance is CheckReserveBalance measured against the project pool.
func (c *Contract) CheckProjectAddressBalance() (shortfall int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		c.record("check_project_address_balance", c.metrics.Reads, err, logrus.Fields{"shortfall": shortfall})
	}()

	return c.forecast(func(b Balances) int64 { return b.Project })
}

func (c *Contract) forecast(pool func(Balances) int64) (int64, error) {
	cs, _, err := c.adminCall()
	if err != nil {
		return 0, err
	}
	claims, err := cs.loadClaims()
	if err != nil {
		return 0, err
	}
	balances, err := cs.loadBalances()
	if err != nil {
		return 0, err
	}
	shortfall := Shortfall(claims.DueWithin(cs.now, ClaimLookahead), pool(balances))
	return shortfall, cs.commit()
}

// GetInvestment returns one investment record. Anyone may read it.
// Example payload: GetInvestment("hive:alice", 1757462400)
func (c *Contract) GetInvestment(investor sdk.Address, claimableTs int64) (*Investment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs := c.begin()
	if _, err := cs.loadConfig(); err != nil {
		return nil, err
	}
	inv, err := cs.loadInvestment(InvestmentKey{Investor: investor, ClaimableTs: claimableTs})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrAddressHasNotInvested
	}
	return inv, cs.commit()
}

// GetConfig returns the stored configuration.
func (c *Contract) GetConfig() (*Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs := c.begin()
	cfg, err := cs.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg, cs.commit()
}

// PendingWithdrawal returns the open multisig withdrawal request, or nil.
func (c *Contract) PendingWithdrawal() (*MultisigRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs := c.begin()
	if _, err := cs.loadConfig(); err != nil {
		return nil, err
	}
	return cs.loadMultisig(FunctionWithdraw)
}
