////////////////////////////////////////////////////////////////////////////////
// Investment contract: investor deposits, monthly returns and guarded
// project withdrawals on a token ledger.
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"investment_contract/configuration"
	"investment_contract/contract"
	"investment_contract/hoststate"
	"investment_contract/observability"
	"investment_contract/sdk"
)

const contractAddress = sdk.Address("contract:invest")

// pruner is implemented by backends that physically drop lapsed temporary entries.
type pruner interface {
	PruneTemporary(now int64) (int64, error)
}

// main opens the configured state backend behind a local host and reports what the
// contract holds there.
func main() {
	cfg, err := configuration.Load(os.Args[1:]...)
	if err != nil {
		log.Fatal(err)
	}
	obs := observability.Make(cfg.Log)

	store, err := hoststate.Open(cfg.Storage)
	if err != nil {
		obs.Log().WithError(err).Fatal("failed to open state")
	}
	defer store.Close()

	now := time.Now().Unix()
	if p, ok := store.(pruner); ok {
		n, err := p.PruneTemporary(now)
		if err != nil {
			obs.Log().WithError(err).Warn("failed to prune temporary entries")
		} else if n > 0 {
			obs.Log().WithField("entries", n).Info("pruned lapsed temporary entries")
		}
	}

	host := sdk.NewMockHost(contractAddress, store, now)
	host.MockAllAuths()
	c := contract.New(host, contract.WithObservability(obs))

	settings, err := c.GetConfig()
	if err != nil {
		obs.Log().WithError(err).Info("contract not initialized")
		return
	}
	balances, err := c.GetContractBalance()
	if err != nil {
		obs.Log().WithError(err).Error("failed to read balances")
		return
	}
	fields := log.Fields{
		"admin":        settings.Admin,
		"project":      settings.ProjectAddress,
		"state":        settings.State.String(),
		"reserve":      balances.Reserve,
		"project_pool": balances.Project,
		"received":     balances.ReceivedSoFar,
		"held":         balances.Held(),
	}
	if mem, ok := store.(*hoststate.MemoryState); ok {
		fields["entries"] = mem.Len()
	}
	obs.Log().WithFields(fields).Info("contract loaded")
}
