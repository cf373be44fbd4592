package router

import (
	"fmt"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/ans"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/fee"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
)

// Deps are the collaborators shared by the dex, staking and tendermint adapters.
type Deps struct {
	Registry  *Registry
	Ans       *ans.Host
	Accounts  host.AccountRegistry
	Querier   host.Querier
	Probe     host.AddressProbe
	Validator host.AddressValidator
	Fees      fee.Store

	// ExecutorFor and IbcClientFor bind the gateways to the proxy of the
	// account the caller acts for. Both default to the proxy contract clients.
	ExecutorFor  func(proxy string) host.Executor
	IbcClientFor func(proxy string) host.IbcClient

	// OwnerAccount restricts fee updates to the proxy of this account.
	// When nil any account proxy may update the fee.
	OwnerAccount *uint32
}

func (d *Deps) validate() error {
	switch {
	case d.Registry == nil:
		return fmt.Errorf("router: registry is required")
	case d.Ans == nil:
		return fmt.Errorf("router: name service is required")
	case d.Accounts == nil:
		return fmt.Errorf("router: account registry is required")
	case d.Querier == nil:
		return fmt.Errorf("router: querier is required")
	case d.Validator == nil:
		return fmt.Errorf("router: address validator is required")
	}
	if d.Probe == nil {
		d.Probe = host.NewQuerierProbe(d.Querier)
	}
	if d.ExecutorFor == nil {
		d.ExecutorFor = func(proxy string) host.Executor { return host.NewProxyExecutor(proxy) }
	}
	if d.IbcClientFor == nil {
		d.IbcClientFor = func(proxy string) host.IbcClient { return ibcaction.NewClient(proxy) }
	}
	return nil
}
