// Package host holds the collaborators the adapter consumes from the chain it
// runs on: the account registry, the execution proxy, the ibc client, address
// validation and contract queries.
package host

import (
	"context"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
)

// AccountRegistry maps callers to the accounts they act for.
type AccountRegistry interface {
	// AssertProxy fails with Unauthorized unless addr is the proxy of a
	// registered account, and returns that account's id.
	AssertProxy(addr string) (uint32, error)
	// ProxyAddress returns the proxy of an account or AccountNotFound.
	ProxyAddress(accountID uint32) (string, error)
	// TargetOf returns the proxy a sender acts for. A proxy acts for itself
	// and a manager acts for its account's proxy.
	TargetOf(sender string) (string, error)
}

// Executor wraps local messages into one proxy execution message.
type Executor interface {
	Execute(msgs []models.CosmosMsg) (models.CosmosMsg, error)
}

// IbcClient builds the cross-chain messages of a remote dispatch.
type IbcClient interface {
	Ics20Transfer(hostChain string, coins []models.Coin) (models.CosmosMsg, error)
	HostAction(hostChain string, action *ibcaction.HostAction, callback *ibcaction.CallbackInfo, retries uint8) (models.CosmosMsg, error)
}

// ContractInfo is the subset of on-chain contract metadata the adapter reads.
type ContractInfo struct {
	CodeID  uint64 `json:"code_id,string"`
	Creator string `json:"creator"`
	Admin   string `json:"admin"`
	Label   string `json:"label"`
}

// Querier reads contract state from the chain.
type Querier interface {
	ContractInfo(ctx context.Context, addr string) (*ContractInfo, error)
	Smart(ctx context.Context, contract string, msg any, out any) error
}

// DelegationQuerier lists the validators a delegator has bonded to.
type DelegationQuerier interface {
	Delegations(ctx context.Context, delegator string) ([]string, error)
}

// AddressProbe reports whether an address owns contract code.
type AddressProbe interface {
	HasCode(ctx context.Context, addr string) bool
}

// AddressValidator checks that a string is a well formed address of this chain.
type AddressValidator interface {
	Validate(addr string) (string, error)
}
