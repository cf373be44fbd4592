package venues

import (
	"context"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// RemoteDex is a trading venue that lives on HostChain. Its actions are
// dispatched over IBC, so it never builds local messages.
type RemoteDex struct {
	name      string
	hostChain string
}

var _ Dex = (*RemoteDex)(nil)

func NewRemoteDex(name, hostChain string) *RemoteDex {
	return &RemoteDex{name: name, hostChain: hostChain}
}

func (r *RemoteDex) Name() string      { return r.name }
func (r *RemoteDex) OverIBC() bool     { return true }
func (r *RemoteDex) HostChain() string { return r.hostChain }

func (r *RemoteDex) BuildMessages(context.Context, DexContext, models.DexAction) ([]models.CosmosMsg, error) {
	return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported,
		"%s is remote, its actions are executed on %s", r.name, r.hostChain)
}

// Remote is a remote venue that both trades and stakes. It cannot be
// hydrated since its state lives on the host chain.
type Remote struct {
	RemoteDex
}

var _ Staking = (*Remote)(nil)

func NewRemote(name, hostChain string) *Remote {
	return &Remote{RemoteDex{name: name, hostChain: hostChain}}
}

func (r *Remote) Hydrate(context.Context, HydrateContext, string) (Hydrated, error) {
	return nil, adaptererr.Newf(adaptererr.CodeRemoteQueryUnsupported,
		"%s is remote and cannot be queried from this chain", r.name)
}
