package router

import (
	"context"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
)

type remoteDispatch struct {
	sender     string
	proxy      string
	hostChain  string
	callbackID string
	coins      []models.Coin
	payload    any
}

// dispatchRemote emits one transfer per coin followed by the action envelope.
// The callback is attached only when the sender owns contract code.
func dispatchRemote(ctx context.Context, deps *Deps, d remoteDispatch) ([]models.CosmosMsg, error) {
	client := deps.IbcClientFor(d.proxy)

	msgs := make([]models.CosmosMsg, 0, len(d.coins)+1)
	for _, coin := range d.coins {
		transfer, err := client.Ics20Transfer(d.hostChain, []models.Coin{coin})
		if err != nil {
			return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to build ics20 transfer", err)
		}
		msgs = append(msgs, transfer)
	}

	action, err := ibcaction.NewAppHostAction(d.payload)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to serialize remote action", err)
	}

	var callback *ibcaction.CallbackInfo
	if deps.Probe.HasCode(ctx, d.sender) {
		callback = ibcaction.NewCallbackInfo(d.callbackID, d.sender)
	}

	envelope, err := client.HostAction(d.hostChain, action, callback, ibcaction.ActionRetries)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to build remote action", err)
	}
	return append(msgs, envelope), nil
}
