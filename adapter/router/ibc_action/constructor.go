package ibcaction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// NewAppHostAction serializes an adapter message into an app host action
func NewAppHostAction(msg any) (*HostAction, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize host action: %w", err)
	}
	return &HostAction{App: &AppAction{Msg: raw}}, nil
}

func NewDispatchHostAction(msgs []models.CosmosMsg) *HostAction {
	return &HostAction{Dispatch: &DispatchAction{Msgs: msgs}}
}

func NewCallbackInfo(id, receiver string) *CallbackInfo {
	return &CallbackInfo{ID: id, Receiver: receiver}
}

func NewSendFunds(hostChain string, funds []models.Coin) (*SendFunds, error) {
	if strings.TrimSpace(hostChain) == "" {
		return nil, fmt.Errorf("host chain is required")
	}
	if funds == nil {
		funds = []models.Coin{}
	}
	return &SendFunds{HostChain: hostChain, Funds: funds}, nil
}

func NewRemoteAction(
	hostChain string,
	action *HostAction,
	callback *CallbackInfo,
	retries uint8,
) (*RemoteAction, error) {
	if strings.TrimSpace(hostChain) == "" {
		return nil, fmt.Errorf("host chain is required")
	}
	if action == nil || (action.App == nil && action.Dispatch == nil) {
		return nil, fmt.Errorf("host action must hold a variant")
	}
	return &RemoteAction{
		HostChain:    hostChain,
		Action:       *action,
		CallbackInfo: callback,
		Retries:      retries,
	}, nil
}

func NewIbcActionMsg(msgs ...IbcClientMsg) *ProxyMsg {
	return &ProxyMsg{IbcAction: &IbcActionMsg{Msgs: msgs}}
}

func NewModuleActionMsg(msgs []models.CosmosMsg) *ProxyMsg {
	if msgs == nil {
		msgs = []models.CosmosMsg{}
	}
	return &ProxyMsg{ModuleAction: &ModuleActionMsg{Msgs: msgs}}
}
