package ibcaction

import (
	"encoding/json"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// ActionRetries is the delivery attempt ceiling attached to every remote action.
const ActionRetries uint8 = 3

// Callback route ids, one per adapter.
const (
	IbcDexID     = "abstract:dex"
	IbcStakingID = "abstract:cw-staking"
)

// HostActionEnum defines what the host chain does with a remote action
type HostActionEnum string

const (
	HostActionEnumApp      HostActionEnum = "app"
	HostActionEnumDispatch HostActionEnum = "dispatch"
)

// HostAction is the payload executed on the host chain (union type)
type HostAction struct {
	App      *AppAction      `json:"app,omitempty"`
	Dispatch *DispatchAction `json:"dispatch,omitempty"`
}

// AppAction carries a serialized adapter message the host app understands
type AppAction struct {
	Msg []byte `json:"msg"`
}

// DispatchAction carries raw messages the remote account executes directly
type DispatchAction struct {
	Msgs []models.CosmosMsg `json:"msgs"`
}

// CallbackInfo tells the host chain whom to notify when the action completes
type CallbackInfo struct {
	ID       string `json:"id"`
	Receiver string `json:"receiver"`
}

// ProxyMsg is the top-level message executed by the account proxy
type ProxyMsg struct {
	IbcAction    *IbcActionMsg    `json:"ibc_action,omitempty"`
	ModuleAction *ModuleActionMsg `json:"module_action,omitempty"`
}

// ModuleActionMsg asks the proxy to execute local messages on behalf of a module
type ModuleActionMsg struct {
	Msgs []models.CosmosMsg `json:"msgs"`
}

// IbcActionMsg asks the proxy to forward messages to its ibc client
type IbcActionMsg struct {
	Msgs []IbcClientMsg `json:"msgs"`
}

// IbcClientMsg is one instruction for the ibc client (union type)
type IbcClientMsg struct {
	SendFunds    *SendFunds    `json:"send_funds,omitempty"`
	RemoteAction *RemoteAction `json:"remote_action,omitempty"`
}

// SendFunds is the ICS20 transfer toward a host chain
type SendFunds struct {
	HostChain string        `json:"host_chain"`
	Funds     []models.Coin `json:"funds"`
}

// RemoteAction is the action envelope addressed to a host chain
type RemoteAction struct {
	HostChain    string        `json:"host_chain"`
	Action       HostAction    `json:"action"`
	CallbackInfo *CallbackInfo `json:"callback_info,omitempty"`
	Retries      uint8         `json:"retries"`
}

// ToJSON marshals the ProxyMsg to JSON string
func (m *ProxyMsg) ToJSON() (string, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ToJSON marshals the HostAction to JSON string
func (a *HostAction) ToJSON() (string, error) {
	bytes, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
