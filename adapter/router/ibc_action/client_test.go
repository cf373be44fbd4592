package ibcaction_test

import (
	"encoding/json"
	"testing"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

func decodeProxyMsg(t *testing.T, msg models.CosmosMsg) ibcaction.ProxyMsg {
	t.Helper()
	assert.NotNil(t, msg.Wasm)
	var out ibcaction.ProxyMsg
	assert.NoError(t, json.Unmarshal(msg.Wasm.Execute.Msg, &out))
	return out
}

func TestIcs20Transfer(t *testing.T) {
	client := ibcaction.NewClient("juno1proxy")
	coins := []models.Coin{models.NewCoin("ujuno", decimal.NewFromInt(50))}

	msg, err := client.Ics20Transfer("osmosis", coins)
	assert.NoError(t, err)
	assert.Equal(t, msg.Wasm.Execute.ContractAddr, "juno1proxy")

	decoded := decodeProxyMsg(t, msg)
	assert.NotNil(t, decoded.IbcAction)
	assert.Equal(t, len(decoded.IbcAction.Msgs), 1)
	send := decoded.IbcAction.Msgs[0].SendFunds
	assert.NotNil(t, send)
	assert.Equal(t, send.HostChain, "osmosis")
	assert.Equal(t, send.Funds[0].Denom, "ujuno")
}

func TestHostActionCarriesCallbackAndRetries(t *testing.T) {
	client := ibcaction.NewClient("juno1proxy")
	action, err := ibcaction.NewAppHostAction(map[string]string{"hello": "world"})
	assert.NoError(t, err)

	callback := ibcaction.NewCallbackInfo(ibcaction.IbcDexID, "juno1contract")
	msg, err := client.HostAction("osmosis", action, callback, ibcaction.ActionRetries)
	assert.NoError(t, err)

	remote := decodeProxyMsg(t, msg).IbcAction.Msgs[0].RemoteAction
	assert.NotNil(t, remote)
	assert.Equal(t, remote.Retries, uint8(3))
	assert.Equal(t, remote.CallbackInfo.ID, "abstract:dex")
	assert.Equal(t, remote.CallbackInfo.Receiver, "juno1contract")
	assert.Equal(t, string(remote.Action.App.Msg), `{"hello":"world"}`)
}

func TestHostActionValidation(t *testing.T) {
	client := ibcaction.NewClient("juno1proxy")

	_, err := client.HostAction("", &ibcaction.HostAction{}, nil, 3)
	assert.Error(t, err)

	_, err = client.HostAction("osmosis", &ibcaction.HostAction{}, nil, 3)
	assert.Error(t, err)

	_, err = ibcaction.NewClient("").Ics20Transfer("osmosis", nil)
	assert.Error(t, err)
}

func TestHostActionJSONOmitsEmptyCallback(t *testing.T) {
	action := ibcaction.NewDispatchHostAction(nil)
	remote, err := ibcaction.NewRemoteAction("kujira", action, nil, ibcaction.ActionRetries)
	assert.NoError(t, err)

	raw, err := json.Marshal(remote)
	assert.NoError(t, err)
	assert.Equal(t, string(raw), `{"host_chain":"kujira","action":{"dispatch":{"msgs":null}},"retries":3}`)
}
