package ibcaction

import (
	"fmt"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// Client builds ibc client instructions executed through an account proxy.
type Client struct {
	proxy string
}

// NewClient creates a client that routes through the given proxy contract.
func NewClient(proxy string) *Client {
	return &Client{proxy: proxy}
}

// Ics20Transfer moves coins from the proxy to its remote account on hostChain.
func (c *Client) Ics20Transfer(hostChain string, coins []models.Coin) (models.CosmosMsg, error) {
	send, err := NewSendFunds(hostChain, coins)
	if err != nil {
		return models.CosmosMsg{}, err
	}
	return c.wrap(IbcClientMsg{SendFunds: send})
}

// HostAction asks the remote account on hostChain to execute action.
func (c *Client) HostAction(
	hostChain string,
	action *HostAction,
	callback *CallbackInfo,
	retries uint8,
) (models.CosmosMsg, error) {
	remote, err := NewRemoteAction(hostChain, action, callback, retries)
	if err != nil {
		return models.CosmosMsg{}, err
	}
	return c.wrap(IbcClientMsg{RemoteAction: remote})
}

func (c *Client) wrap(msg IbcClientMsg) (models.CosmosMsg, error) {
	if c.proxy == "" {
		return models.CosmosMsg{}, fmt.Errorf("ibc client has no proxy address")
	}
	out, err := models.NewWasmExecute(c.proxy, NewIbcActionMsg(msg), nil)
	if err != nil {
		return models.CosmosMsg{}, fmt.Errorf("failed to serialize ibc action: %w", err)
	}
	return out, nil
}
