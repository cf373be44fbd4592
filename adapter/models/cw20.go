package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cw20ExecuteMsg is the subset of the cw20 token interface the adapter emits.
type Cw20ExecuteMsg struct {
	Transfer          *Cw20Transfer          `json:"transfer,omitempty"`
	Send              *Cw20Send              `json:"send,omitempty"`
	IncreaseAllowance *Cw20IncreaseAllowance `json:"increase_allowance,omitempty"`
}

type Cw20Transfer struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

// Cw20Send moves tokens to a contract and calls it with Msg (base64 JSON).
type Cw20Send struct {
	Contract string          `json:"contract"`
	Amount   decimal.Decimal `json:"amount"`
	Msg      []byte          `json:"msg"`
}

type Cw20IncreaseAllowance struct {
	Spender string          `json:"spender"`
	Amount  decimal.Decimal `json:"amount"`
}

func NewCw20Transfer(token, recipient string, amount decimal.Decimal) (CosmosMsg, error) {
	return NewWasmExecute(token, Cw20ExecuteMsg{Transfer: &Cw20Transfer{Recipient: recipient, Amount: amount}}, nil)
}

// NewCw20Send sends amount of token to contract together with the hook message.
func NewCw20Send(token, contract string, amount decimal.Decimal, hook any) (CosmosMsg, error) {
	raw, err := json.Marshal(hook)
	if err != nil {
		return CosmosMsg{}, fmt.Errorf("failed to marshal cw20 hook: %w", err)
	}
	return NewWasmExecute(token, Cw20ExecuteMsg{Send: &Cw20Send{Contract: contract, Amount: amount, Msg: raw}}, nil)
}

func NewCw20IncreaseAllowance(token, spender string, amount decimal.Decimal) (CosmosMsg, error) {
	return NewWasmExecute(token, Cw20ExecuteMsg{IncreaseAllowance: &Cw20IncreaseAllowance{Spender: spender, Amount: amount}}, nil)
}

// NewTransfer pays asset to recipient with a bank send or a cw20 transfer.
func NewTransfer(asset Asset, recipient string) (CosmosMsg, error) {
	if asset.Info.IsNative() {
		return NewBankSend(recipient, NewCoin(asset.Info.Native, asset.Amount)), nil
	}
	return NewCw20Transfer(asset.Info.Cw20, recipient, asset.Amount)
}
