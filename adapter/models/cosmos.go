package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Coin is a native bank denomination with an integer amount.
type Coin struct {
	Denom  string          `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
}

func NewCoin(denom string, amount decimal.Decimal) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// AssetInfo is either a native denom or a cw20 contract address (union type).
type AssetInfo struct {
	Native string `json:"native,omitempty" toml:"native,omitempty" yaml:"native,omitempty"`
	Cw20   string `json:"cw20,omitempty" toml:"cw20,omitempty" yaml:"cw20,omitempty"`
}

func NewNativeAssetInfo(denom string) AssetInfo {
	return AssetInfo{Native: denom}
}

func NewCw20AssetInfo(contract string) AssetInfo {
	return AssetInfo{Cw20: contract}
}

func (i AssetInfo) IsNative() bool {
	return i.Native != ""
}

// String renders the info the way the directory keys it, native:denom or cw20:addr.
func (i AssetInfo) String() string {
	if i.IsNative() {
		return "native:" + i.Native
	}
	return "cw20:" + i.Cw20
}

// Asset is a concrete asset with an amount, the resolved form of an AnsAsset.
type Asset struct {
	Info   AssetInfo       `json:"info"`
	Amount decimal.Decimal `json:"amount"`
}

// CosmosMsg is an outbound message (union type). Exactly one field is set.
type CosmosMsg struct {
	Wasm         *WasmMsg         `json:"wasm,omitempty"`
	Bank         *BankMsg         `json:"bank,omitempty"`
	Staking      *StakingMsg      `json:"staking,omitempty"`
	Distribution *DistributionMsg `json:"distribution,omitempty"`
}

type WasmMsg struct {
	Execute *WasmExecute `json:"execute"`
}

// WasmExecute calls a contract. Msg is serialized as base64 like the chain expects.
type WasmExecute struct {
	ContractAddr string `json:"contract_addr"`
	Msg          []byte `json:"msg"`
	Funds        []Coin `json:"funds"`
}

type BankMsg struct {
	Send *BankSend `json:"send"`
}

type BankSend struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}

type StakingMsg struct {
	Delegate   *Delegate   `json:"delegate,omitempty"`
	Undelegate *Undelegate `json:"undelegate,omitempty"`
	Redelegate *Redelegate `json:"redelegate,omitempty"`
}

type Delegate struct {
	Validator string `json:"validator"`
	Amount    Coin   `json:"amount"`
}

type Undelegate struct {
	Validator string `json:"validator"`
	Amount    Coin   `json:"amount"`
}

type Redelegate struct {
	SrcValidator string `json:"src_validator"`
	DstValidator string `json:"dst_validator"`
	Amount       Coin   `json:"amount"`
}

type DistributionMsg struct {
	SetWithdrawAddress      *SetWithdrawAddress      `json:"set_withdraw_address,omitempty"`
	WithdrawDelegatorReward *WithdrawDelegatorReward `json:"withdraw_delegator_reward,omitempty"`
}

type SetWithdrawAddress struct {
	Address string `json:"address"`
}

type WithdrawDelegatorReward struct {
	Validator string `json:"validator"`
}

// NewWasmExecute marshals msg and wraps it into a contract call.
func NewWasmExecute(contract string, msg any, funds []Coin) (CosmosMsg, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return CosmosMsg{}, err
	}
	if funds == nil {
		funds = []Coin{}
	}
	return CosmosMsg{Wasm: &WasmMsg{Execute: &WasmExecute{
		ContractAddr: contract,
		Msg:          raw,
		Funds:        funds,
	}}}, nil
}

func NewBankSend(to string, coins ...Coin) CosmosMsg {
	return CosmosMsg{Bank: &BankMsg{Send: &BankSend{ToAddress: to, Amount: coins}}}
}

// Attribute is a key value pair attached to a Response.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the ordered set of messages one invocation emits.
type Response struct {
	Messages   []CosmosMsg `json:"messages"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

func NewResponse() *Response {
	return &Response{Messages: []CosmosMsg{}}
}

func (r *Response) AddMessage(msg CosmosMsg) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

func (r *Response) AddMessages(msgs ...CosmosMsg) *Response {
	r.Messages = append(r.Messages, msgs...)
	return r
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// Env describes the chain the adapter runs on.
type Env struct {
	ChainID         string `json:"chain_id"`
	ContractAddress string `json:"contract_address"`
	BlockHeight     uint64 `json:"block_height"`
	BlockTime       uint64 `json:"block_time"`
}

// MessageInfo identifies the caller of one invocation.
type MessageInfo struct {
	Sender string `json:"sender"`
	Funds  []Coin `json:"funds,omitempty"`
}
