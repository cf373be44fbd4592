package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DexName is the symbolic name of a trading venue, for example "astroport".
type DexName = string

// AnsAsset references a directory entry by name together with an amount.
type AnsAsset struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func NewAnsAsset(name string, amount int64) AnsAsset {
	return AnsAsset{Name: name, Amount: decimal.NewFromInt(amount)}
}

// DexActionEnum names the variant held by a DexAction
type DexActionEnum string

const (
	DexActionSwap                      DexActionEnum = "swap"
	DexActionProvideLiquidity          DexActionEnum = "provide_liquidity"
	DexActionProvideLiquiditySymmetric DexActionEnum = "provide_liquidity_symmetric"
	DexActionWithdrawLiquidity         DexActionEnum = "withdraw_liquidity"
	DexActionCustomSwap                DexActionEnum = "custom_swap"
)

// DexAction is the action a caller wants executed on a venue (union type).
// Exactly one field is set.
type DexAction struct {
	Swap                      *Swap                      `json:"swap,omitempty"`
	ProvideLiquidity          *ProvideLiquidity          `json:"provide_liquidity,omitempty"`
	ProvideLiquiditySymmetric *ProvideLiquiditySymmetric `json:"provide_liquidity_symmetric,omitempty"`
	WithdrawLiquidity         *WithdrawLiquidity         `json:"withdraw_liquidity,omitempty"`
	CustomSwap                *CustomSwap                `json:"custom_swap,omitempty"`
}

type Swap struct {
	OfferAsset  AnsAsset         `json:"offer_asset"`
	AskAsset    string           `json:"ask_asset"`
	MaxSpread   *decimal.Decimal `json:"max_spread,omitempty"`
	BeliefPrice *decimal.Decimal `json:"belief_price,omitempty"`
}

type ProvideLiquidity struct {
	Assets    []AnsAsset       `json:"assets"`
	MaxSpread *decimal.Decimal `json:"max_spread,omitempty"`
}

// ProvideLiquiditySymmetric provides OfferAsset and lets the venue size the
// paired assets from the pool ratio.
type ProvideLiquiditySymmetric struct {
	OfferAsset   AnsAsset `json:"offer_asset"`
	PairedAssets []string `json:"paired_assets"`
}

type WithdrawLiquidity struct {
	LpToken string          `json:"lp_token"`
	Amount  decimal.Decimal `json:"amount"`
}

type CustomSwap struct {
	OfferAssets []AnsAsset       `json:"offer_assets"`
	AskAssets   []AnsAsset       `json:"ask_assets"`
	MaxSpread   *decimal.Decimal `json:"max_spread,omitempty"`
	Router      *SwapRouter      `json:"router,omitempty"`
}

// SwapRouter is an optional routing hint for custom swaps.
type SwapRouter struct {
	Matrix bool   `json:"matrix,omitempty"`
	Custom string `json:"custom,omitempty"`
}

// Kind returns which variant is set. An empty or ambiguous action is an error.
func (a DexAction) Kind() (DexActionEnum, error) {
	var kinds []DexActionEnum
	if a.Swap != nil {
		kinds = append(kinds, DexActionSwap)
	}
	if a.ProvideLiquidity != nil {
		kinds = append(kinds, DexActionProvideLiquidity)
	}
	if a.ProvideLiquiditySymmetric != nil {
		kinds = append(kinds, DexActionProvideLiquiditySymmetric)
	}
	if a.WithdrawLiquidity != nil {
		kinds = append(kinds, DexActionWithdrawLiquidity)
	}
	if a.CustomSwap != nil {
		kinds = append(kinds, DexActionCustomSwap)
	}
	if len(kinds) != 1 {
		return "", fmt.Errorf("dex action must hold exactly one variant, got %d", len(kinds))
	}
	return kinds[0], nil
}

// ToJSON marshals the DexAction to its wire form
func (a DexAction) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

func NewSwapAction(offer AnsAsset, ask string) DexAction {
	return DexAction{Swap: &Swap{OfferAsset: offer, AskAsset: ask}}
}

func NewProvideLiquidityAction(assets []AnsAsset, maxSpread *decimal.Decimal) DexAction {
	return DexAction{ProvideLiquidity: &ProvideLiquidity{Assets: assets, MaxSpread: maxSpread}}
}

func NewProvideLiquiditySymmetricAction(offer AnsAsset, paired []string) DexAction {
	return DexAction{ProvideLiquiditySymmetric: &ProvideLiquiditySymmetric{OfferAsset: offer, PairedAssets: paired}}
}

func NewWithdrawLiquidityAction(lpToken string, amount int64) DexAction {
	return DexAction{WithdrawLiquidity: &WithdrawLiquidity{LpToken: lpToken, Amount: decimal.NewFromInt(amount)}}
}

func NewCustomSwapAction(offers, asks []AnsAsset) DexAction {
	return DexAction{CustomSwap: &CustomSwap{OfferAssets: offers, AskAssets: asks}}
}

// DexExecuteMsg is the inbound execute message of the dex adapter (union type).
type DexExecuteMsg struct {
	Action    *DexActionMsg `json:"action,omitempty"`
	UpdateFee *UpdateFeeMsg `json:"update_fee,omitempty"`
}

type DexActionMsg struct {
	Dex    DexName   `json:"dex"`
	Action DexAction `json:"action"`
}

// UpdateFeeMsg changes either field of the usage fee. Absent fields are kept.
type UpdateFeeMsg struct {
	SwapFee          *decimal.Decimal `json:"swap_fee,omitempty"`
	RecipientAccount *uint32          `json:"recipient_account,omitempty"`
}

// UsageFeeResponse is the read model of the stored fee.
type UsageFeeResponse struct {
	Share     decimal.Decimal `json:"share"`
	Recipient string          `json:"recipient"`
}

// VenueInfo describes one registered venue.
type VenueInfo struct {
	Name      string `json:"name"`
	OverIBC   bool   `json:"over_ibc"`
	HostChain string `json:"host_chain,omitempty"`
	Dex       bool   `json:"dex"`
	Staking   bool   `json:"staking"`
}
