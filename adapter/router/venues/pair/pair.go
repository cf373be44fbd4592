// Package pair translates dex actions into calls on astroport style pair
// contracts. Venues built on that pair interface differ in how they encode
// asset infos, which a Dialect captures.
package pair

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
)

// Dialect encodes asset infos the way a venue's contracts expect them.
type Dialect interface {
	EncodeInfo(info models.AssetInfo) any
	DecodeInfo(raw json.RawMessage) (models.AssetInfo, error)
}

// WireAsset is an asset in a pair contract message.
type WireAsset struct {
	Info   any             `json:"info"`
	Amount decimal.Decimal `json:"amount"`
}

type swapMsg struct {
	Swap swapBody `json:"swap"`
}

type swapBody struct {
	OfferAsset   *WireAsset       `json:"offer_asset,omitempty"`
	AskAssetInfo any              `json:"ask_asset_info,omitempty"`
	BeliefPrice  *decimal.Decimal `json:"belief_price,omitempty"`
	MaxSpread    *decimal.Decimal `json:"max_spread,omitempty"`
}

type provideMsg struct {
	ProvideLiquidity provideBody `json:"provide_liquidity"`
}

type provideBody struct {
	Assets            []WireAsset      `json:"assets"`
	SlippageTolerance *decimal.Decimal `json:"slippage_tolerance,omitempty"`
}

type withdrawHook struct {
	WithdrawLiquidity struct{} `json:"withdraw_liquidity"`
}

type poolQuery struct {
	Pool struct{} `json:"pool"`
}

type poolResponse struct {
	Assets []struct {
		Info   json.RawMessage `json:"info"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"assets"`
	TotalShare decimal.Decimal `json:"total_share"`
}

// Translator builds pair contract messages for one dex.
type Translator struct {
	Dex     string
	Dialect Dialect
}

// Build dispatches on the action variant.
func (t Translator) Build(ctx context.Context, dc venues.DexContext, action models.DexAction) ([]models.CosmosMsg, error) {
	kind, err := action.Kind()
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInvalidRequest, "invalid dex action", err)
	}
	switch kind {
	case models.DexActionSwap:
		return t.Swap(dc, *action.Swap)
	case models.DexActionProvideLiquidity:
		return t.ProvideLiquidity(dc, action.ProvideLiquidity.Assets, action.ProvideLiquidity.MaxSpread)
	case models.DexActionProvideLiquiditySymmetric:
		return t.ProvideLiquiditySymmetric(ctx, dc, *action.ProvideLiquiditySymmetric)
	case models.DexActionWithdrawLiquidity:
		return t.WithdrawLiquidity(dc, *action.WithdrawLiquidity)
	case models.DexActionCustomSwap:
		return t.CustomSwap(dc, *action.CustomSwap)
	}
	return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported, "%s does not support %s", t.Dex, kind)
}

func (t Translator) wire(asset models.Asset) WireAsset {
	return WireAsset{Info: t.Dialect.EncodeInfo(asset.Info), Amount: asset.Amount}
}

// Swap offers one asset to the pair holding offer and ask. Native offers are
// attached as funds, cw20 offers are sent to the pair with a swap hook.
func (t Translator) Swap(dc venues.DexContext, swap models.Swap) ([]models.CosmosMsg, error) {
	offer, err := dc.Ans.Resolve(swap.OfferAsset)
	if err != nil {
		return nil, err
	}
	askInfo, err := dc.Ans.AssetInfo(swap.AskAsset)
	if err != nil {
		return nil, err
	}
	pairAddr, err := dc.Ans.Pool(t.Dex, swap.OfferAsset.Name, swap.AskAsset)
	if err != nil {
		return nil, err
	}

	body := swapBody{
		AskAssetInfo: t.Dialect.EncodeInfo(askInfo),
		BeliefPrice:  swap.BeliefPrice,
		MaxSpread:    swap.MaxSpread,
	}
	var msg models.CosmosMsg
	if offer.Info.IsNative() {
		wire := t.wire(offer)
		body.OfferAsset = &wire
		msg, err = models.NewWasmExecute(pairAddr, swapMsg{Swap: body},
			[]models.Coin{models.NewCoin(offer.Info.Native, offer.Amount)})
	} else {
		msg, err = models.NewCw20Send(offer.Info.Cw20, pairAddr, offer.Amount, swapMsg{Swap: body})
	}
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode swap", err)
	}
	return []models.CosmosMsg{msg}, nil
}

// ProvideLiquidity deposits every asset into their pair. Each cw20 asset
// first grants the pair an allowance.
func (t Translator) ProvideLiquidity(dc venues.DexContext, assets []models.AnsAsset, maxSpread *decimal.Decimal) ([]models.CosmosMsg, error) {
	if len(assets) < 2 {
		return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported,
			"%s needs at least two assets to provide liquidity, got %d", t.Dex, len(assets))
	}
	names := make([]string, 0, len(assets))
	resolved := make([]models.Asset, 0, len(assets))
	seen := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		r, err := dc.Ans.Resolve(a)
		if err != nil {
			return nil, err
		}
		// a pair takes each asset once, the bank module rejects repeated denoms
		if _, dup := seen[r.Info.String()]; dup {
			return nil, adaptererr.Newf(adaptererr.CodeInvalidRequest, "asset %s is provided more than once", a.Name)
		}
		seen[r.Info.String()] = struct{}{}
		names = append(names, a.Name)
		resolved = append(resolved, r)
	}
	pairAddr, err := dc.Ans.Pool(t.Dex, names...)
	if err != nil {
		return nil, err
	}
	return t.provide(pairAddr, resolved, maxSpread)
}

func (t Translator) provide(pairAddr string, assets []models.Asset, maxSpread *decimal.Decimal) ([]models.CosmosMsg, error) {
	var msgs []models.CosmosMsg
	var funds []models.Coin
	wire := make([]WireAsset, 0, len(assets))
	for _, a := range assets {
		wire = append(wire, t.wire(a))
		if a.Info.IsNative() {
			funds = append(funds, models.NewCoin(a.Info.Native, a.Amount))
			continue
		}
		allowance, err := models.NewCw20IncreaseAllowance(a.Info.Cw20, pairAddr, a.Amount)
		if err != nil {
			return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode allowance", err)
		}
		msgs = append(msgs, allowance)
	}
	// the bank module rejects unsorted coins
	sort.Slice(funds, func(i, j int) bool { return funds[i].Denom < funds[j].Denom })

	provide, err := models.NewWasmExecute(pairAddr, provideMsg{ProvideLiquidity: provideBody{
		Assets:            wire,
		SlippageTolerance: maxSpread,
	}}, funds)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode provide_liquidity", err)
	}
	return append(msgs, provide), nil
}

// ProvideLiquiditySymmetric sizes the paired assets from the current pool
// reserves so the deposit matches the pool ratio.
func (t Translator) ProvideLiquiditySymmetric(ctx context.Context, dc venues.DexContext, action models.ProvideLiquiditySymmetric) ([]models.CosmosMsg, error) {
	if len(action.PairedAssets) == 0 {
		return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported,
			"%s needs at least one paired asset", t.Dex)
	}
	offer, err := dc.Ans.Resolve(action.OfferAsset)
	if err != nil {
		return nil, err
	}
	pairAddr, err := dc.Ans.Pool(t.Dex, append([]string{action.OfferAsset.Name}, action.PairedAssets...)...)
	if err != nil {
		return nil, err
	}

	var pool poolResponse
	if err := dc.Querier.Smart(ctx, pairAddr, poolQuery{}, &pool); err != nil {
		return nil, adaptererr.Host(fmt.Sprintf("failed to query %s pool %s", t.Dex, pairAddr), err)
	}
	reserves := make(map[string]decimal.Decimal, len(pool.Assets))
	for _, a := range pool.Assets {
		info, err := t.Dialect.DecodeInfo(a.Info)
		if err != nil {
			return nil, adaptererr.Wrap(adaptererr.CodeHostError, "unexpected pool asset", err)
		}
		reserves[info.String()] = a.Amount
	}

	offerReserve := reserves[offer.Info.String()]
	if !offerReserve.IsPositive() {
		return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported,
			"%s pool %s holds no %s, cannot provide symmetrically", t.Dex, pairAddr, action.OfferAsset.Name)
	}

	assets := []models.Asset{offer}
	for _, name := range action.PairedAssets {
		info, err := dc.Ans.AssetInfo(name)
		if err != nil {
			return nil, err
		}
		reserve, ok := reserves[info.String()]
		if !ok {
			return nil, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
				"%s pool %s does not hold %s", t.Dex, pairAddr, name)
		}
		amount := offer.Amount.Mul(reserve).Div(offerReserve).Floor()
		assets = append(assets, models.Asset{Info: info, Amount: amount})
	}
	return t.provide(pairAddr, assets, nil)
}

// WithdrawLiquidity sends LP tokens back to their pair. The pair is derived
// from the LP token's directory name "dex/asset_a,asset_b".
func (t Translator) WithdrawLiquidity(dc venues.DexContext, action models.WithdrawLiquidity) ([]models.CosmosMsg, error) {
	lp, err := dc.Ans.Resolve(models.AnsAsset{Name: action.LpToken, Amount: action.Amount})
	if err != nil {
		return nil, err
	}
	if lp.Info.IsNative() {
		return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported,
			"%s liquidity token %s must be a cw20", t.Dex, action.LpToken)
	}
	pairAssets, err := t.poolAssets(action.LpToken)
	if err != nil {
		return nil, err
	}
	pairAddr, err := dc.Ans.Pool(t.Dex, pairAssets...)
	if err != nil {
		return nil, err
	}
	msg, err := models.NewCw20Send(lp.Info.Cw20, pairAddr, lp.Amount, withdrawHook{})
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode withdraw_liquidity", err)
	}
	return []models.CosmosMsg{msg}, nil
}

func (t Translator) poolAssets(lpToken string) ([]string, error) {
	dex, assets, ok := strings.Cut(lpToken, "/")
	if !ok || !strings.EqualFold(dex, t.Dex) || assets == "" {
		return nil, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"%s is not a %s liquidity token", lpToken, t.Dex)
	}
	return strings.Split(assets, ","), nil
}

// CustomSwap supports the single pair case, anything routed is rejected.
func (t Translator) CustomSwap(dc venues.DexContext, action models.CustomSwap) ([]models.CosmosMsg, error) {
	if len(action.OfferAssets) != 1 || len(action.AskAssets) != 1 || action.Router != nil {
		return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported,
			"%s custom swaps support exactly one offer and one ask asset without a router", t.Dex)
	}
	return t.Swap(dc, models.Swap{
		OfferAsset: action.OfferAssets[0],
		AskAsset:   action.AskAssets[0].Name,
		MaxSpread:  action.MaxSpread,
	})
}
