package router

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/ans"
	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
)

// DexAdapter executes dex actions on local venues through the caller's proxy
// and forwards actions on remote venues over IBC.
type DexAdapter struct {
	deps Deps
}

func NewDexAdapter(deps Deps) (*DexAdapter, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Fees == nil {
		return nil, fmt.Errorf("router: fee store is required")
	}
	return &DexAdapter{deps: deps}, nil
}

// Registry returns the venues the adapter dispatches to.
func (a *DexAdapter) Registry() *Registry {
	return a.deps.Registry
}

// Execute handles one inbound execute message.
func (a *DexAdapter) Execute(ctx context.Context, info models.MessageInfo, msg models.DexExecuteMsg) (*models.Response, error) {
	switch {
	case msg.Action != nil && msg.UpdateFee != nil:
		return nil, adaptererr.New(adaptererr.CodeInvalidRequest, "execute message must hold exactly one variant")
	case msg.Action != nil:
		return a.HandleAction(ctx, info.Sender, msg.Action.Dex, msg.Action.Action)
	case msg.UpdateFee != nil:
		return a.UpdateFee(ctx, info.Sender, *msg.UpdateFee)
	}
	return nil, adaptererr.New(adaptererr.CodeInvalidRequest, "empty execute message")
}

// HandleAction routes action to the named dex. Either every message of the
// invocation is returned or an error and none.
func (a *DexAdapter) HandleAction(ctx context.Context, sender, dexName string, action models.DexAction) (*models.Response, error) {
	kind, err := action.Kind()
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInvalidRequest, "invalid dex action", err)
	}
	dex, err := a.deps.Registry.IdentifyExchange(dexName)
	if err != nil {
		return nil, err
	}
	proxy, err := a.deps.Accounts.TargetOf(sender)
	if err != nil {
		return nil, err
	}

	var msgs []models.CosmosMsg
	if dex.OverIBC() {
		msgs, err = a.handleIBC(ctx, sender, proxy, dex, action)
	} else {
		msgs, err = a.handleLocal(ctx, proxy, dex, action)
	}
	if err != nil {
		log.Warn().Err(err).
			Str("dex", dex.Name()).
			Str("kind", string(kind)).
			Str("sender", sender).
			Msg("Dex action rejected")
		return nil, err
	}

	log.Info().
		Str("dex", dex.Name()).
		Str("kind", string(kind)).
		Bool("overIbc", dex.OverIBC()).
		Int("messages", len(msgs)).
		Msg("Dex action handled")

	return models.NewResponse().
		AddMessages(msgs...).
		AddAttribute("action", "dex_action").
		AddAttribute("dex", dex.Name()).
		AddAttribute("kind", string(kind)).
		AddAttribute("over_ibc", strconv.FormatBool(dex.OverIBC())), nil
}

// handleLocal wraps the fee transfer and the venue messages into one proxy
// execution message.
func (a *DexAdapter) handleLocal(ctx context.Context, proxy string, dex venues.Dex, action models.DexAction) ([]models.CosmosMsg, error) {
	feeMsgs, action, err := a.chargeFee(ctx, action)
	if err != nil {
		return nil, err
	}
	venueMsgs, err := dex.BuildMessages(ctx, venues.DexContext{
		Ans:     a.deps.Ans,
		Querier: a.deps.Querier,
		Sender:  proxy,
	}, action)
	if err != nil {
		return nil, err
	}
	out, err := a.deps.ExecutorFor(proxy).Execute(append(feeMsgs, venueMsgs...))
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to build proxy execution", err)
	}
	return []models.CosmosMsg{out}, nil
}

// chargeFee takes the usage fee out of a swap's offer. It returns the fee
// transfer and the swap that offers the remainder.
func (a *DexAdapter) chargeFee(ctx context.Context, action models.DexAction) ([]models.CosmosMsg, models.DexAction, error) {
	if action.Swap == nil {
		return nil, action, nil
	}
	current, err := a.deps.Fees.Load(ctx)
	if err != nil {
		return nil, action, adaptererr.Host("failed to load usage fee", err)
	}
	offer := action.Swap.OfferAsset
	owed := current.Compute(offer.Amount)
	if !owed.IsPositive() {
		return nil, action, nil
	}

	asset, err := a.deps.Ans.Resolve(models.AnsAsset{Name: offer.Name, Amount: owed})
	if err != nil {
		return nil, action, err
	}
	transfer, err := models.NewTransfer(asset, current.Recipient)
	if err != nil {
		return nil, action, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode fee transfer", err)
	}

	swap := *action.Swap
	swap.OfferAsset.Amount = offer.Amount.Sub(owed)
	return []models.CosmosMsg{transfer}, models.DexAction{Swap: &swap}, nil
}

func (a *DexAdapter) handleIBC(ctx context.Context, sender, proxy string, dex venues.Dex, action models.DexAction) ([]models.CosmosMsg, error) {
	coins, err := ResolveAssetsToTransfer(a.deps.Ans, action)
	if err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, adaptererr.New(adaptererr.CodeInvalidRequest, "remote dex action moves no assets")
	}
	return dispatchRemote(ctx, &a.deps, remoteDispatch{
		sender:     sender,
		proxy:      proxy,
		hostChain:  dex.HostChain(),
		callbackID: ibcaction.IbcDexID,
		coins:      coins,
		payload:    action,
	})
}

// ResolveAssetsToTransfer lists the coins a remote dex action consumes on the
// host chain. Symmetric provision cannot be sized remotely and is rejected.
func ResolveAssetsToTransfer(host *ans.Host, action models.DexAction) ([]models.Coin, error) {
	kind, err := action.Kind()
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInvalidRequest, "invalid dex action", err)
	}
	var assets []models.AnsAsset
	switch kind {
	case models.DexActionSwap:
		assets = []models.AnsAsset{action.Swap.OfferAsset}
	case models.DexActionProvideLiquidity:
		assets = action.ProvideLiquidity.Assets
	case models.DexActionCustomSwap:
		assets = action.CustomSwap.OfferAssets
	case models.DexActionWithdrawLiquidity:
		assets = []models.AnsAsset{{Name: action.WithdrawLiquidity.LpToken, Amount: action.WithdrawLiquidity.Amount}}
	case models.DexActionProvideLiquiditySymmetric:
		return nil, adaptererr.New(adaptererr.CodeUnsupportedCrossDomainAction,
			"provide_liquidity_symmetric cannot be executed on a remote venue")
	}
	return resolveCoins(host, assets)
}

// resolveCoins resolves every asset and merges coins of the same denom,
// keeping the order of first appearance.
func resolveCoins(host *ans.Host, assets []models.AnsAsset) ([]models.Coin, error) {
	coins := make([]models.Coin, 0, len(assets))
	index := make(map[string]int, len(assets))
	for _, asset := range assets {
		coin, err := host.ResolveCoin(asset)
		if err != nil {
			return nil, err
		}
		if i, ok := index[coin.Denom]; ok {
			coins[i].Amount = coins[i].Amount.Add(coin.Amount)
			continue
		}
		index[coin.Denom] = len(coins)
		coins = append(coins, coin)
	}
	return coins, nil
}

// UpdateFee changes the share and the recipient of the usage fee. Absent
// fields keep their stored value. Nothing is written unless every present
// field is valid.
func (a *DexAdapter) UpdateFee(ctx context.Context, sender string, msg models.UpdateFeeMsg) (*models.Response, error) {
	accountID, err := a.deps.Accounts.AssertProxy(sender)
	if err != nil {
		return nil, err
	}
	if owner := a.deps.OwnerAccount; owner != nil && accountID != *owner {
		return nil, adaptererr.Newf(adaptererr.CodeUnauthorized,
			"%s is the proxy of account %d, not of the owning account %d", sender, accountID, *owner)
	}

	resp := models.NewResponse().AddAttribute("action", "update_fee")
	if msg.SwapFee == nil && msg.RecipientAccount == nil {
		return resp, nil
	}

	current, err := a.deps.Fees.Load(ctx)
	if err != nil {
		return nil, adaptererr.Host("failed to load usage fee", err)
	}

	if msg.SwapFee != nil {
		if err := current.SetShare(*msg.SwapFee); err != nil {
			return nil, err
		}
		resp.AddAttribute("swap_fee", current.Share.String())
	}

	if msg.RecipientAccount != nil {
		proxy, err := a.deps.Accounts.ProxyAddress(*msg.RecipientAccount)
		if err != nil {
			return nil, err
		}
		if err := current.SetRecipient(a.deps.Validator, proxy); err != nil {
			return nil, err
		}
		resp.AddAttribute("recipient", current.Recipient)
	}

	// both fields are checked before the single write
	if err := a.deps.Fees.Save(ctx, current); err != nil {
		return nil, adaptererr.Host("failed to save usage fee", err)
	}

	log.Info().
		Uint32("account", accountID).
		Str("share", current.Share.String()).
		Str("recipient", current.Recipient).
		Msg("Usage fee updated")
	return resp, nil
}

// Fee returns the stored usage fee.
func (a *DexAdapter) Fee(ctx context.Context) (models.UsageFeeResponse, error) {
	current, err := a.deps.Fees.Load(ctx)
	if err != nil {
		return models.UsageFeeResponse{}, adaptererr.Host("failed to load usage fee", err)
	}
	return models.UsageFeeResponse{Share: current.Share, Recipient: current.Recipient}, nil
}
