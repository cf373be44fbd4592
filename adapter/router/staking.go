package router

import (
	"context"
	"strconv"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
)

// StakingAdapter answers staking queries against local providers and
// executes staking actions locally or over IBC.
type StakingAdapter struct {
	deps Deps
}

func NewStakingAdapter(deps Deps) (*StakingAdapter, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &StakingAdapter{deps: deps}, nil
}

// localProvider resolves a provider that can be hydrated. Remote providers
// are rejected here, before anything is read from the chain.
func (a *StakingAdapter) localProvider(name string) (venues.Staking, error) {
	provider, err := a.deps.Registry.IdentifyProvider(name)
	if err != nil {
		return nil, err
	}
	if provider.OverIBC() {
		return nil, adaptererr.Newf(adaptererr.CodeRemoteQueryUnsupported,
			"provider %s lives on %s and cannot be queried from this chain", provider.Name(), provider.HostChain())
	}
	return provider, nil
}

func (a *StakingAdapter) hydrate(ctx context.Context, provider venues.Staking, stakingToken string) (venues.Hydrated, error) {
	return provider.Hydrate(ctx, venues.HydrateContext{Ans: a.deps.Ans, Querier: a.deps.Querier}, stakingToken)
}

// Query answers one staking query. The result is the response type of the
// query variant.
func (a *StakingAdapter) Query(ctx context.Context, msg models.StakingQueryMsg) (any, error) {
	switch {
	case msg.Info != nil:
		return answer(a.Info(ctx, *msg.Info))
	case msg.Staked != nil:
		return answer(a.Staked(ctx, *msg.Staked))
	case msg.Unbonding != nil:
		return answer(a.Unbonding(ctx, *msg.Unbonding))
	case msg.RewardTokens != nil:
		return answer(a.RewardTokens(ctx, *msg.RewardTokens))
	}
	return nil, adaptererr.New(adaptererr.CodeInvalidRequest, "staking query holds no variant")
}

func answer[T any](resp T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *StakingAdapter) Info(ctx context.Context, q models.InfoQuery) (models.StakingInfoResponse, error) {
	provider, err := a.localProvider(q.Provider)
	if err != nil {
		return models.StakingInfoResponse{}, err
	}
	hydrated, err := a.hydrate(ctx, provider, q.StakingToken)
	if err != nil {
		return models.StakingInfoResponse{}, err
	}
	return hydrated.QueryInfo(ctx)
}

func (a *StakingAdapter) Staked(ctx context.Context, q models.StakedQuery) (models.StakeResponse, error) {
	provider, err := a.localProvider(q.Provider)
	if err != nil {
		return models.StakeResponse{}, err
	}
	staker, err := a.deps.Validator.Validate(q.StakerAddress)
	if err != nil {
		return models.StakeResponse{}, err
	}
	hydrated, err := a.hydrate(ctx, provider, q.StakingToken)
	if err != nil {
		return models.StakeResponse{}, err
	}
	return hydrated.QueryStaked(ctx, staker, q.UnbondingPeriod)
}

func (a *StakingAdapter) Unbonding(ctx context.Context, q models.UnbondingQuery) (models.UnbondingResponse, error) {
	provider, err := a.localProvider(q.Provider)
	if err != nil {
		return models.UnbondingResponse{}, err
	}
	staker, err := a.deps.Validator.Validate(q.StakerAddress)
	if err != nil {
		return models.UnbondingResponse{}, err
	}
	hydrated, err := a.hydrate(ctx, provider, q.StakingToken)
	if err != nil {
		return models.UnbondingResponse{}, err
	}
	return hydrated.QueryUnbonding(ctx, staker)
}

func (a *StakingAdapter) RewardTokens(ctx context.Context, q models.RewardTokensQuery) (models.RewardTokensResponse, error) {
	provider, err := a.localProvider(q.Provider)
	if err != nil {
		return models.RewardTokensResponse{}, err
	}
	hydrated, err := a.hydrate(ctx, provider, q.StakingToken)
	if err != nil {
		return models.RewardTokensResponse{}, err
	}
	return hydrated.QueryRewardTokens(ctx)
}

// Execute runs a staking action on behalf of the account the sender acts for.
func (a *StakingAdapter) Execute(ctx context.Context, info models.MessageInfo, msg models.StakingExecuteMsg) (*models.Response, error) {
	stakingToken, err := msg.Action.StakingToken()
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInvalidRequest, "invalid staking action", err)
	}
	provider, err := a.deps.Registry.IdentifyProvider(msg.Provider)
	if err != nil {
		return nil, err
	}
	proxy, err := a.deps.Accounts.TargetOf(info.Sender)
	if err != nil {
		return nil, err
	}

	var msgs []models.CosmosMsg
	if provider.OverIBC() {
		msgs, err = a.executeRemote(ctx, info.Sender, proxy, provider, msg)
	} else {
		msgs, err = a.executeLocal(ctx, proxy, provider, stakingToken, msg.Action)
	}
	if err != nil {
		log.Warn().Err(err).
			Str("provider", provider.Name()).
			Str("stakingToken", stakingToken).
			Msg("Staking action rejected")
		return nil, err
	}

	log.Info().
		Str("provider", provider.Name()).
		Str("stakingToken", stakingToken).
		Int("messages", len(msgs)).
		Msg("Staking action handled")

	return models.NewResponse().
		AddMessages(msgs...).
		AddAttribute("action", "staking_action").
		AddAttribute("provider", provider.Name()).
		AddAttribute("over_ibc", strconv.FormatBool(provider.OverIBC())), nil
}

func (a *StakingAdapter) executeLocal(
	ctx context.Context,
	proxy string,
	provider venues.Staking,
	stakingToken string,
	action models.StakingAction,
) ([]models.CosmosMsg, error) {
	hydrated, err := a.hydrate(ctx, provider, stakingToken)
	if err != nil {
		return nil, err
	}

	var msgs []models.CosmosMsg
	switch {
	case action.Stake != nil:
		asset, rerr := a.deps.Ans.Resolve(action.Stake.Asset)
		if rerr != nil {
			return nil, rerr
		}
		msgs, err = hydrated.Stake(ctx, asset, action.Stake.UnbondingPeriod)
	case action.Unstake != nil:
		asset, rerr := a.deps.Ans.Resolve(action.Unstake.Asset)
		if rerr != nil {
			return nil, rerr
		}
		msgs, err = hydrated.Unstake(ctx, asset, action.Unstake.UnbondingPeriod)
	case action.ClaimRewards != nil:
		msgs, err = hydrated.ClaimRewards(ctx)
	case action.Claim != nil:
		msgs, err = hydrated.Claim(ctx)
	}
	if err != nil {
		return nil, err
	}

	out, err := a.deps.ExecutorFor(proxy).Execute(msgs)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to build proxy execution", err)
	}
	return []models.CosmosMsg{out}, nil
}

// executeRemote transfers the staked asset, other actions only consume
// positions that already live on the host chain.
func (a *StakingAdapter) executeRemote(
	ctx context.Context,
	sender, proxy string,
	provider venues.Staking,
	msg models.StakingExecuteMsg,
) ([]models.CosmosMsg, error) {
	var coins []models.Coin
	if msg.Action.Stake != nil {
		var err error
		coins, err = resolveCoins(a.deps.Ans, []models.AnsAsset{msg.Action.Stake.Asset})
		if err != nil {
			return nil, err
		}
	}
	return dispatchRemote(ctx, &a.deps, remoteDispatch{
		sender:     sender,
		proxy:      proxy,
		hostChain:  provider.HostChain(),
		callbackID: ibcaction.IbcStakingID,
		coins:      coins,
		payload:    msg.Action,
	})
}
