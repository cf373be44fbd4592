package astroport

import (
	"context"

	"github.com/shopspring/decimal"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
)

// Hydrate binds the generator to one LP token. The generator has no
// unbonding, LP tokens are withdrawn immediately.
func (a *Astroport) Hydrate(_ context.Context, hc venues.HydrateContext, stakingToken string) (venues.Hydrated, error) {
	generator, err := hc.Ans.Contract(Name, GeneratorContract)
	if err != nil {
		return nil, err
	}
	info, err := hc.Ans.AssetInfo(stakingToken)
	if err != nil {
		return nil, err
	}
	if info.IsNative() {
		return nil, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"%s staking token %s must be a cw20 liquidity token", Name, stakingToken)
	}
	return &generatorStake{generator: generator, lpToken: info.Cw20, querier: hc.Querier}, nil
}

type generatorStake struct {
	generator string
	lpToken   string
	querier   host.Querier
}

type depositHook struct {
	Deposit struct{} `json:"deposit"`
}

type generatorExecute struct {
	Withdraw     *withdraw     `json:"withdraw,omitempty"`
	ClaimRewards *claimRewards `json:"claim_rewards,omitempty"`
}

type withdraw struct {
	LpToken string          `json:"lp_token"`
	Amount  decimal.Decimal `json:"amount"`
}

type claimRewards struct {
	LpTokens []string `json:"lp_tokens"`
}

type depositQuery struct {
	Deposit struct {
		LpToken string `json:"lp_token"`
		User    string `json:"user"`
	} `json:"deposit"`
}

type rewardInfoQuery struct {
	RewardInfo struct {
		LpToken string `json:"lp_token"`
	} `json:"reward_info"`
}

type rewardInfoResponse struct {
	BaseRewardToken  string  `json:"base_reward_token"`
	ProxyRewardToken *string `json:"proxy_reward_token,omitempty"`
}

func (g *generatorStake) QueryInfo(context.Context) (models.StakingInfoResponse, error) {
	return models.StakingInfoResponse{
		StakingContractAddress: g.generator,
		StakingToken:           models.NewCw20AssetInfo(g.lpToken),
	}, nil
}

func (g *generatorStake) QueryStaked(ctx context.Context, staker string, _ *models.Duration) (models.StakeResponse, error) {
	var q depositQuery
	q.Deposit.LpToken = g.lpToken
	q.Deposit.User = staker
	var amount decimal.Decimal
	if err := g.querier.Smart(ctx, g.generator, q, &amount); err != nil {
		return models.StakeResponse{}, adaptererr.Host("failed to query generator deposit", err)
	}
	return models.StakeResponse{Amount: amount}, nil
}

func (g *generatorStake) QueryUnbonding(context.Context, string) (models.UnbondingResponse, error) {
	return models.UnbondingResponse{Claims: []models.Claim{}}, nil
}

func (g *generatorStake) QueryRewardTokens(ctx context.Context) (models.RewardTokensResponse, error) {
	var q rewardInfoQuery
	q.RewardInfo.LpToken = g.lpToken
	var resp rewardInfoResponse
	if err := g.querier.Smart(ctx, g.generator, q, &resp); err != nil {
		return models.RewardTokensResponse{}, adaptererr.Host("failed to query generator reward info", err)
	}
	tokens := []models.AssetInfo{models.NewCw20AssetInfo(resp.BaseRewardToken)}
	if resp.ProxyRewardToken != nil && *resp.ProxyRewardToken != "" {
		tokens = append(tokens, models.NewCw20AssetInfo(*resp.ProxyRewardToken))
	}
	return models.RewardTokensResponse{Tokens: tokens}, nil
}

func (g *generatorStake) Stake(_ context.Context, asset models.Asset, _ *models.Duration) ([]models.CosmosMsg, error) {
	msg, err := models.NewCw20Send(g.lpToken, g.generator, asset.Amount, depositHook{})
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode generator deposit", err)
	}
	return []models.CosmosMsg{msg}, nil
}

func (g *generatorStake) Unstake(_ context.Context, asset models.Asset, _ *models.Duration) ([]models.CosmosMsg, error) {
	msg, err := models.NewWasmExecute(g.generator, generatorExecute{
		Withdraw: &withdraw{LpToken: g.lpToken, Amount: asset.Amount},
	}, nil)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode generator withdraw", err)
	}
	return []models.CosmosMsg{msg}, nil
}

func (g *generatorStake) ClaimRewards(context.Context) ([]models.CosmosMsg, error) {
	msg, err := models.NewWasmExecute(g.generator, generatorExecute{
		ClaimRewards: &claimRewards{LpTokens: []string{g.lpToken}},
	}, nil)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode claim_rewards", err)
	}
	return []models.CosmosMsg{msg}, nil
}

func (g *generatorStake) Claim(context.Context) ([]models.CosmosMsg, error) {
	return nil, adaptererr.Newf(adaptererr.CodeActionNotSupported,
		"%s generator has no unbonding claims", Name)
}
