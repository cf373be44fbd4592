package wyndex

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
)

// StakingContractName returns the directory name of the staking contract of
// an LP token, "staking/<lp token>".
func StakingContractName(stakingToken string) string {
	return "staking/" + stakingToken
}

// Hydrate resolves the staking contract of stakingToken.
func (w *Wyndex) Hydrate(_ context.Context, hc venues.HydrateContext, stakingToken string) (venues.Hydrated, error) {
	info, err := hc.Ans.AssetInfo(stakingToken)
	if err != nil {
		return nil, err
	}
	if info.IsNative() {
		return nil, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"%s staking token %s must be a cw20 token", Name, stakingToken)
	}
	contract, err := hc.Ans.Contract(Name, StakingContractName(stakingToken))
	if err != nil {
		return nil, err
	}
	return &poolStake{contract: contract, token: info.Cw20, querier: hc.Querier}, nil
}

type poolStake struct {
	contract string
	token    string
	querier  host.Querier
}

type delegateHook struct {
	Delegate struct {
		UnbondingPeriod uint64 `json:"unbonding_period"`
	} `json:"delegate"`
}

type stakeExecute struct {
	Unbond          *unbond   `json:"unbond,omitempty"`
	Claim           *struct{} `json:"claim,omitempty"`
	WithdrawRewards *struct{} `json:"withdraw_rewards,omitempty"`
}

type unbond struct {
	Tokens          decimal.Decimal `json:"tokens"`
	UnbondingPeriod uint64          `json:"unbonding_period"`
}

type bondingInfoResponse struct {
	Bonding []struct {
		UnbondingPeriod uint64 `json:"unbonding_period"`
	} `json:"bonding"`
}

type stakedResponse struct {
	Stake decimal.Decimal `json:"stake"`
}

type claimsResponse struct {
	Claims []struct {
		Amount    decimal.Decimal   `json:"amount"`
		ReleaseAt models.Expiration `json:"release_at"`
	} `json:"claims"`
}

type distributionResponse struct {
	Distributions [][]json.RawMessage `json:"distributions"`
}

func periodSeconds(period *models.Duration) (uint64, error) {
	if period == nil {
		return 0, adaptererr.Newf(adaptererr.CodeInvalidRequest, "%s requires an unbonding period", Name)
	}
	secs, ok := period.Seconds()
	if !ok {
		return 0, adaptererr.Newf(adaptererr.CodeInvalidRequest, "%s unbonding periods are expressed in seconds", Name)
	}
	return secs, nil
}

func (p *poolStake) QueryInfo(ctx context.Context) (models.StakingInfoResponse, error) {
	var resp bondingInfoResponse
	if err := p.querier.Smart(ctx, p.contract, map[string]struct{}{"bonding_info": {}}, &resp); err != nil {
		return models.StakingInfoResponse{}, adaptererr.Host("failed to query bonding info", err)
	}
	periods := make([]models.Duration, 0, len(resp.Bonding))
	for _, b := range resp.Bonding {
		periods = append(periods, models.NewTimeDuration(b.UnbondingPeriod))
	}
	return models.StakingInfoResponse{
		StakingContractAddress: p.contract,
		StakingToken:           models.NewCw20AssetInfo(p.token),
		UnbondingPeriods:       periods,
	}, nil
}

func (p *poolStake) QueryStaked(ctx context.Context, staker string, period *models.Duration) (models.StakeResponse, error) {
	secs, err := periodSeconds(period)
	if err != nil {
		return models.StakeResponse{}, err
	}
	q := map[string]any{"staked": map[string]any{"address": staker, "unbonding_period": secs}}
	var resp stakedResponse
	if err := p.querier.Smart(ctx, p.contract, q, &resp); err != nil {
		return models.StakeResponse{}, adaptererr.Host("failed to query staked amount", err)
	}
	return models.StakeResponse{Amount: resp.Stake}, nil
}

func (p *poolStake) QueryUnbonding(ctx context.Context, staker string) (models.UnbondingResponse, error) {
	q := map[string]any{"claims": map[string]string{"address": staker}}
	var resp claimsResponse
	if err := p.querier.Smart(ctx, p.contract, q, &resp); err != nil {
		return models.UnbondingResponse{}, adaptererr.Host("failed to query claims", err)
	}
	claims := make([]models.Claim, 0, len(resp.Claims))
	for _, c := range resp.Claims {
		claims = append(claims, models.Claim{Amount: c.Amount, ClaimableAt: c.ReleaseAt})
	}
	return models.UnbondingResponse{Claims: claims}, nil
}

// QueryRewardTokens reads the distribution list, pairs of (asset info, distribution).
func (p *poolStake) QueryRewardTokens(ctx context.Context) (models.RewardTokensResponse, error) {
	var resp distributionResponse
	if err := p.querier.Smart(ctx, p.contract, map[string]struct{}{"distribution_data": {}}, &resp); err != nil {
		return models.RewardTokensResponse{}, adaptererr.Host("failed to query distribution data", err)
	}
	tokens := make([]models.AssetInfo, 0, len(resp.Distributions))
	for _, d := range resp.Distributions {
		if len(d) == 0 {
			continue
		}
		info, err := Dialect{}.DecodeInfo(d[0])
		if err != nil {
			return models.RewardTokensResponse{}, adaptererr.Wrap(adaptererr.CodeHostError, "unexpected distribution entry", err)
		}
		tokens = append(tokens, info)
	}
	return models.RewardTokensResponse{Tokens: tokens}, nil
}

func (p *poolStake) Stake(_ context.Context, asset models.Asset, period *models.Duration) ([]models.CosmosMsg, error) {
	secs, err := periodSeconds(period)
	if err != nil {
		return nil, err
	}
	var hook delegateHook
	hook.Delegate.UnbondingPeriod = secs
	msg, err := models.NewCw20Send(p.token, p.contract, asset.Amount, hook)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode delegate", err)
	}
	return []models.CosmosMsg{msg}, nil
}

func (p *poolStake) Unstake(_ context.Context, asset models.Asset, period *models.Duration) ([]models.CosmosMsg, error) {
	secs, err := periodSeconds(period)
	if err != nil {
		return nil, err
	}
	return p.execute(stakeExecute{Unbond: &unbond{Tokens: asset.Amount, UnbondingPeriod: secs}})
}

func (p *poolStake) ClaimRewards(context.Context) ([]models.CosmosMsg, error) {
	return p.execute(stakeExecute{WithdrawRewards: &struct{}{}})
}

func (p *poolStake) Claim(context.Context) ([]models.CosmosMsg, error) {
	return p.execute(stakeExecute{Claim: &struct{}{}})
}

func (p *poolStake) execute(msg stakeExecute) ([]models.CosmosMsg, error) {
	out, err := models.NewWasmExecute(p.contract, msg, nil)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to encode staking message", err)
	}
	return []models.CosmosMsg{out}, nil
}
