package router_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/zeebo/assert"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
)

func remoteQueries(staker string) []models.StakingQueryMsg {
	return []models.StakingQueryMsg{
		{Info: &models.InfoQuery{Provider: "osmosis", StakingToken: osmoLP}},
		{Staked: &models.StakedQuery{Provider: "osmosis", StakingToken: osmoLP, StakerAddress: staker}},
		{Unbonding: &models.UnbondingQuery{Provider: "osmosis", StakingToken: osmoLP, StakerAddress: staker}},
		{RewardTokens: &models.RewardTokensQuery{Provider: "Osmosis ", StakingToken: osmoLP}},
	}
}

func TestRemoteProviderQueriesRejectedBeforeHydration(t *testing.T) {
	f := newFixture(t)
	staking := f.staking(t)
	for _, q := range remoteQueries(manager) {
		resp, err := staking.Query(context.Background(), q)
		assert.Nil(t, resp)
		assert.True(t, adaptererr.Is(err, adaptererr.CodeRemoteQueryUnsupported))
	}
	assert.Equal(t, f.querier.Calls(), 0)
}

func TestUnknownProvider(t *testing.T) {
	f := newFixture(t)
	_, err := f.staking(t).Query(context.Background(), models.StakingQueryMsg{
		Info: &models.InfoQuery{Provider: "kujira", StakingToken: junoLP},
	})
	// kujira only trades
	assert.True(t, adaptererr.Is(err, adaptererr.CodeVenueNotSupported))
}

func TestStakedRejectsInvalidStaker(t *testing.T) {
	f := newFixture(t)
	_, err := f.staking(t).Staked(context.Background(), models.StakedQuery{
		Provider:      "wyndex",
		StakingToken:  junoLP,
		StakerAddress: "osmo1notjuno",
	})
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAddressValidationFailed))
	assert.Equal(t, f.querier.Calls(), 0)
}

func wyndexStakeHandler(t *testing.T) func(json.RawMessage) (any, error) {
	return func(msg json.RawMessage) (any, error) {
		switch queryKey(t, msg) {
		case "bonding_info":
			return map[string]any{"bonding": []map[string]any{
				{"unbonding_period": 86400},
				{"unbonding_period": 604800},
			}}, nil
		case "staked":
			var q struct {
				Staked struct {
					Address         string `json:"address"`
					UnbondingPeriod uint64 `json:"unbonding_period"`
				} `json:"staked"`
			}
			assert.NoError(t, json.Unmarshal(msg, &q))
			assert.Equal(t, q.Staked.Address, manager)
			assert.Equal(t, q.Staked.UnbondingPeriod, uint64(86400))
			return map[string]string{"stake": "500"}, nil
		case "claims":
			return map[string]any{"claims": []map[string]any{
				{"amount": "7", "release_at": map[string]string{"at_time": "1700000000000000000"}},
			}}, nil
		case "distribution_data":
			return map[string]any{"distributions": [][]any{
				{map[string]string{"token": wyndToken}, map[string]any{}},
			}}, nil
		}
		return nil, nil
	}
}

func TestWyndexQueries(t *testing.T) {
	f := newFixture(t)
	f.querier.HandleSmart(wyndexStake, wyndexStakeHandler(t))
	staking := f.staking(t)
	ctx := context.Background()

	stakingInfo, err := staking.Info(ctx, models.InfoQuery{Provider: "wyndex", StakingToken: junoLP})
	assert.NoError(t, err)
	assert.Equal(t, stakingInfo.StakingContractAddress, wyndexStake)
	assert.Equal(t, stakingInfo.StakingToken.Cw20, wyndexLPAddr)
	assert.Equal(t, len(stakingInfo.UnbondingPeriods), 2)
	secs, ok := stakingInfo.UnbondingPeriods[0].Seconds()
	assert.True(t, ok)
	assert.Equal(t, secs, uint64(86400))

	day := models.NewTimeDuration(86400)
	staked, err := staking.Staked(ctx, models.StakedQuery{
		Provider:        "wyndex",
		StakingToken:    junoLP,
		StakerAddress:   manager,
		UnbondingPeriod: &day,
	})
	assert.NoError(t, err)
	assert.True(t, staked.Amount.Equal(dec("500")))

	unbonding, err := staking.Unbonding(ctx, models.UnbondingQuery{
		Provider:      "wyndex",
		StakingToken:  junoLP,
		StakerAddress: manager,
	})
	assert.NoError(t, err)
	assert.Equal(t, len(unbonding.Claims), 1)
	assert.Equal(t, *unbonding.Claims[0].ClaimableAt.AtTime, "1700000000000000000")

	rewards, err := staking.RewardTokens(ctx, models.RewardTokensQuery{Provider: "wyndex", StakingToken: junoLP})
	assert.NoError(t, err)
	assert.DeepEqual(t, rewards.Tokens, []models.AssetInfo{models.NewCw20AssetInfo(wyndToken)})
}

func TestWyndexStakedNeedsPeriod(t *testing.T) {
	f := newFixture(t)
	f.querier.HandleSmart(wyndexStake, wyndexStakeHandler(t))
	_, err := f.staking(t).Staked(context.Background(), models.StakedQuery{
		Provider:      "wyndex",
		StakingToken:  junoLP,
		StakerAddress: manager,
	})
	assert.True(t, adaptererr.Is(err, adaptererr.CodeInvalidRequest))
}

func TestAstroportGeneratorQueries(t *testing.T) {
	f := newFixture(t)
	f.querier.HandleSmart(generator, func(msg json.RawMessage) (any, error) {
		switch queryKey(t, msg) {
		case "deposit":
			return "42", nil
		case "reward_info":
			return map[string]string{"base_reward_token": "juno1astro"}, nil
		}
		return nil, nil
	})
	staking := f.staking(t)
	ctx := context.Background()

	resp, err := staking.Query(ctx, models.StakingQueryMsg{
		Staked: &models.StakedQuery{Provider: "astroport", StakingToken: astroLP, StakerAddress: manager},
	})
	assert.NoError(t, err)
	assert.True(t, resp.(models.StakeResponse).Amount.Equal(dec("42")))

	rewards, err := staking.RewardTokens(ctx, models.RewardTokensQuery{Provider: "astroport", StakingToken: astroLP})
	assert.NoError(t, err)
	assert.Equal(t, len(rewards.Tokens), 1)
	assert.Equal(t, rewards.Tokens[0].Cw20, "juno1astro")

	unbonding, err := staking.Unbonding(ctx, models.UnbondingQuery{Provider: "astroport", StakingToken: astroLP, StakerAddress: manager})
	assert.NoError(t, err)
	assert.Equal(t, len(unbonding.Claims), 0)
}

func TestHydrationFailsForUnknownToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.staking(t).Info(context.Background(), models.InfoQuery{Provider: "wyndex", StakingToken: "juno>nope"})
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAssetResolutionFailed))
}

func TestLocalStakeThroughProxy(t *testing.T) {
	f := newFixture(t)
	day := models.NewTimeDuration(86400)
	resp, err := f.staking(t).Execute(context.Background(), info(manager), models.StakingExecuteMsg{
		Provider: "wyndex",
		Action: models.StakingAction{Stake: &models.StakeAction{
			Asset:           models.NewAnsAsset(junoLP, 100),
			UnbondingPeriod: &day,
		}},
	})
	assert.NoError(t, err)

	inner := moduleMsgs(t, resp)
	assert.Equal(t, len(inner), 1)
	contract, body := wasmBody(t, inner[0])
	assert.Equal(t, contract, wyndexLPAddr)

	var send models.Cw20Send
	assert.NoError(t, json.Unmarshal(body["send"], &send))
	assert.Equal(t, send.Contract, wyndexStake)
	assert.Equal(t, string(send.Msg), `{"delegate":{"unbonding_period":86400}}`)
}

func TestLocalClaimRewardsAstroport(t *testing.T) {
	f := newFixture(t)
	resp, err := f.staking(t).Execute(context.Background(), info(proxy), models.StakingExecuteMsg{
		Provider: "astroport",
		Action:   models.StakingAction{ClaimRewards: &models.ClaimRewardsAction{StakingToken: astroLP}},
	})
	assert.NoError(t, err)

	inner := moduleMsgs(t, resp)
	contract, body := wasmBody(t, inner[0])
	assert.Equal(t, contract, generator)
	assert.NotNil(t, body["claim_rewards"])

	_, err = f.staking(t).Execute(context.Background(), info(proxy), models.StakingExecuteMsg{
		Provider: "astroport",
		Action:   models.StakingAction{Claim: &models.ClaimAction{StakingToken: astroLP}},
	})
	assert.True(t, adaptererr.Is(err, adaptererr.CodeActionNotSupported))
}

func TestRemoteStakeTransfersThenDispatches(t *testing.T) {
	f := newFixture(t)
	staking := f.staking(t)

	resp, err := staking.Execute(context.Background(), info(manager), models.StakingExecuteMsg{
		Provider: "osmosis",
		Action:   models.StakingAction{Stake: &models.StakeAction{Asset: models.NewAnsAsset(osmoLP, 25)}},
	})
	assert.NoError(t, err)
	msgs := ibcMsgs(t, resp)
	assert.Equal(t, len(msgs), 2)
	assert.NotNil(t, msgs[0].SendFunds)
	assert.Equal(t, msgs[0].SendFunds.Funds[0].Denom, "gamm/pool/1")

	var payload models.StakingAction
	assert.NoError(t, json.Unmarshal(msgs[1].RemoteAction.Action.App.Msg, &payload))
	assert.NotNil(t, payload.Stake)
	assert.Equal(t, payload.Stake.Asset.Name, osmoLP)

	f.querier.AddContract(proxy, 1)
	resp, err = staking.Execute(context.Background(), info(proxy), models.StakingExecuteMsg{
		Provider: "osmosis",
		Action:   models.StakingAction{ClaimRewards: &models.ClaimRewardsAction{StakingToken: osmoLP}},
	})
	assert.NoError(t, err)
	msgs = ibcMsgs(t, resp)
	assert.Equal(t, len(msgs), 1)
	assert.DeepEqual(t, msgs[0].RemoteAction.CallbackInfo, &ibcaction.CallbackInfo{
		ID:       ibcaction.IbcStakingID,
		Receiver: proxy,
	})
}
