package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Duration is a block height or a number of seconds (union type).
type Duration struct {
	Height *uint64 `json:"height,omitempty"`
	Time   *uint64 `json:"time,omitempty"`
}

func NewTimeDuration(seconds uint64) Duration {
	return Duration{Time: &seconds}
}

func NewHeightDuration(blocks uint64) Duration {
	return Duration{Height: &blocks}
}

// Seconds returns the duration in seconds and false for height based durations.
func (d Duration) Seconds() (uint64, bool) {
	if d.Time == nil {
		return 0, false
	}
	return *d.Time, true
}

// Expiration is when an unbonding claim matures (union type).
type Expiration struct {
	AtHeight *uint64   `json:"at_height,omitempty"`
	AtTime   *string   `json:"at_time,omitempty"`
	Never    *struct{} `json:"never,omitempty"`
}

// StakingQueryMsg is the inbound query message of the staking adapter (union type).
type StakingQueryMsg struct {
	Info         *InfoQuery         `json:"info,omitempty"`
	Staked       *StakedQuery       `json:"staked,omitempty"`
	Unbonding    *UnbondingQuery    `json:"unbonding,omitempty"`
	RewardTokens *RewardTokensQuery `json:"reward_tokens,omitempty"`
}

type InfoQuery struct {
	Provider     string `json:"provider"`
	StakingToken string `json:"staking_token"`
}

type StakedQuery struct {
	Provider        string    `json:"provider"`
	StakingToken    string    `json:"staking_token"`
	StakerAddress   string    `json:"staker_address"`
	UnbondingPeriod *Duration `json:"unbonding_period,omitempty"`
}

type UnbondingQuery struct {
	Provider      string `json:"provider"`
	StakingToken  string `json:"staking_token"`
	StakerAddress string `json:"staker_address"`
}

type RewardTokensQuery struct {
	Provider     string `json:"provider"`
	StakingToken string `json:"staking_token"`
}

// Target returns the provider and staking token every query variant carries.
func (q StakingQueryMsg) Target() (provider string, stakingToken string, err error) {
	switch {
	case q.Info != nil:
		return q.Info.Provider, q.Info.StakingToken, nil
	case q.Staked != nil:
		return q.Staked.Provider, q.Staked.StakingToken, nil
	case q.Unbonding != nil:
		return q.Unbonding.Provider, q.Unbonding.StakingToken, nil
	case q.RewardTokens != nil:
		return q.RewardTokens.Provider, q.RewardTokens.StakingToken, nil
	}
	return "", "", fmt.Errorf("staking query holds no variant")
}

type StakingInfoResponse struct {
	StakingContractAddress string     `json:"staking_contract_address"`
	StakingToken           AssetInfo  `json:"staking_token"`
	UnbondingPeriods       []Duration `json:"unbonding_periods,omitempty"`
	MaxClaims              *uint32    `json:"max_claims,omitempty"`
}

type StakeResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

type Claim struct {
	Amount      decimal.Decimal `json:"amount"`
	ClaimableAt Expiration      `json:"claimable_at"`
}

type UnbondingResponse struct {
	Claims []Claim `json:"claims"`
}

type RewardTokensResponse struct {
	Tokens []AssetInfo `json:"tokens"`
}

// StakingAction is what a caller wants done with a staking provider (union type).
type StakingAction struct {
	Stake        *StakeAction        `json:"stake,omitempty"`
	Unstake      *UnstakeAction      `json:"unstake,omitempty"`
	ClaimRewards *ClaimRewardsAction `json:"claim_rewards,omitempty"`
	Claim        *ClaimAction        `json:"claim,omitempty"`
}

type StakeAction struct {
	Asset           AnsAsset  `json:"asset"`
	UnbondingPeriod *Duration `json:"unbonding_period,omitempty"`
}

type UnstakeAction struct {
	Asset           AnsAsset  `json:"asset"`
	UnbondingPeriod *Duration `json:"unbonding_period,omitempty"`
}

type ClaimRewardsAction struct {
	StakingToken string `json:"staking_token"`
}

type ClaimAction struct {
	StakingToken string `json:"staking_token"`
}

// StakingToken returns the directory name of the token the action is about.
func (a StakingAction) StakingToken() (string, error) {
	switch {
	case a.Stake != nil:
		return a.Stake.Asset.Name, nil
	case a.Unstake != nil:
		return a.Unstake.Asset.Name, nil
	case a.ClaimRewards != nil:
		return a.ClaimRewards.StakingToken, nil
	case a.Claim != nil:
		return a.Claim.StakingToken, nil
	}
	return "", fmt.Errorf("staking action holds no variant")
}

// StakingExecuteMsg is the inbound execute message of the staking adapter.
type StakingExecuteMsg struct {
	Provider string        `json:"provider"`
	Action   StakingAction `json:"action"`
}

// TendermintStakingMsg drives native chain staking through the proxy (union type).
type TendermintStakingMsg struct {
	Delegate                *TendermintDelegate    `json:"delegate,omitempty"`
	Undelegate              *TendermintDelegate    `json:"undelegate,omitempty"`
	Redelegate              *TendermintRedelegate  `json:"redelegate,omitempty"`
	SetWithdrawAddress      *TendermintSetWithdraw `json:"set_withdraw_address,omitempty"`
	WithdrawDelegatorReward *TendermintWithdraw    `json:"withdraw_delegator_reward,omitempty"`
	WithdrawAllRewards      *struct{}              `json:"withdraw_all_rewards,omitempty"`
}

type TendermintDelegate struct {
	Validator string          `json:"validator"`
	Amount    decimal.Decimal `json:"amount"`
}

type TendermintRedelegate struct {
	SourceValidator      string          `json:"source_validator"`
	DestinationValidator string          `json:"destination_validator"`
	Amount               decimal.Decimal `json:"amount"`
}

type TendermintSetWithdraw struct {
	NewWithdrawAddress string `json:"new_withdraw_address"`
}

type TendermintWithdraw struct {
	Validator string `json:"validator"`
}
