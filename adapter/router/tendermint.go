package router

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// TendermintConfig describes the native staking module of the local chain.
type TendermintConfig struct {
	BondDenom string
	// Operators validates validator operator addresses (the valoper prefix)
	Operators host.AddressValidator
	// Delegations is optional. Without it withdraw_all_rewards is unsupported.
	Delegations host.DelegationQuerier
}

// TendermintStakingAdapter turns native staking requests into staking and
// distribution messages executed by the caller's proxy.
type TendermintStakingAdapter struct {
	deps Deps
	cfg  TendermintConfig
}

func NewTendermintStakingAdapter(deps Deps, cfg TendermintConfig) (*TendermintStakingAdapter, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if cfg.BondDenom == "" {
		return nil, fmt.Errorf("router: bond denom is required")
	}
	if cfg.Operators == nil {
		return nil, fmt.Errorf("router: operator address validator is required")
	}
	return &TendermintStakingAdapter{deps: deps, cfg: cfg}, nil
}

func (a *TendermintStakingAdapter) bond(amount decimal.Decimal) (models.Coin, error) {
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(0)) {
		return models.Coin{}, adaptererr.Newf(adaptererr.CodeInvalidRequest,
			"staking amount must be a positive integer, got %s", amount)
	}
	return models.NewCoin(a.cfg.BondDenom, amount), nil
}

func (a *TendermintStakingAdapter) operator(addr string) (string, error) {
	return a.cfg.Operators.Validate(addr)
}

// Execute builds the native messages of msg and wraps them into one proxy
// execution message.
func (a *TendermintStakingAdapter) Execute(ctx context.Context, info models.MessageInfo, msg models.TendermintStakingMsg) (*models.Response, error) {
	proxy, err := a.deps.Accounts.TargetOf(info.Sender)
	if err != nil {
		return nil, err
	}
	msgs, kind, err := a.build(ctx, proxy, msg)
	if err != nil {
		return nil, err
	}
	out, err := a.deps.ExecutorFor(proxy).Execute(msgs)
	if err != nil {
		return nil, adaptererr.Wrap(adaptererr.CodeInternalSerializationFault, "failed to build proxy execution", err)
	}

	log.Info().Str("kind", kind).Int("messages", len(msgs)).Msg("Tendermint staking handled")
	return models.NewResponse().
		AddMessage(out).
		AddAttribute("action", "tendermint_staking").
		AddAttribute("kind", kind), nil
}

func (a *TendermintStakingAdapter) build(ctx context.Context, proxy string, msg models.TendermintStakingMsg) ([]models.CosmosMsg, string, error) {
	switch {
	case msg.Delegate != nil:
		validator, err := a.operator(msg.Delegate.Validator)
		if err != nil {
			return nil, "", err
		}
		coin, err := a.bond(msg.Delegate.Amount)
		if err != nil {
			return nil, "", err
		}
		return []models.CosmosMsg{{Staking: &models.StakingMsg{
			Delegate: &models.Delegate{Validator: validator, Amount: coin},
		}}}, "delegate", nil

	case msg.Undelegate != nil:
		validator, err := a.operator(msg.Undelegate.Validator)
		if err != nil {
			return nil, "", err
		}
		coin, err := a.bond(msg.Undelegate.Amount)
		if err != nil {
			return nil, "", err
		}
		return []models.CosmosMsg{{Staking: &models.StakingMsg{
			Undelegate: &models.Undelegate{Validator: validator, Amount: coin},
		}}}, "undelegate", nil

	case msg.Redelegate != nil:
		src, err := a.operator(msg.Redelegate.SourceValidator)
		if err != nil {
			return nil, "", err
		}
		dst, err := a.operator(msg.Redelegate.DestinationValidator)
		if err != nil {
			return nil, "", err
		}
		if src == dst {
			return nil, "", adaptererr.New(adaptererr.CodeInvalidRequest, "redelegation to the same validator")
		}
		coin, err := a.bond(msg.Redelegate.Amount)
		if err != nil {
			return nil, "", err
		}
		return []models.CosmosMsg{{Staking: &models.StakingMsg{
			Redelegate: &models.Redelegate{SrcValidator: src, DstValidator: dst, Amount: coin},
		}}}, "redelegate", nil

	case msg.SetWithdrawAddress != nil:
		addr, err := a.deps.Validator.Validate(msg.SetWithdrawAddress.NewWithdrawAddress)
		if err != nil {
			return nil, "", err
		}
		return []models.CosmosMsg{{Distribution: &models.DistributionMsg{
			SetWithdrawAddress: &models.SetWithdrawAddress{Address: addr},
		}}}, "set_withdraw_address", nil

	case msg.WithdrawDelegatorReward != nil:
		validator, err := a.operator(msg.WithdrawDelegatorReward.Validator)
		if err != nil {
			return nil, "", err
		}
		return []models.CosmosMsg{withdrawReward(validator)}, "withdraw_delegator_reward", nil

	case msg.WithdrawAllRewards != nil:
		if a.cfg.Delegations == nil {
			return nil, "", adaptererr.New(adaptererr.CodeActionNotSupported,
				"withdraw_all_rewards needs a delegation querier")
		}
		validators, err := a.cfg.Delegations.Delegations(ctx, proxy)
		if err != nil {
			return nil, "", adaptererr.Host("failed to list delegations", err)
		}
		if len(validators) == 0 {
			return nil, "", adaptererr.Newf(adaptererr.CodeInvalidRequest, "%s has no delegations", proxy)
		}
		msgs := make([]models.CosmosMsg, 0, len(validators))
		for _, v := range validators {
			msgs = append(msgs, withdrawReward(v))
		}
		return msgs, "withdraw_all_rewards", nil
	}
	return nil, "", adaptererr.New(adaptererr.CodeInvalidRequest, "tendermint staking message holds no variant")
}

func withdrawReward(validator string) models.CosmosMsg {
	return models.CosmosMsg{Distribution: &models.DistributionMsg{
		WithdrawDelegatorReward: &models.WithdrawDelegatorReward{Validator: validator},
	}}
}
