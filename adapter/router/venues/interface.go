// Package venues defines the interfaces trading and staking venues implement.
// A venue is either local, its contracts live on the chain the adapter runs
// on, or remote, reached over IBC through the account's host chain.
package venues

import (
	"context"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/ans"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// Venue is the classification every registered venue answers.
type Venue interface {
	// Name is the normalized registry name, e.g. "astroport"
	Name() string
	// OverIBC reports whether the venue is remote
	OverIBC() bool
	// HostChain is the chain remote actions are sent to. Empty for local venues.
	HostChain() string
}

// DexContext carries what a local dex reads while translating an action.
type DexContext struct {
	Ans     *ans.Host
	Querier host.Querier
	// Sender is the proxy the messages are executed by
	Sender string
}

// Dex is a trading venue.
type Dex interface {
	Venue
	// BuildMessages translates an action into the ordered venue messages.
	// Only local venues can build messages.
	BuildMessages(ctx context.Context, dc DexContext, action models.DexAction) ([]models.CosmosMsg, error)
}

// HydrateContext carries what a local staking provider reads while hydrating.
type HydrateContext struct {
	Ans     *ans.Host
	Querier host.Querier
}

// Staking is a staking provider. Queries and actions need a hydrated
// provider, bound to one staking token.
type Staking interface {
	Venue
	Hydrate(ctx context.Context, hc HydrateContext, stakingToken string) (Hydrated, error)
}

// Hydrated is a local staking provider resolved for one staking token.
type Hydrated interface {
	QueryInfo(ctx context.Context) (models.StakingInfoResponse, error)
	QueryStaked(ctx context.Context, staker string, period *models.Duration) (models.StakeResponse, error)
	QueryUnbonding(ctx context.Context, staker string) (models.UnbondingResponse, error)
	QueryRewardTokens(ctx context.Context) (models.RewardTokensResponse, error)

	Stake(ctx context.Context, amount models.Asset, period *models.Duration) ([]models.CosmosMsg, error)
	Unstake(ctx context.Context, amount models.Asset, period *models.Duration) ([]models.CosmosMsg, error)
	ClaimRewards(ctx context.Context) ([]models.CosmosMsg, error)
	Claim(ctx context.Context) ([]models.CosmosMsg, error)
}
