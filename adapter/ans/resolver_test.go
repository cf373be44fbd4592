package ans_test

import (
	"testing"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/ans"
	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

var directory = ans.Directory{
	Assets: map[string]models.AssetInfo{
		"juno>juno":                  models.NewNativeAssetInfo("ujuno"),
		"juno>wynd":                  models.NewCw20AssetInfo("juno1wynd"),
		"osmosis>osmo":               models.NewNativeAssetInfo("uosmo"),
		"wyndex/juno>juno,juno>wynd": models.NewCw20AssetInfo("juno1lp"),
	},
	Contracts: map[string]string{
		"Wyndex:staking/wyndex/juno>juno,juno>wynd": "juno1stake",
	},
	Pools: map[string]string{
		"wyndex:juno>wynd,juno>juno": "juno1pair",
	},
}

func TestResolveNativeAndCw20(t *testing.T) {
	host := ans.NewHost(directory)

	asset, err := host.Resolve(models.NewAnsAsset("juno>wynd", 10))
	assert.NoError(t, err)
	assert.Equal(t, asset.Info.Cw20, "juno1wynd")
	assert.True(t, asset.Amount.Equal(decimal.NewFromInt(10)))

	coin, err := host.ResolveCoin(models.NewAnsAsset("juno>juno", 100))
	assert.NoError(t, err)
	assert.Equal(t, coin.Denom, "ujuno")

	_, err = host.ResolveCoin(models.NewAnsAsset("juno>wynd", 100))
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAssetResolutionFailed))
}

func TestResolveFailures(t *testing.T) {
	host := ans.NewHost(directory)

	_, err := host.Resolve(models.NewAnsAsset("missing>token", 1))
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAssetResolutionFailed))

	_, err = host.Resolve(models.AnsAsset{Name: "juno>juno", Amount: decimal.NewFromInt(-5)})
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAssetResolutionFailed))

	_, err = host.Resolve(models.AnsAsset{Name: "juno>juno", Amount: decimal.RequireFromString("1.5")})
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAssetResolutionFailed))
}

func TestPoolAndContractLookups(t *testing.T) {
	host := ans.NewHost(directory)

	pair, err := host.Pool("Wyndex", "juno>juno", "juno>wynd")
	assert.NoError(t, err)
	assert.Equal(t, pair, "juno1pair")

	addr, err := host.Contract("wyndex", "staking/"+ans.LPTokenName("wyndex", "juno>wynd", "juno>juno"))
	assert.NoError(t, err)
	assert.Equal(t, addr, "juno1stake")

	_, err = host.Pool("astroport", "juno>juno", "juno>wynd")
	assert.Error(t, err)

	name, ok := host.NameOf(models.NewNativeAssetInfo("uosmo"))
	assert.True(t, ok)
	assert.Equal(t, name, "osmosis>osmo")
}
