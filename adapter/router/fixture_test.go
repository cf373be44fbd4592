package router_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/ans"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/fee"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host/mock"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
)

const (
	junoLP  = "wyndex/juno>juno,juno>wynd"
	astroLP = "astroport/juno>juno,juno>wynd"
	osmoLP  = "osmosis/juno>juno,osmosis>osmo"
)

var (
	manager      = mock.Address("juno", "manager")
	proxy        = mock.Address("juno", "proxy")
	otherProxy   = mock.Address("juno", "other-proxy")
	treasury     = mock.Address("juno", "treasury")
	stranger     = mock.Address("juno", "stranger")
	wyndToken    = mock.Address("juno", "wynd-token")
	wyndexLPAddr = mock.Address("juno", "wyndex-lp")
	astroLPAddr  = mock.Address("juno", "astro-lp")
	wyndexPair   = mock.Address("juno", "wyndex-pair")
	astroPair    = mock.Address("juno", "astro-pair")
	generator    = mock.Address("juno", "generator")
	wyndexStake  = mock.Address("juno", "wyndex-stake")
)

func directory() ans.Directory {
	return ans.Directory{
		Assets: map[string]models.AssetInfo{
			"juno>juno":    models.NewNativeAssetInfo("ujuno"),
			"juno>wynd":    models.NewCw20AssetInfo(wyndToken),
			"osmosis>osmo": models.NewNativeAssetInfo("ibc/OSMO"),
			"osmosis>atom": models.NewNativeAssetInfo("ibc/ATOM"),
			junoLP:         models.NewCw20AssetInfo(wyndexLPAddr),
			astroLP:        models.NewCw20AssetInfo(astroLPAddr),
			osmoLP:         models.NewNativeAssetInfo("gamm/pool/1"),
		},
		Contracts: map[string]string{
			"astroport:generator":                       generator,
			"wyndex:staking/wyndex/juno>juno,juno>wynd": wyndexStake,
		},
		Pools: map[string]string{
			"wyndex:juno>juno,juno>wynd":    wyndexPair,
			"astroport:juno>juno,juno>wynd": astroPair,
		},
	}
}

type fixture struct {
	deps    router.Deps
	querier *mock.MockQuerier
	fees    *fee.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	accounts, err := host.NewStaticAccountRegistry([]host.Account{
		{ID: 1, Manager: manager, Proxy: proxy},
		{ID: 2, Proxy: otherProxy},
		{ID: 3, Proxy: treasury},
	})
	assert.NoError(t, err)

	querier := mock.NewMockQuerier()
	fees := fee.NewMemoryStore(fee.UsageFee{Share: decimal.Zero})
	return &fixture{
		deps: router.Deps{
			Registry:  router.DefaultRegistry(),
			Ans:       ans.NewHost(directory()),
			Accounts:  accounts,
			Querier:   querier,
			Validator: host.NewBech32Validator("juno"),
			Fees:      fees,
		},
		querier: querier,
		fees:    fees,
	}
}

func (f *fixture) dex(t *testing.T) *router.DexAdapter {
	t.Helper()
	adapter, err := router.NewDexAdapter(f.deps)
	assert.NoError(t, err)
	return adapter
}

func (f *fixture) staking(t *testing.T) *router.StakingAdapter {
	t.Helper()
	adapter, err := router.NewStakingAdapter(f.deps)
	assert.NoError(t, err)
	return adapter
}

// decodeProxy returns the proxy a message is addressed to and the proxy message it carries.
func decodeProxy(t *testing.T, msg models.CosmosMsg) (string, ibcaction.ProxyMsg) {
	t.Helper()
	assert.NotNil(t, msg.Wasm)
	assert.NotNil(t, msg.Wasm.Execute)
	var out ibcaction.ProxyMsg
	assert.NoError(t, json.Unmarshal(msg.Wasm.Execute.Msg, &out))
	return msg.Wasm.Execute.ContractAddr, out
}

// moduleMsgs unwraps a single module_action proxy message.
func moduleMsgs(t *testing.T, resp *models.Response) []models.CosmosMsg {
	t.Helper()
	assert.Equal(t, len(resp.Messages), 1)
	contract, msg := decodeProxy(t, resp.Messages[0])
	assert.Equal(t, contract, proxy)
	assert.Nil(t, msg.IbcAction)
	assert.NotNil(t, msg.ModuleAction)
	return msg.ModuleAction.Msgs
}

// ibcMsgs unwraps every ibc_action proxy message in order.
func ibcMsgs(t *testing.T, resp *models.Response) []ibcaction.IbcClientMsg {
	t.Helper()
	var out []ibcaction.IbcClientMsg
	for _, m := range resp.Messages {
		_, msg := decodeProxy(t, m)
		assert.NotNil(t, msg.IbcAction)
		assert.Equal(t, len(msg.IbcAction.Msgs), 1)
		out = append(out, msg.IbcAction.Msgs[0])
	}
	return out
}

// wasmBody decodes the body of a wasm execute message.
func wasmBody(t *testing.T, msg models.CosmosMsg) (string, map[string]json.RawMessage) {
	t.Helper()
	assert.NotNil(t, msg.Wasm)
	body := map[string]json.RawMessage{}
	assert.NoError(t, json.Unmarshal(msg.Wasm.Execute.Msg, &body))
	return msg.Wasm.Execute.ContractAddr, body
}

// queryKey returns the single top level key of a smart query.
func queryKey(t *testing.T, raw json.RawMessage) string {
	var m map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(raw, &m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return strings.Join(keys, ",")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func info(sender string) models.MessageInfo {
	return models.MessageInfo{Sender: sender}
}
