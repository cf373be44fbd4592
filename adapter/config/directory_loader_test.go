package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/config"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host/mock"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

var (
	manager  = mock.Address("juno", "manager")
	proxy    = mock.Address("juno", "proxy")
	treasury = mock.Address("juno", "treasury")
	wynd     = mock.Address("juno", "wynd")
	pair     = mock.Address("juno", "pair")
)

func tomlDirectory() string {
	return fmt.Sprintf(`
chain = "juno"
bech32_prefix = "juno"
bond_denom = "ujuno"
owner_account = 1

[fee]
share = "0.003"
recipient = %q

[[accounts]]
id = 1
manager = %q
proxy = %q

[assets]
"juno>juno" = { native = "ujuno" }
"juno>wynd" = { cw20 = %q }

[contracts]
"astroport:generator" = %q

[pools]
"wyndex:juno>wynd,juno>juno" = %q
`, treasury, manager, proxy, wynd, pair, pair)
}

func yamlDirectory() string {
	return fmt.Sprintf(`
chain: juno
bech32_prefix: juno
accounts:
  - id: 7
    proxy: %s
assets:
  juno>juno:
    native: ujuno
pools:
  wyndex:juno>juno,juno>wynd: %s
`, proxy, pair)
}

func jsonDirectory() string {
	return fmt.Sprintf(`{
  "chain": "juno",
  "bech32_prefix": "juno",
  "accounts": [{"id": 2, "proxy": %q}],
  "assets": {"juno>wynd": {"cw20": %q}}
}`, proxy, wynd)
}

func memoryReader(files map[string]string) config.FileReader {
	return func(path string) ([]byte, error) {
		content, ok := files[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(content), nil
	}
}

func TestLoadDirectoryFormats(t *testing.T) {
	loader := config.NewDirectoryLoaderWithReader(memoryReader(map[string]string{
		"juno.toml": tomlDirectory(),
		"juno.yaml": yamlDirectory(),
		"juno.json": jsonDirectory(),
	}))

	tomlDir, err := loader.LoadFromFile("juno.toml")
	assert.NoError(t, err)
	assert.Equal(t, tomlDir.BondDenom, "ujuno")
	assert.Equal(t, *tomlDir.OwnerAccount, uint32(1))
	assert.Equal(t, tomlDir.Assets["juno>wynd"], models.NewCw20AssetInfo(wynd))

	yamlDir, err := loader.LoadFromFile("juno.yaml")
	assert.NoError(t, err)
	assert.Equal(t, yamlDir.Accounts[0].ID, uint32(7))
	assert.Equal(t, yamlDir.Assets["juno>juno"], models.NewNativeAssetInfo("ujuno"))

	jsonDir, err := loader.LoadFromFile("juno.json")
	assert.NoError(t, err)
	assert.True(t, jsonDir.OwnerAccount == nil)
	assert.Equal(t, jsonDir.Accounts[0].Proxy, proxy)
}

func TestDirectoryBuildsCollaborators(t *testing.T) {
	loader := config.NewDirectoryLoaderWithReader(memoryReader(map[string]string{"juno.toml": tomlDirectory()}))
	dir, err := loader.LoadFromFile("juno.toml")
	assert.NoError(t, err)

	ns := dir.NameService()
	addr, err := ns.Pool("wyndex", "juno>juno", "juno>wynd")
	assert.NoError(t, err)
	assert.Equal(t, addr, pair)
	generator, err := ns.Contract("astroport", "generator")
	assert.NoError(t, err)
	assert.Equal(t, generator, pair)

	accounts, err := dir.AccountRegistry()
	assert.NoError(t, err)
	target, err := accounts.TargetOf(manager)
	assert.NoError(t, err)
	assert.Equal(t, target, proxy)

	f, err := dir.FeeDefault()
	assert.NoError(t, err)
	assert.True(t, f.Share.Equal(decimal.RequireFromString("0.003")))
	assert.Equal(t, f.Recipient, treasury)
}

func TestLoadDirectoryRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown suffix", "juno.ini", tomlDirectory()},
		{"no prefix", "a.json", fmt.Sprintf(`{"accounts":[{"id":1,"proxy":%q}]}`, proxy)},
		{"no accounts", "a.json", `{"bech32_prefix":"juno"}`},
		{"wrong prefix proxy", "a.json", fmt.Sprintf(`{"bech32_prefix":"juno","accounts":[{"id":1,"proxy":%q}]}`,
			mock.Address("osmo", "proxy"))},
		{"owner not registered", "a.json", fmt.Sprintf(`{"bech32_prefix":"juno","owner_account":9,"accounts":[{"id":1,"proxy":%q}]}`, proxy)},
		{"asset with both kinds", "a.json", fmt.Sprintf(`{"bech32_prefix":"juno","accounts":[{"id":1,"proxy":%q}],
			"assets":{"x":{"native":"ux","cw20":%q}}}`, proxy, wynd)},
		{"bad pool key", "a.json", fmt.Sprintf(`{"bech32_prefix":"juno","accounts":[{"id":1,"proxy":%q}],
			"pools":{"wyndex":%q}}`, proxy, pair)},
		{"fee share out of range", "a.json", fmt.Sprintf(`{"bech32_prefix":"juno","accounts":[{"id":1,"proxy":%q}],
			"fee":{"share":"1"}}`, proxy)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := config.NewDirectoryLoaderWithReader(memoryReader(map[string]string{tt.file: tt.content}))
			_, err := loader.LoadFromFile(tt.file)
			assert.Error(t, err)
		})
	}
}

func TestFetchDirectoryFromLocalPath(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "juno.toml")
	assert.NoError(t, os.WriteFile(src, []byte(tomlDirectory()), 0o600))

	dst := filepath.Join(t.TempDir(), "fetched", "juno.toml")
	assert.NoError(t, config.FetchDirectory(context.Background(), src, dst))

	dir, err := config.NewDirectoryLoader().LoadFromFile(dst)
	assert.NoError(t, err)
	assert.Equal(t, dir.Chain, "juno")
}
