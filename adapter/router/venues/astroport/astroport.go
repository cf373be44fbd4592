// Package astroport implements the astroport dex and its generator staking
// on the local chain.
package astroport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues/pair"
)

const Name = "astroport"

// GeneratorContract is the directory name of the LP staking contract.
const GeneratorContract = "generator"

// Astroport is a local venue.
type Astroport struct {
	translator pair.Translator
}

var (
	_ venues.Dex     = (*Astroport)(nil)
	_ venues.Staking = (*Astroport)(nil)
)

func New() *Astroport {
	return &Astroport{translator: pair.Translator{Dex: Name, Dialect: Dialect{}}}
}

func (a *Astroport) Name() string      { return Name }
func (a *Astroport) OverIBC() bool     { return false }
func (a *Astroport) HostChain() string { return "" }

func (a *Astroport) BuildMessages(ctx context.Context, dc venues.DexContext, action models.DexAction) ([]models.CosmosMsg, error) {
	return a.translator.Build(ctx, dc, action)
}

// Dialect encodes asset infos as {"native_token":{"denom":..}} and
// {"token":{"contract_addr":..}}.
type Dialect struct{}

type nativeToken struct {
	Denom string `json:"denom"`
}

type token struct {
	ContractAddr string `json:"contract_addr"`
}

type assetInfo struct {
	NativeToken *nativeToken `json:"native_token,omitempty"`
	Token       *token       `json:"token,omitempty"`
}

func (Dialect) EncodeInfo(info models.AssetInfo) any {
	if info.IsNative() {
		return assetInfo{NativeToken: &nativeToken{Denom: info.Native}}
	}
	return assetInfo{Token: &token{ContractAddr: info.Cw20}}
}

func (Dialect) DecodeInfo(raw json.RawMessage) (models.AssetInfo, error) {
	var info assetInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return models.AssetInfo{}, fmt.Errorf("failed to decode astroport asset info: %w", err)
	}
	switch {
	case info.NativeToken != nil && info.NativeToken.Denom != "":
		return models.NewNativeAssetInfo(info.NativeToken.Denom), nil
	case info.Token != nil && info.Token.ContractAddr != "":
		return models.NewCw20AssetInfo(info.Token.ContractAddr), nil
	}
	return models.AssetInfo{}, fmt.Errorf("astroport asset info %s holds no variant", string(raw))
}
