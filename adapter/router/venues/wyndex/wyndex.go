// Package wyndex implements the wyndex dex and its per pool staking
// contracts on the local chain.
package wyndex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues/pair"
)

const Name = "wyndex"

type Wyndex struct {
	translator pair.Translator
}

var (
	_ venues.Dex     = (*Wyndex)(nil)
	_ venues.Staking = (*Wyndex)(nil)
)

func New() *Wyndex {
	return &Wyndex{translator: pair.Translator{Dex: Name, Dialect: Dialect{}}}
}

func (w *Wyndex) Name() string      { return Name }
func (w *Wyndex) OverIBC() bool     { return false }
func (w *Wyndex) HostChain() string { return "" }

func (w *Wyndex) BuildMessages(ctx context.Context, dc venues.DexContext, action models.DexAction) ([]models.CosmosMsg, error) {
	return w.translator.Build(ctx, dc, action)
}

// Dialect encodes asset infos as {"native":"ujuno"} and {"token":"juno1.."}.
type Dialect struct{}

type assetInfo struct {
	Native string `json:"native,omitempty"`
	Token  string `json:"token,omitempty"`
}

func (Dialect) EncodeInfo(info models.AssetInfo) any {
	if info.IsNative() {
		return assetInfo{Native: info.Native}
	}
	return assetInfo{Token: info.Cw20}
}

func (Dialect) DecodeInfo(raw json.RawMessage) (models.AssetInfo, error) {
	var info assetInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return models.AssetInfo{}, fmt.Errorf("failed to decode wyndex asset info: %w", err)
	}
	switch {
	case info.Native != "":
		return models.NewNativeAssetInfo(info.Native), nil
	case info.Token != "":
		return models.NewCw20AssetInfo(info.Token), nil
	}
	return models.AssetInfo{}, fmt.Errorf("wyndex asset info %s holds no variant", string(raw))
}
