// Package ans resolves symbolic directory names to concrete assets, pools and
// contracts. The directory is loaded once and never mutated afterwards.
package ans

import (
	"slices"
	"sort"
	"strings"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// Directory is the raw content of the name service.
type Directory struct {
	// Assets maps a directory name (e.g. "juno>juno") to its asset info
	Assets map[string]models.AssetInfo
	// Contracts maps "protocol:name" to a contract address
	Contracts map[string]string
	// Pools maps "dex:asset_a,asset_b" (sorted names) to a pair address
	Pools map[string]string
}

// Host answers name service lookups against a Directory.
type Host struct {
	assets    map[string]models.AssetInfo
	contracts map[string]string
	pools     map[string]string

	// reverse lookup used when a venue reports assets by info
	infoToName map[string]string
}

// NewHost builds a Host. Pool keys are normalized so callers may list the
// assets of a pool in any order.
func NewHost(dir Directory) *Host {
	h := &Host{
		assets:     make(map[string]models.AssetInfo, len(dir.Assets)),
		contracts:  make(map[string]string, len(dir.Contracts)),
		pools:      make(map[string]string, len(dir.Pools)),
		infoToName: make(map[string]string, len(dir.Assets)),
	}
	for name, info := range dir.Assets {
		name = strings.TrimSpace(name)
		h.assets[name] = info
		h.infoToName[info.String()] = name
	}
	for key, addr := range dir.Contracts {
		protocol, name, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		h.contracts[ContractKey(protocol, name)] = addr
	}
	for key, addr := range dir.Pools {
		dex, assets, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		h.pools[PoolKey(dex, strings.Split(assets, ",")...)] = addr
	}
	return h
}

// PoolKey returns the normalized key of a pool: lowercased dex, sorted asset names.
func PoolKey(dex string, assets ...string) string {
	names := make([]string, 0, len(assets))
	for _, a := range assets {
		names = append(names, strings.TrimSpace(a))
	}
	sort.Strings(names)
	return strings.ToLower(strings.TrimSpace(dex)) + ":" + strings.Join(names, ",")
}

// ContractKey returns the key a contract is stored under.
func ContractKey(protocol, name string) string {
	return strings.ToLower(strings.TrimSpace(protocol)) + ":" + strings.TrimSpace(name)
}

// LPTokenName is the directory name of the liquidity token of a pool,
// for example "astroport/juno,wynd".
func LPTokenName(dex string, assets ...string) string {
	names := slices.Clone(assets)
	sort.Strings(names)
	return strings.ToLower(dex) + "/" + strings.Join(names, ",")
}

// AssetInfo looks up a directory name.
func (h *Host) AssetInfo(name string) (models.AssetInfo, error) {
	info, ok := h.assets[strings.TrimSpace(name)]
	if !ok {
		return models.AssetInfo{}, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"asset %s not found in name service", name)
	}
	return info, nil
}

// NameOf returns the directory name registered for an asset info.
func (h *Host) NameOf(info models.AssetInfo) (string, bool) {
	name, ok := h.infoToName[info.String()]
	return name, ok
}

// Resolve turns a symbolic asset into a concrete one. The amount must be a
// non-negative integer.
func (h *Host) Resolve(asset models.AnsAsset) (models.Asset, error) {
	if asset.Amount.IsNegative() {
		return models.Asset{}, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"amount underflow for %s: %s", asset.Name, asset.Amount)
	}
	if !asset.Amount.Equal(asset.Amount.Truncate(0)) {
		return models.Asset{}, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"amount for %s must be an integer, got %s", asset.Name, asset.Amount)
	}
	info, err := h.AssetInfo(asset.Name)
	if err != nil {
		return models.Asset{}, err
	}
	return models.Asset{Info: info, Amount: asset.Amount}, nil
}

// ResolveCoin resolves a symbolic asset that must be a native bank coin.
// Only native coins can leave the chain over ICS20.
func (h *Host) ResolveCoin(asset models.AnsAsset) (models.Coin, error) {
	resolved, err := h.Resolve(asset)
	if err != nil {
		return models.Coin{}, err
	}
	if !resolved.Info.IsNative() {
		return models.Coin{}, adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"asset %s is a cw20 token and cannot be sent as a coin", asset.Name)
	}
	return models.NewCoin(resolved.Info.Native, resolved.Amount), nil
}

// Pool returns the pair contract of a dex for the given asset names.
func (h *Host) Pool(dex string, assets ...string) (string, error) {
	addr, ok := h.pools[PoolKey(dex, assets...)]
	if !ok {
		return "", adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"no %s pool for assets %s", dex, strings.Join(assets, ","))
	}
	return addr, nil
}

// Contract returns the address registered for protocol and name.
func (h *Host) Contract(protocol, name string) (string, error) {
	addr, ok := h.contracts[ContractKey(protocol, name)]
	if !ok {
		return "", adaptererr.Newf(adaptererr.CodeAssetResolutionFailed,
			"contract %s not found for %s", name, protocol)
	}
	return addr, nil
}

// AssetCount is the number of registered assets.
func (h *Host) AssetCount() int {
	return len(h.assets)
}
