package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/ans"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/fee"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
)

// FileReader reads a whole file. Tests swap it to serve content from memory.
type FileReader func(path string) ([]byte, error)

// DirectoryLoader loads directory files written in TOML, JSON or YAML.
type DirectoryLoader struct {
	read FileReader
}

// NewDirectoryLoader creates a loader that reads from disk.
func NewDirectoryLoader() *DirectoryLoader {
	return &DirectoryLoader{read: os.ReadFile}
}

// NewDirectoryLoaderWithReader creates a loader with a custom reader.
func NewDirectoryLoaderWithReader(read FileReader) *DirectoryLoader {
	return &DirectoryLoader{read: read}
}

// LoadFromFile reads, decodes and verifies a directory file. The format is
// picked from the file suffix.
func (l *DirectoryLoader) LoadFromFile(filePath string) (*DirectoryFile, error) {
	data, err := l.read(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}

	var dir DirectoryFile
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		if err := json.Unmarshal(data, &dir); err != nil {
			return nil, fmt.Errorf("failed to parse JSON directory: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dir); err != nil {
			return nil, fmt.Errorf("failed to parse YAML directory: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &dir); err != nil {
			return nil, fmt.Errorf("failed to parse TOML directory: %w", err)
		}
	default:
		return nil, fmt.Errorf("directory file must be .toml, .json or .yaml: %s", filePath)
	}

	if err := verifyDirectory(&dir); err != nil {
		return nil, fmt.Errorf("failed to verify directory %s: %w", filePath, err)
	}
	return &dir, nil
}

func verifyDirectory(dir *DirectoryFile) error {
	dir.Bech32Prefix = strings.ToLower(strings.TrimSpace(dir.Bech32Prefix))
	if dir.Bech32Prefix == "" {
		return fmt.Errorf("bech32_prefix is required")
	}
	if len(dir.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}

	validator := dir.Validator()
	for _, acc := range dir.Accounts {
		if _, err := validator.Validate(acc.Proxy); err != nil {
			return fmt.Errorf("account %d proxy: %w", acc.ID, err)
		}
		if acc.Manager != "" {
			if _, err := validator.Validate(acc.Manager); err != nil {
				return fmt.Errorf("account %d manager: %w", acc.ID, err)
			}
		}
	}
	if dir.OwnerAccount != nil {
		found := false
		for _, acc := range dir.Accounts {
			if acc.ID == *dir.OwnerAccount {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("owner_account %d is not a registered account", *dir.OwnerAccount)
		}
	}

	for name, info := range dir.Assets {
		if (info.Native == "") == (info.Cw20 == "") {
			return fmt.Errorf("asset %s must set exactly one of native or cw20", name)
		}
		if info.Cw20 != "" {
			if _, err := validator.Validate(info.Cw20); err != nil {
				return fmt.Errorf("asset %s: %w", name, err)
			}
		}
	}
	for key := range dir.Contracts {
		if !strings.Contains(key, ":") {
			return fmt.Errorf("contract key %s must be protocol:name", key)
		}
	}
	for key := range dir.Pools {
		dex, assets, ok := strings.Cut(key, ":")
		if !ok || dex == "" || !strings.Contains(assets, ",") {
			return fmt.Errorf("pool key %s must be dex:asset_a,asset_b", key)
		}
	}

	if _, err := dir.FeeDefault(); err != nil {
		return err
	}
	return nil
}

// Validator returns the address validator of the directory's chain.
func (d *DirectoryFile) Validator() *host.Bech32Validator {
	return host.NewBech32Validator(d.Bech32Prefix)
}

// NameService builds the name service host from the directory content.
func (d *DirectoryFile) NameService() *ans.Host {
	return ans.NewHost(ans.Directory{
		Assets:    d.Assets,
		Contracts: d.Contracts,
		Pools:     d.Pools,
	})
}

// AccountRegistry indexes the registered accounts.
func (d *DirectoryFile) AccountRegistry() (*host.StaticAccountRegistry, error) {
	reg, err := host.NewStaticAccountRegistry(d.Accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to build account registry: %w", err)
	}
	return reg, nil
}

// FeeDefault parses the fee the store is seeded with. A missing share means
// no fee.
func (d *DirectoryFile) FeeDefault() (fee.UsageFee, error) {
	share := decimal.Zero
	if s := strings.TrimSpace(d.Fee.Share); s != "" {
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return fee.UsageFee{}, fmt.Errorf("invalid fee share %q: %w", d.Fee.Share, err)
		}
		share = parsed
	}
	f, err := fee.NewUsageFee(share, d.Fee.Recipient, d.Validator())
	if err != nil {
		return fee.UsageFee{}, fmt.Errorf("invalid fee defaults: %w", err)
	}
	return f, nil
}
