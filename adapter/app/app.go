// Package app wires the adapters from a directory file, the fee store and
// the LCD endpoints. Both the server and the command line tool start here.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/config"
	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/fee"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	lcdquery "github.com/Cogwheel-Validator/spectra-adapter/adapter/lcd_query"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router"
)

// Options locate the inputs of an adapter instance.
type Options struct {
	DirectoryPath string
	FeeDBPath     string
	FeeLockPath   string
	// LcdURLs lists LCD endpoints, primary first. Without any the adapter
	// runs offline and every chain read fails with a host error.
	LcdURLs  []string
	Failover *lcdquery.FailoverConfig
	Logger   *zerolog.Logger
}

// App holds the wired adapters and the resources they own.
type App struct {
	Directory  *config.DirectoryFile
	Dex        *router.DexAdapter
	Staking    *router.StakingAdapter
	Tendermint *router.TendermintStakingAdapter
	Fees       *fee.SQLiteStore

	lcd *lcdquery.LcdQueryClient
}

// New loads the directory, opens the fee store and builds the adapters.
func New(opts Options) (*App, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		router.SetLogger(*opts.Logger)
		fee.SetLogger(*opts.Logger)
		lcdquery.SetLogger(*opts.Logger)
	}

	dir, err := config.NewDirectoryLoader().LoadFromFile(opts.DirectoryPath)
	if err != nil {
		return nil, err
	}
	accounts, err := dir.AccountRegistry()
	if err != nil {
		return nil, err
	}
	initialFee, err := dir.FeeDefault()
	if err != nil {
		return nil, err
	}

	lockPath := opts.FeeLockPath
	if lockPath == "" {
		lockPath = opts.FeeDBPath + ".lock"
	}
	fees, err := fee.OpenSQLiteStore(opts.FeeDBPath, lockPath, initialFee)
	if err != nil {
		return nil, err
	}

	a := &App{Directory: dir, Fees: fees}
	var querier host.Querier = offlineQuerier{}
	var delegations host.DelegationQuerier
	if len(opts.LcdURLs) > 0 {
		failover := lcdquery.DefaultFailoverConfig()
		if opts.Failover != nil {
			failover = *opts.Failover
		}
		client, err := lcdquery.NewLcdQueryClientWithFailover(opts.LcdURLs[0], opts.LcdURLs[1:], failover)
		if err != nil {
			_ = fees.Close()
			return nil, err
		}
		a.lcd = client
		querier = client
		delegations = client
	}

	deps := router.Deps{
		Registry:     router.DefaultRegistry(),
		Ans:          dir.NameService(),
		Accounts:     accounts,
		Querier:      querier,
		Validator:    dir.Validator(),
		Fees:         fees,
		OwnerAccount: dir.OwnerAccount,
	}
	if a.Dex, err = router.NewDexAdapter(deps); err != nil {
		_ = a.Close()
		return nil, err
	}
	if a.Staking, err = router.NewStakingAdapter(deps); err != nil {
		_ = a.Close()
		return nil, err
	}
	if dir.BondDenom != "" {
		a.Tendermint, err = router.NewTendermintStakingAdapter(deps, router.TendermintConfig{
			BondDenom:   dir.BondDenom,
			Operators:   host.NewBech32Validator(dir.Bech32Prefix + "valoper"),
			Delegations: delegations,
		})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

// Close releases the fee store and stops the LCD health checker.
func (a *App) Close() error {
	if a.lcd != nil {
		a.lcd.Close()
	}
	if a.Fees != nil {
		return a.Fees.Close()
	}
	return nil
}

type offlineQuerier struct{}

func (offlineQuerier) ContractInfo(_ context.Context, addr string) (*host.ContractInfo, error) {
	return nil, adaptererr.Newf(adaptererr.CodeHostError, "no lcd endpoint configured to query contract %s", addr)
}

func (offlineQuerier) Smart(_ context.Context, contract string, _ any, _ any) error {
	return adaptererr.Newf(adaptererr.CodeHostError, "no lcd endpoint configured to query contract %s", contract)
}

var _ host.Querier = offlineQuerier{}

// Validate checks the options before any file is touched.
func (o Options) Validate() error {
	if o.DirectoryPath == "" {
		return fmt.Errorf("directory path is required")
	}
	if o.FeeDBPath == "" {
		return fmt.Errorf("fee db path is required")
	}
	return nil
}
