package router_test

import (
	"testing"

	"github.com/zeebo/assert"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues/astroport"
)

func TestDefaultRegistryClassification(t *testing.T) {
	registry := router.DefaultRegistry()

	tests := []struct {
		name    string
		overIBC bool
		host    string
	}{
		{"astroport", false, ""},
		{" WyndEx ", false, ""},
		{"osmosis", true, "osmosis"},
		{"KUJIRA", true, "kujira"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dex, err := registry.IdentifyExchange(tt.name)
			assert.NoError(t, err)
			assert.Equal(t, dex.OverIBC(), tt.overIBC)
			assert.Equal(t, dex.HostChain(), tt.host)
			assert.Equal(t, registry.IsOverIBC(tt.name), tt.overIBC)
		})
	}

	_, err := registry.IdentifyExchange("uniswap")
	assert.True(t, adaptererr.Is(err, adaptererr.CodeVenueNotSupported))
	assert.False(t, registry.IsOverIBC("uniswap"))
}

func TestListVenues(t *testing.T) {
	listed := router.DefaultRegistry().ListVenues()
	assert.DeepEqual(t, listed, []models.VenueInfo{
		{Name: "astroport", Dex: true, Staking: true},
		{Name: "kujira", OverIBC: true, HostChain: "kujira", Dex: true},
		{Name: "osmosis", OverIBC: true, HostChain: "osmosis", Dex: true, Staking: true},
		{Name: "wyndex", Dex: true, Staking: true},
	})
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := router.NewRegistry(astroport.New(), astroport.New())
	assert.Error(t, err)

	_, err = router.NewRegistry(venues.NewRemoteDex("osmosis", "osmosis"), venues.NewRemote("Osmosis", "osmosis"))
	assert.Error(t, err)

	_, err = router.NewRegistry(venues.NewRemoteDex("nowhere", ""))
	assert.Error(t, err)
}

type nothing struct{}

func (nothing) Name() string      { return "nothing" }
func (nothing) OverIBC() bool     { return false }
func (nothing) HostChain() string { return "" }

func TestNewRegistryRejectsVenueWithoutCapability(t *testing.T) {
	_, err := router.NewRegistry(nothing{})
	assert.Error(t, err)
}
