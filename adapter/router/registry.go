package router

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues/astroport"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router/venues/wyndex"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "router").Logger()
}

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	log = l.With().Str("component", "router").Logger()
}

const (
	Osmosis = "osmosis"
	Kujira  = "kujira"
)

// Registry is the closed set of venues the adapter can reach. It is built
// once and only read afterwards.
type Registry struct {
	dexes    map[string]venues.Dex
	stakings map[string]venues.Staking
}

// NormalizeName trims and lower-cases a venue name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewRegistry registers each venue under its normalized name as a dex, a
// staking provider, or both. Duplicate names and venues that are neither are
// rejected.
func NewRegistry(vs ...venues.Venue) (*Registry, error) {
	r := &Registry{
		dexes:    make(map[string]venues.Dex),
		stakings: make(map[string]venues.Staking),
	}
	seen := make(map[string]bool, len(vs))
	for _, v := range vs {
		name := NormalizeName(v.Name())
		if name == "" {
			return nil, fmt.Errorf("venue with empty name")
		}
		if seen[name] {
			return nil, fmt.Errorf("venue %s registered twice", name)
		}
		seen[name] = true
		if v.OverIBC() && v.HostChain() == "" {
			return nil, fmt.Errorf("remote venue %s has no host chain", name)
		}
		if !v.OverIBC() && v.HostChain() != "" {
			return nil, fmt.Errorf("local venue %s declares host chain %s", name, v.HostChain())
		}

		dex, isDex := v.(venues.Dex)
		staking, isStaking := v.(venues.Staking)
		if !isDex && !isStaking {
			return nil, fmt.Errorf("venue %s is neither a dex nor a staking provider", name)
		}
		if isDex {
			r.dexes[name] = dex
		}
		if isStaking {
			r.stakings[name] = staking
		}
	}
	return r, nil
}

// DefaultRegistry returns the compiled-in venues.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		astroport.New(),
		wyndex.New(),
		venues.NewRemote(Osmosis, Osmosis),
		venues.NewRemoteDex(Kujira, Kujira),
	)
	if err != nil {
		// the compiled-in set is fixed, this only fails on a programming error
		panic(err)
	}
	return r
}

// IdentifyExchange returns the dex registered under name.
func (r *Registry) IdentifyExchange(name string) (venues.Dex, error) {
	dex, ok := r.dexes[NormalizeName(name)]
	if !ok {
		return nil, adaptererr.Newf(adaptererr.CodeVenueNotSupported, "dex %s is not supported", name)
	}
	return dex, nil
}

// IsOverIBC reports whether name is a remote dex. Unknown names are not.
func (r *Registry) IsOverIBC(name string) bool {
	dex, ok := r.dexes[NormalizeName(name)]
	return ok && dex.OverIBC()
}

// IdentifyProvider returns the staking provider registered under name.
func (r *Registry) IdentifyProvider(name string) (venues.Staking, error) {
	staking, ok := r.stakings[NormalizeName(name)]
	if !ok {
		return nil, adaptererr.Newf(adaptererr.CodeVenueNotSupported, "staking provider %s is not supported", name)
	}
	return staking, nil
}

// ListVenues describes every registered venue, sorted by name.
func (r *Registry) ListVenues() []models.VenueInfo {
	byName := make(map[string]*models.VenueInfo)
	add := func(v venues.Venue) *models.VenueInfo {
		name := NormalizeName(v.Name())
		info, ok := byName[name]
		if !ok {
			info = &models.VenueInfo{Name: name, OverIBC: v.OverIBC(), HostChain: v.HostChain()}
			byName[name] = info
		}
		return info
	}
	for _, d := range r.dexes {
		add(d).Dex = true
	}
	for _, s := range r.stakings {
		add(s).Staking = true
	}

	out := make([]models.VenueInfo, 0, len(byName))
	for _, info := range byName {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
