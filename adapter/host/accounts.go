package host

import (
	"fmt"
	"strings"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
)

// Account is one registered account: its manager and its proxy.
type Account struct {
	ID      uint32 `json:"id" toml:"id" yaml:"id"`
	Manager string `json:"manager" toml:"manager" yaml:"manager"`
	Proxy   string `json:"proxy" toml:"proxy" yaml:"proxy"`
}

// StaticAccountRegistry is an AccountRegistry backed by a fixed account list.
type StaticAccountRegistry struct {
	byID      map[uint32]Account
	byProxy   map[string]uint32
	byManager map[string]uint32
}

// NewStaticAccountRegistry indexes accounts. Duplicate ids or addresses are rejected.
func NewStaticAccountRegistry(accounts []Account) (*StaticAccountRegistry, error) {
	r := &StaticAccountRegistry{
		byID:      make(map[uint32]Account, len(accounts)),
		byProxy:   make(map[string]uint32, len(accounts)),
		byManager: make(map[string]uint32, len(accounts)),
	}
	for _, acc := range accounts {
		proxy := strings.TrimSpace(acc.Proxy)
		if proxy == "" {
			return nil, fmt.Errorf("account %d has no proxy", acc.ID)
		}
		if _, dup := r.byID[acc.ID]; dup {
			return nil, fmt.Errorf("duplicate account id %d", acc.ID)
		}
		if _, dup := r.byProxy[proxy]; dup {
			return nil, fmt.Errorf("proxy %s registered twice", proxy)
		}
		r.byID[acc.ID] = acc
		r.byProxy[proxy] = acc.ID
		if manager := strings.TrimSpace(acc.Manager); manager != "" {
			r.byManager[manager] = acc.ID
		}
	}
	return r, nil
}

func (r *StaticAccountRegistry) AssertProxy(addr string) (uint32, error) {
	id, ok := r.byProxy[strings.TrimSpace(addr)]
	if !ok {
		return 0, adaptererr.Newf(adaptererr.CodeUnauthorized, "%s is not an account proxy", addr)
	}
	return id, nil
}

func (r *StaticAccountRegistry) ProxyAddress(accountID uint32) (string, error) {
	acc, ok := r.byID[accountID]
	if !ok {
		return "", adaptererr.Newf(adaptererr.CodeAccountNotFound, "account %d not found", accountID)
	}
	return acc.Proxy, nil
}

func (r *StaticAccountRegistry) TargetOf(sender string) (string, error) {
	sender = strings.TrimSpace(sender)
	if _, ok := r.byProxy[sender]; ok {
		return sender, nil
	}
	if id, ok := r.byManager[sender]; ok {
		return r.byID[id].Proxy, nil
	}
	return "", adaptererr.Newf(adaptererr.CodeUnauthorized, "%s is not a manager or proxy of any account", sender)
}

// Accounts returns the number of registered accounts.
func (r *StaticAccountRegistry) Accounts() int {
	return len(r.byID)
}
