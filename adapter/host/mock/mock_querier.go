// Package mock provides in-memory chain collaborators for tests and demos.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
)

// SmartHandler answers one smart query. msg is the raw query JSON.
type SmartHandler func(msg json.RawMessage) (any, error)

// MockQuerier implements host.Querier with registered contracts and handlers.
type MockQuerier struct {
	mu        sync.Mutex
	contracts map[string]host.ContractInfo
	handlers  map[string]SmartHandler
	bonds     map[string][]string
	calls     int
}

var (
	_ host.Querier           = (*MockQuerier)(nil)
	_ host.DelegationQuerier = (*MockQuerier)(nil)
)

func NewMockQuerier() *MockQuerier {
	return &MockQuerier{
		contracts: make(map[string]host.ContractInfo),
		handlers:  make(map[string]SmartHandler),
		bonds:     make(map[string][]string),
	}
}

// AddContract marks addr as owning contract code.
func (m *MockQuerier) AddContract(addr string, codeID uint64) *MockQuerier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[addr] = host.ContractInfo{CodeID: codeID, Label: addr}
	return m
}

// HandleSmart registers the handler answering smart queries sent to contract.
// Registering a handler also registers the contract.
func (m *MockQuerier) HandleSmart(contract string, handler SmartHandler) *MockQuerier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[contract] = handler
	if _, ok := m.contracts[contract]; !ok {
		m.contracts[contract] = host.ContractInfo{CodeID: 1, Label: contract}
	}
	return m
}

func (m *MockQuerier) ContractInfo(_ context.Context, addr string) (*host.ContractInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	info, ok := m.contracts[addr]
	if !ok {
		return nil, fmt.Errorf("contract %s not found", addr)
	}
	return &info, nil
}

func (m *MockQuerier) Smart(_ context.Context, contract string, msg any, out any) error {
	m.mu.Lock()
	m.calls++
	handler, ok := m.handlers[contract]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no smart query handler for %s", contract)
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}
	resp, err := handler(raw)
	if err != nil {
		return err
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	return json.Unmarshal(body, out)
}

// SetDelegations records the validators delegator is bonded to.
func (m *MockQuerier) SetDelegations(delegator string, validators ...string) *MockQuerier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bonds[delegator] = validators
	return m
}

func (m *MockQuerier) Delegations(_ context.Context, delegator string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.bonds[delegator], nil
}

// Calls is the number of chain reads served so far.
func (m *MockQuerier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Address derives a deterministic, valid bech32 address from a seed.
func Address(prefix, seed string) string {
	sum := sha256.Sum256([]byte(seed))
	data, err := bech32.ConvertBits(sum[:20], 8, 5, true)
	if err != nil {
		panic(err)
	}
	addr, err := bech32.Encode(prefix, data)
	if err != nil {
		panic(err)
	}
	return addr
}
