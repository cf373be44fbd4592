package host_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host/mock"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
	"github.com/zeebo/assert"
)

func TestStaticAccountRegistry(t *testing.T) {
	registry, err := host.NewStaticAccountRegistry([]host.Account{
		{ID: 1, Manager: "juno1manager", Proxy: "juno1proxy"},
		{ID: 2, Proxy: "juno1other"},
	})
	assert.NoError(t, err)

	id, err := registry.AssertProxy("juno1proxy")
	assert.NoError(t, err)
	assert.Equal(t, id, uint32(1))

	_, err = registry.AssertProxy("juno1manager")
	assert.True(t, adaptererr.Is(err, adaptererr.CodeUnauthorized))

	proxy, err := registry.ProxyAddress(2)
	assert.NoError(t, err)
	assert.Equal(t, proxy, "juno1other")

	_, err = registry.ProxyAddress(9)
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAccountNotFound))

	target, err := registry.TargetOf("juno1manager")
	assert.NoError(t, err)
	assert.Equal(t, target, "juno1proxy")

	_, err = registry.TargetOf("juno1stranger")
	assert.True(t, adaptererr.Is(err, adaptererr.CodeUnauthorized))
}

func TestStaticAccountRegistryRejectsDuplicates(t *testing.T) {
	_, err := host.NewStaticAccountRegistry([]host.Account{
		{ID: 1, Proxy: "juno1proxy"},
		{ID: 1, Proxy: "juno1proxy2"},
	})
	assert.Error(t, err)

	_, err = host.NewStaticAccountRegistry([]host.Account{{ID: 3}})
	assert.Error(t, err)
}

func TestBech32Validator(t *testing.T) {
	validator := host.NewBech32Validator("juno")
	addr := mock.Address("juno", "staker")

	got, err := validator.Validate(addr)
	assert.NoError(t, err)
	assert.Equal(t, got, addr)

	got, err = validator.Validate(strings.ToUpper(addr))
	assert.NoError(t, err)
	assert.Equal(t, got, addr)

	last := "q"
	if strings.HasSuffix(addr, "q") {
		last = "p"
	}
	tests := []string{
		"",
		"juno1notanaddress",
		mock.Address("osmo", "staker"),
		addr[:len(addr)-1] + last,
	}
	for _, in := range tests {
		_, err := validator.Validate(in)
		assert.True(t, adaptererr.Is(err, adaptererr.CodeAddressValidationFailed))
	}
}

func TestConvertBech32Address(t *testing.T) {
	juno := mock.Address("juno", "same-key")
	osmo, err := host.ConvertBech32Address(juno, "osmo")
	assert.NoError(t, err)
	assert.Equal(t, osmo, mock.Address("osmo", "same-key"))
}

func TestQuerierProbe(t *testing.T) {
	querier := mock.NewMockQuerier().AddContract("juno1contract", 7)
	probe := host.NewQuerierProbe(querier)

	assert.True(t, probe.HasCode(context.Background(), "juno1contract"))
	assert.False(t, probe.HasCode(context.Background(), "juno1wallet"))
}

func TestProxyExecutorWrapsMessages(t *testing.T) {
	inner := models.NewBankSend("juno1to", models.NewCoin("ujuno", models.NewAnsAsset("x", 5).Amount))
	msg, err := host.NewProxyExecutor("juno1proxy").Execute([]models.CosmosMsg{inner})
	assert.NoError(t, err)
	assert.Equal(t, msg.Wasm.Execute.ContractAddr, "juno1proxy")

	var decoded ibcaction.ProxyMsg
	assert.NoError(t, json.Unmarshal(msg.Wasm.Execute.Msg, &decoded))
	assert.NotNil(t, decoded.ModuleAction)
	assert.Equal(t, len(decoded.ModuleAction.Msgs), 1)
	assert.Equal(t, decoded.ModuleAction.Msgs[0].Bank.Send.ToAddress, "juno1to")

	_, err = host.NewProxyExecutor("").Execute(nil)
	assert.Error(t, err)
}
