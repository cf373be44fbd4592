package host

import (
	"fmt"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	ibcaction "github.com/Cogwheel-Validator/spectra-adapter/adapter/router/ibc_action"
)

// ProxyExecutor wraps messages into a module_action call on an account proxy.
type ProxyExecutor struct {
	proxy string
}

func NewProxyExecutor(proxy string) *ProxyExecutor {
	return &ProxyExecutor{proxy: proxy}
}

func (e *ProxyExecutor) Execute(msgs []models.CosmosMsg) (models.CosmosMsg, error) {
	if e.proxy == "" {
		return models.CosmosMsg{}, fmt.Errorf("executor has no proxy address")
	}
	out, err := models.NewWasmExecute(e.proxy, ibcaction.NewModuleActionMsg(msgs), nil)
	if err != nil {
		return models.CosmosMsg{}, fmt.Errorf("failed to serialize proxy execution: %w", err)
	}
	return out, nil
}
