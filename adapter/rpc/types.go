package rpc

import (
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

// Procedure paths served by the adapter.
const (
	DexServiceName               = "adapter.v1.DexService"
	StakingServiceName           = "adapter.v1.StakingService"
	TendermintStakingServiceName = "adapter.v1.TendermintStakingService"

	DexExecuteProcedure               = "/" + DexServiceName + "/Execute"
	DexListVenuesProcedure            = "/" + DexServiceName + "/ListVenues"
	DexGetFeeProcedure                = "/" + DexServiceName + "/GetFee"
	StakingQueryProcedure             = "/" + StakingServiceName + "/Query"
	StakingExecuteProcedure           = "/" + StakingServiceName + "/Execute"
	TendermintStakingExecuteProcedure = "/" + TendermintStakingServiceName + "/Execute"
)

// ExecuteRequest carries the caller and the execute message of one invocation.
type ExecuteRequest[M any] struct {
	Info models.MessageInfo `json:"info"`
	Msg  M                  `json:"msg"`
}

type ExecuteResponse struct {
	Response *models.Response `json:"response"`
}

type ListVenuesRequest struct{}

type ListVenuesResponse struct {
	Venues []models.VenueInfo `json:"venues"`
}

type GetFeeRequest struct{}

// QueryResponse wraps whichever typed answer the staking query produced.
type QueryResponse struct {
	Result any `json:"result"`
}
