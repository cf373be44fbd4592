package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/router"
)

// errorCodeHeader carries the adapter failure class next to the connect code.
const errorCodeHeader = "Adapter-Error-Code"

// AdapterServer serves the dex, staking and tendermint staking adapters.
type AdapterServer struct {
	dex        *router.DexAdapter
	staking    *router.StakingAdapter
	tendermint *router.TendermintStakingAdapter
}

// NewAdapterServer creates a new AdapterServer. The tendermint adapter is
// optional; its procedure answers Unimplemented when it is nil.
func NewAdapterServer(
	dex *router.DexAdapter,
	staking *router.StakingAdapter,
	tendermint *router.TendermintStakingAdapter,
) *AdapterServer {
	return &AdapterServer{
		dex:        dex,
		staking:    staking,
		tendermint: tendermint,
	}
}

// ExecuteDex runs a dex action or a fee update for the caller in req.Info.
func (s *AdapterServer) ExecuteDex(
	ctx context.Context,
	req *connect.Request[ExecuteRequest[models.DexExecuteMsg]],
) (*connect.Response[ExecuteResponse], error) {
	resp, err := s.dex.Execute(ctx, req.Msg.Info, req.Msg.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExecuteResponse{Response: resp}), nil
}

func (s *AdapterServer) ListVenues(
	ctx context.Context,
	req *connect.Request[ListVenuesRequest],
) (*connect.Response[ListVenuesResponse], error) {
	return connect.NewResponse(&ListVenuesResponse{
		Venues: s.dex.Registry().ListVenues(),
	}), nil
}

func (s *AdapterServer) GetFee(
	ctx context.Context,
	req *connect.Request[GetFeeRequest],
) (*connect.Response[models.UsageFeeResponse], error) {
	fee, err := s.dex.Fee(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&fee), nil
}

func (s *AdapterServer) QueryStaking(
	ctx context.Context,
	req *connect.Request[models.StakingQueryMsg],
) (*connect.Response[QueryResponse], error) {
	result, err := s.staking.Query(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&QueryResponse{Result: result}), nil
}

func (s *AdapterServer) ExecuteStaking(
	ctx context.Context,
	req *connect.Request[ExecuteRequest[models.StakingExecuteMsg]],
) (*connect.Response[ExecuteResponse], error) {
	resp, err := s.staking.Execute(ctx, req.Msg.Info, req.Msg.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExecuteResponse{Response: resp}), nil
}

func (s *AdapterServer) ExecuteTendermintStaking(
	ctx context.Context,
	req *connect.Request[ExecuteRequest[models.TendermintStakingMsg]],
) (*connect.Response[ExecuteResponse], error) {
	if s.tendermint == nil {
		return nil, connect.NewError(connect.CodeUnimplemented,
			fmt.Errorf("tendermint staking is not enabled on this adapter"))
	}
	resp, err := s.tendermint.Execute(ctx, req.Msg.Info, req.Msg.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExecuteResponse{Response: resp}), nil
}

// toConnectError maps an adapter failure to its connect code and tags the
// error with the adapter code name.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	code := adaptererr.CodeOf(err)
	connectErr = connect.NewError(adaptererr.ConnectCode(code), err)
	connectErr.Meta().Set(errorCodeHeader, code.String())
	return connectErr
}

// handlers returns the procedure path and handler of every adapter procedure.
func (s *AdapterServer) handlers(opts ...connect.HandlerOption) map[string]http.Handler {
	return map[string]http.Handler{
		DexExecuteProcedure:               connect.NewUnaryHandler(DexExecuteProcedure, s.ExecuteDex, opts...),
		DexListVenuesProcedure:            connect.NewUnaryHandler(DexListVenuesProcedure, s.ListVenues, withNoSideEffects(opts)...),
		DexGetFeeProcedure:                connect.NewUnaryHandler(DexGetFeeProcedure, s.GetFee, withNoSideEffects(opts)...),
		StakingQueryProcedure:             connect.NewUnaryHandler(StakingQueryProcedure, s.QueryStaking, withNoSideEffects(opts)...),
		StakingExecuteProcedure:           connect.NewUnaryHandler(StakingExecuteProcedure, s.ExecuteStaking, opts...),
		TendermintStakingExecuteProcedure: connect.NewUnaryHandler(TendermintStakingExecuteProcedure, s.ExecuteTendermintStaking, opts...),
	}
}

func withNoSideEffects(opts []connect.HandlerOption) []connect.HandlerOption {
	out := make([]connect.HandlerOption, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, connect.WithIdempotency(connect.IdempotencyNoSideEffects))
}
