package errors_test

import (
	"fmt"
	"testing"

	"connectrpc.com/connect"
	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/zeebo/assert"
)

func TestCodeOfWrappedChain(t *testing.T) {
	base := adaptererr.New(adaptererr.CodeFeeRangeInvalid, "share out of range")
	wrapped := fmt.Errorf("failed to update fee: %w", base)

	assert.Equal(t, adaptererr.CodeOf(wrapped), adaptererr.CodeFeeRangeInvalid)
	assert.True(t, adaptererr.Is(wrapped, adaptererr.CodeFeeRangeInvalid))
	assert.False(t, adaptererr.Is(nil, adaptererr.CodeFeeRangeInvalid))
}

func TestHostKeepsExistingCode(t *testing.T) {
	coded := adaptererr.New(adaptererr.CodeAccountNotFound, "account 7 not found")
	assert.Equal(t, adaptererr.CodeOf(adaptererr.Host("lookup", coded)), adaptererr.CodeAccountNotFound)

	plain := fmt.Errorf("connection refused")
	err := adaptererr.Host("failed to query chain", plain)
	assert.Equal(t, adaptererr.CodeOf(err), adaptererr.CodeHostError)
	assert.Equal(t, err.Error(), "failed to query chain: connection refused")

	assert.Nil(t, adaptererr.Host("nothing", nil))
}

func TestConnectAndExitCodes(t *testing.T) {
	tests := []struct {
		code    adaptererr.Code
		connect connect.Code
		exit    int
	}{
		{adaptererr.CodeVenueNotSupported, connect.CodeNotFound, 13},
		{adaptererr.CodeRemoteQueryUnsupported, connect.CodeUnimplemented, 13},
		{adaptererr.CodeUnauthorized, connect.CodePermissionDenied, 10},
		{adaptererr.CodeFeeRangeInvalid, connect.CodeInvalidArgument, 2},
		{adaptererr.CodeInternalSerializationFault, connect.CodeInternal, 1},
		{adaptererr.CodeHostError, connect.CodeUnavailable, 12},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, adaptererr.ConnectCode(tt.code), tt.connect)
			assert.Equal(t, adaptererr.ExitCode(adaptererr.New(tt.code, "x")), tt.exit)
		})
	}
	assert.Equal(t, adaptererr.ExitCode(nil), 0)
}
