// Package errors holds the typed failures the adapter surfaces to its callers.
// Every failure carries a stable Code so the RPC layer and the CLI can map it
// without string matching.
package errors

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
)

// Code is a stable, machine-readable failure class.
type Code int

const (
	CodeOK Code = iota
	CodeVenueNotSupported
	CodeRemoteQueryUnsupported
	CodeUnsupportedCrossDomainAction
	CodeAssetResolutionFailed
	CodeAddressValidationFailed
	CodeUnauthorized
	CodeFeeRangeInvalid
	CodeAccountNotFound
	CodeInternalSerializationFault
	CodeHostError
	CodeActionNotSupported
	CodeInvalidRequest
)

var codeNames = map[Code]string{
	CodeOK:                           "ok",
	CodeVenueNotSupported:            "venue_not_supported",
	CodeRemoteQueryUnsupported:       "remote_query_unsupported",
	CodeUnsupportedCrossDomainAction: "unsupported_cross_domain_action",
	CodeAssetResolutionFailed:        "asset_resolution_failed",
	CodeAddressValidationFailed:      "address_validation_failed",
	CodeUnauthorized:                 "unauthorized",
	CodeFeeRangeInvalid:              "fee_range_invalid",
	CodeAccountNotFound:              "account_not_found",
	CodeInternalSerializationFault:   "internal_serialization_fault",
	CodeHostError:                    "host_error",
	CodeActionNotSupported:           "action_not_supported",
	CodeInvalidRequest:               "invalid_request",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is an adapter failure with a stable code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost adapter error in the chain.
// Errors that never passed through this package are host failures.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if adapterErr, ok := As(err); ok {
		return adapterErr.Code
	}
	return CodeHostError
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Host wraps a collaborator failure so it keeps its message but gains a code.
// Errors that already carry a code pass through untouched.
func Host(message string, cause error) error {
	if cause == nil {
		return nil
	}
	if _, ok := As(cause); ok {
		return cause
	}
	return Wrap(CodeHostError, message, cause)
}

// ConnectCode maps a failure class to the code the RPC layer answers with.
func ConnectCode(code Code) connect.Code {
	switch code {
	case CodeVenueNotSupported, CodeAccountNotFound:
		return connect.CodeNotFound
	case CodeRemoteQueryUnsupported, CodeUnsupportedCrossDomainAction, CodeActionNotSupported:
		return connect.CodeUnimplemented
	case CodeAssetResolutionFailed:
		return connect.CodeFailedPrecondition
	case CodeAddressValidationFailed, CodeFeeRangeInvalid, CodeInvalidRequest:
		return connect.CodeInvalidArgument
	case CodeUnauthorized:
		return connect.CodePermissionDenied
	case CodeHostError:
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

// ExitCode maps an error to a process exit status for the command line tool.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CodeOf(err) {
	case CodeInvalidRequest, CodeAddressValidationFailed, CodeFeeRangeInvalid:
		return 2
	case CodeUnauthorized:
		return 10
	case CodeHostError:
		return 12
	case CodeVenueNotSupported, CodeRemoteQueryUnsupported,
		CodeUnsupportedCrossDomainAction, CodeActionNotSupported:
		return 13
	default:
		return 1
	}
}
