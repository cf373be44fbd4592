package host

import (
	"context"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
)

// Bech32Validator accepts addresses encoded with one bech32 prefix.
type Bech32Validator struct {
	prefix string
}

// NewBech32Validator creates a validator for the chain's account prefix, e.g. "juno".
func NewBech32Validator(prefix string) *Bech32Validator {
	return &Bech32Validator{prefix: strings.ToLower(strings.TrimSpace(prefix))}
}

// Validate decodes addr and checks its prefix. It returns the canonical
// lowercase form of the address.
func (v *Bech32Validator) Validate(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", adaptererr.New(adaptererr.CodeAddressValidationFailed, "address is empty")
	}
	// bech32 forbids mixed case, canonical addresses are lowercase
	if trimmed != strings.ToLower(trimmed) && trimmed != strings.ToUpper(trimmed) {
		return "", adaptererr.Newf(adaptererr.CodeAddressValidationFailed, "address %s has mixed case", addr)
	}
	hrp, _, err := bech32.Decode(trimmed)
	if err != nil {
		return "", adaptererr.Wrap(adaptererr.CodeAddressValidationFailed, "failed to decode address "+addr, err)
	}
	if v.prefix != "" && hrp != v.prefix {
		return "", adaptererr.Newf(adaptererr.CodeAddressValidationFailed,
			"address %s has prefix %s, expected %s", addr, hrp, v.prefix)
	}
	return strings.ToLower(trimmed), nil
}

// ConvertBech32Address re-encodes an address with a new prefix, deriving the
// same account's address on another chain.
func ConvertBech32Address(address string, targetPrefix string) (string, error) {
	_, data, err := bech32.Decode(address)
	if err != nil {
		return "", adaptererr.Wrap(adaptererr.CodeAddressValidationFailed, "failed to decode address", err)
	}
	converted, err := bech32.Encode(targetPrefix, data)
	if err != nil {
		return "", adaptererr.Wrap(adaptererr.CodeAddressValidationFailed, "failed to encode address", err)
	}
	return converted, nil
}

// QuerierProbe decides contract ownership by asking the chain for contract info.
// Any failure, including "not found", means the address owns no code.
type QuerierProbe struct {
	querier Querier
}

func NewQuerierProbe(querier Querier) *QuerierProbe {
	return &QuerierProbe{querier: querier}
}

func (p *QuerierProbe) HasCode(ctx context.Context, addr string) bool {
	info, err := p.querier.ContractInfo(ctx, addr)
	return err == nil && info != nil
}
