// Package fee holds the usage fee the dex adapter charges on local swaps and
// the stores that persist it.
package fee

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "fee").Logger()
}

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	log = l.With().Str("component", "fee").Logger()
}

// MaxShare is the exclusive upper bound of the fee share.
var MaxShare = decimal.NewFromInt(1)

// UsageFee is the share of each swap paid to Recipient.
type UsageFee struct {
	Share     decimal.Decimal `json:"share"`
	Recipient string          `json:"recipient"`
}

// NewUsageFee validates both fields.
func NewUsageFee(share decimal.Decimal, recipient string, validator host.AddressValidator) (UsageFee, error) {
	var f UsageFee
	if err := f.SetShare(share); err != nil {
		return UsageFee{}, err
	}
	if recipient != "" {
		if err := f.SetRecipient(validator, recipient); err != nil {
			return UsageFee{}, err
		}
	}
	return f, nil
}

// SetShare accepts shares in [0, 1).
func (f *UsageFee) SetShare(share decimal.Decimal) error {
	if share.IsNegative() || share.GreaterThanOrEqual(MaxShare) {
		return adaptererr.Newf(adaptererr.CodeFeeRangeInvalid,
			"fee share must be within [0, %s), got %s", MaxShare, share)
	}
	f.Share = share
	return nil
}

// SetRecipient validates the address before storing it.
func (f *UsageFee) SetRecipient(validator host.AddressValidator, recipient string) error {
	addr, err := validator.Validate(recipient)
	if err != nil {
		return err
	}
	f.Recipient = addr
	return nil
}

// Compute returns the fee owed on amount, rounded down to a whole unit.
func (f UsageFee) Compute(amount decimal.Decimal) decimal.Decimal {
	if f.Share.IsZero() || f.Recipient == "" {
		return decimal.Zero
	}
	return amount.Mul(f.Share).Floor()
}

// Store persists the single fee record of an adapter instance.
type Store interface {
	Load(ctx context.Context) (UsageFee, error)
	Save(ctx context.Context, fee UsageFee) error
	Close() error
}
