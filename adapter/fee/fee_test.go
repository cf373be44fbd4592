package fee_test

import (
	"context"
	"path/filepath"
	"testing"

	adaptererr "github.com/Cogwheel-Validator/spectra-adapter/adapter/errors"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/fee"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host/mock"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

func TestSetShareBounds(t *testing.T) {
	tests := []struct {
		share string
		ok    bool
	}{
		{"0", true},
		{"0.003", true},
		{"0.999999", true},
		{"1", false},
		{"1.5", false},
		{"-0.01", false},
	}
	for _, tt := range tests {
		t.Run(tt.share, func(t *testing.T) {
			var f fee.UsageFee
			err := f.SetShare(decimal.RequireFromString(tt.share))
			if tt.ok {
				assert.NoError(t, err)
				assert.True(t, f.Share.Equal(decimal.RequireFromString(tt.share)))
			} else {
				assert.True(t, adaptererr.Is(err, adaptererr.CodeFeeRangeInvalid))
				assert.True(t, f.Share.IsZero())
			}
		})
	}
}

func TestComputeRoundsDown(t *testing.T) {
	validator := host.NewBech32Validator("juno")
	recipient := mock.Address("juno", "treasury")
	f, err := fee.NewUsageFee(decimal.RequireFromString("0.003"), recipient, validator)
	assert.NoError(t, err)

	assert.True(t, f.Compute(decimal.NewFromInt(1000)).Equal(decimal.NewFromInt(3)))
	assert.True(t, f.Compute(decimal.NewFromInt(999)).Equal(decimal.NewFromInt(2)))

	noRecipient := fee.UsageFee{Share: decimal.RequireFromString("0.5")}
	assert.True(t, noRecipient.Compute(decimal.NewFromInt(1000)).IsZero())
}

func TestNewUsageFeeRejectsBadRecipient(t *testing.T) {
	_, err := fee.NewUsageFee(decimal.Zero, "not-an-address", host.NewBech32Validator("juno"))
	assert.True(t, adaptererr.Is(err, adaptererr.CodeAddressValidationFailed))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	initial := fee.UsageFee{Share: decimal.RequireFromString("0.01"), Recipient: mock.Address("juno", "a")}
	store, err := fee.OpenSQLiteStore(filepath.Join(dir, "fee.db"), filepath.Join(dir, "fee.lock"), initial)
	assert.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	loaded, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.True(t, loaded.Share.Equal(initial.Share))
	assert.Equal(t, loaded.Recipient, initial.Recipient)

	updated := fee.UsageFee{Share: decimal.RequireFromString("0.02"), Recipient: mock.Address("juno", "b")}
	assert.NoError(t, store.Save(ctx, updated))

	loaded, err = store.Load(ctx)
	assert.NoError(t, err)
	assert.True(t, loaded.Share.Equal(updated.Share))
	assert.Equal(t, loaded.Recipient, updated.Recipient)

	history, err := store.History(ctx, 5)
	assert.NoError(t, err)
	assert.Equal(t, len(history), 1)
	assert.Equal(t, history[0].Fee.Recipient, updated.Recipient)
}

func TestSQLiteStoreKeepsExistingFeeOnReopen(t *testing.T) {
	dir := t.TempDir()
	path, lock := filepath.Join(dir, "fee.db"), filepath.Join(dir, "fee.lock")
	ctx := context.Background()

	store, err := fee.OpenSQLiteStore(path, lock, fee.UsageFee{Share: decimal.Zero})
	assert.NoError(t, err)
	assert.NoError(t, store.Save(ctx, fee.UsageFee{Share: decimal.RequireFromString("0.05")}))
	assert.NoError(t, store.Close())

	reopened, err := fee.OpenSQLiteStore(path, lock, fee.UsageFee{Share: decimal.Zero})
	assert.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.Load(ctx)
	assert.NoError(t, err)
	assert.True(t, loaded.Share.Equal(decimal.RequireFromString("0.05")))
}

func TestMemoryStore(t *testing.T) {
	store := fee.NewMemoryStore(fee.UsageFee{})
	ctx := context.Background()
	assert.NoError(t, store.Save(ctx, fee.UsageFee{Share: decimal.RequireFromString("0.1")}))
	loaded, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.True(t, loaded.Share.Equal(decimal.RequireFromString("0.1")))
}
