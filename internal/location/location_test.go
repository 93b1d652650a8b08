package location

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStoreGetReturnsNilBeforeSet(t *testing.T) {
	var store Store
	assert.Nil(t, store.Get())
}

func TestStoreGetReturnsCopy(t *testing.T) {
	var store Store
	store.Set(Fix{Lat: 53.5444, Lon: -113.4909, AccuracyMeters: 10})

	first := store.Get()
	require.NotNil(t, first)
	first.Lat = 0

	second := store.Get()
	assert.Equal(t, 53.5444, second.Lat, "mutating a returned fix must not affect the store")
}

func TestAcquireIntoStoresFix(t *testing.T) {
	var store Store
	fix := Fix{Lat: 53.5675, Lon: -113.5050, AccuracyMeters: 5}

	AcquireInto(context.Background(), StaticProvider{Fix: fix}, &store, discardLogger())

	got := store.Get()
	require.NotNil(t, got)
	assert.Equal(t, fix, *got)
}

func TestAcquireIntoLeavesStoreEmptyOnFailure(t *testing.T) {
	var store Store

	AcquireInto(context.Background(), FailingProvider{Err: ErrPermissionDenied}, &store, discardLogger())

	assert.Nil(t, store.Get())
}

func TestAcquireIntoLaterFixOverwrites(t *testing.T) {
	var store Store

	AcquireInto(context.Background(), StaticProvider{Fix: Fix{Lat: 1, Lon: 2, AccuracyMeters: 50}}, &store, discardLogger())
	AcquireInto(context.Background(), StaticProvider{Fix: Fix{Lat: 3, Lon: 4, AccuracyMeters: 8}}, &store, discardLogger())

	got := store.Get()
	require.NotNil(t, got)
	assert.Equal(t, 3.0, got.Lat)
	assert.Equal(t, 8.0, got.AccuracyMeters)
}

func TestFailingProviderDefaultsToUnavailable(t *testing.T) {
	_, err := FailingProvider{}.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
