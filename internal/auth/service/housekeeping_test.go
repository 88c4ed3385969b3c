package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingPrune(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.signIn(t)

	reg := prometheus.NewRegistry()
	hk := service.NewHousekeepingService(h.store, slog.Default(), service.NewMetrics(reg), time.Hour)
	hk.Now = h.clock.Now

	n, err := hk.Prune(context.Background())
	require.NoError(t, err)
	require.Zero(t, n, "live sessions are kept")

	h.clock.Advance(8 * 24 * time.Hour)

	n, err = hk.Prune(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	count, err := testutil.GatherAndCount(reg, "tokenauth_ledger_pruned_entries_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestHousekeepingStartStop(t *testing.T) {
	h := newHarness(t)

	hk := service.NewHousekeepingService(h.store, nil, nil, 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
	hk.Stop()
}
